// Package kern implements an algebra of covariance functions.
//
// Kernels are immutable expressions. Primitive kernels (Zero, One, EQ,
// Delta, Linear, Matern12, Matern32, Func) are combined with Add, Mul,
// Scale, Shift, Stretch, Select, Transform, NewPeriodic and Reverse. The
// constructors simplify where an algebraic rule applies (Zero + k = k,
// One * k = k, Zero * k = Zero, ...) and otherwise wrap their operands.
package kern

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

// Kernel is a covariance function between two batches of inputs.
type Kernel interface {
	// Covariance matrix between the rows of x and the rows of y.
	Eval(x, y *mat.Dense) (*mat.Dense, error)

	String() string
}

// Factor is a Cholesky factor L of an observation covariance. SolveL
// returns L⁻¹b.
type Factor interface {
	Size() int
	SolveL(b *mat.Dense) (*mat.Dense, error)
}

// Weight is a deterministic function of a batch, one value per row. Mean
// functions satisfy it.
type Weight interface {
	Eval(x *mat.Dense) (*mat.VecDense, error)
	String() string
}

// InputMap reparameterizes a batch of inputs.
type InputMap func(x *mat.Dense) *mat.Dense

// Symmetric kernels equal their own reverse.
type symmetric interface {
	symmetric()
}

func checkWidth(op string, x, y *mat.Dense) error {
	_, cx := x.Dims()
	_, cy := y.Dims()
	if cx != cy {
		return gogp.NewShapeError(op, "inputs have %d and %d features", cx, cy)
	}
	return nil
}

// Squared Euclidean distances between the rows of x and y.
func sqDists(op string, x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkWidth(op, x, y); err != nil {
		return nil, err
	}
	nx, c := x.Dims()
	ny, _ := y.Dims()
	out := mat.NewDense(nx, ny, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			d := 0.0
			for k := 0; k < c; k++ {
				diff := x.At(i, k) - y.At(j, k)
				d += diff * diff
			}
			out.Set(i, j, d)
		}
	}
	return out, nil
}

func rows(x *mat.Dense) int {
	r, _ := x.Dims()
	return r
}

// Package mean implements an algebra of mean functions. It mirrors package
// kern: primitives (Zero, One, Constant, Func) are combined with Add, Mul,
// Scale, Shift, Stretch, Select and Transform, with the same
// simplification rules.
package mean

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/kern"
)

type Mean interface {
	// Value of the mean at every row of x.
	Eval(x *mat.Dense) (*mat.VecDense, error)

	String() string
}

var _ kern.Weight = Mean(nil)

// Contiguous copy of a vector, safe to modify in place.
func fresh(v mat.Vector) *mat.VecDense {
	return mat.VecDenseCopyOf(v)
}

func data(v *mat.VecDense) []float64 {
	return v.RawVector().Data
}

func rows(x *mat.Dense) int {
	r, _ := x.Dims()
	return r
}

func sameLen(op string, a, b *mat.VecDense) error {
	if a.Len() != b.Len() {
		return gogp.NewShapeError(op, "operands evaluate to %d and %d values", a.Len(), b.Len())
	}
	return nil
}

// Elementwise a += b.
func addTo(a, b *mat.VecDense) {
	floats.Add(data(a), data(b))
}

// Elementwise a *= b.
func mulTo(a, b *mat.VecDense) {
	floats.Mul(data(a), data(b))
}

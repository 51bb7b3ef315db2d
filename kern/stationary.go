package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	_ Kernel = (*ExpQuad)(nil)
	_ Kernel = (*Matern12)(nil)
	_ Kernel = (*Matern32)(nil)
	_ Kernel = (*Nugget)(nil)
)

// ExpQuad is the exponentiated quadratic kernel exp(-‖x−y‖²/2). Use
// Stretch for the length scale and Scale for the variance.
type ExpQuad struct{}

func EQ() *ExpQuad {
	return &ExpQuad{}
}

func (k *ExpQuad) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	d, err := sqDists("kern.EQ", x, y)
	if err != nil {
		return nil, err
	}
	d.Apply(func(_, _ int, v float64) float64 { return math.Exp(-0.5 * v) }, d)
	return d, nil
}

func (k *ExpQuad) String() string { return "EQ()" }

func (k *ExpQuad) symmetric() {}

// Matern12 is the exponential kernel exp(-‖x−y‖).
type Matern12 struct{}

func NewMatern12() *Matern12 {
	return &Matern12{}
}

func (k *Matern12) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	d, err := sqDists("kern.Matern12", x, y)
	if err != nil {
		return nil, err
	}
	d.Apply(func(_, _ int, v float64) float64 { return math.Exp(-math.Sqrt(v)) }, d)
	return d, nil
}

func (k *Matern12) String() string { return "Matern12()" }

func (k *Matern12) symmetric() {}

// Matern32 is the kernel (1 + √3 r) exp(-√3 r) with r = ‖x−y‖.
type Matern32 struct{}

func NewMatern32() *Matern32 {
	return &Matern32{}
}

func (k *Matern32) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	d, err := sqDists("kern.Matern32", x, y)
	if err != nil {
		return nil, err
	}
	d.Apply(func(_, _ int, v float64) float64 {
		r := math.Sqrt(3 * v)
		return (1 + r) * math.Exp(-r)
	}, d)
	return d, nil
}

func (k *Matern32) String() string { return "Matern32()" }

func (k *Matern32) symmetric() {}

// DefaultDeltaTolerance is the squared distance under which Delta
// considers two inputs equal.
const DefaultDeltaTolerance = 1e-10

// Nugget is the white-noise kernel: one for coinciding inputs, zero
// elsewhere.
type Nugget struct {
	tol float64
}

// Delta returns the white-noise kernel with the default tolerance.
func Delta() *Nugget {
	return &Nugget{tol: DefaultDeltaTolerance}
}

// DeltaWithin returns the white-noise kernel that considers inputs closer
// than tol (squared distance) equal.
func DeltaWithin(tol float64) *Nugget {
	return &Nugget{tol: tol}
}

func (k *Nugget) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	d, err := sqDists("kern.Delta", x, y)
	if err != nil {
		return nil, err
	}
	d.Apply(func(_, _ int, v float64) float64 {
		if v < k.tol {
			return 1
		}
		return 0
	}, d)
	return d, nil
}

func (k *Nugget) String() string { return "Delta()" }

func (k *Nugget) symmetric() {}

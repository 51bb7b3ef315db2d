package kern

import (
	"strconv"

	"gonum.org/v1/gonum/mat"
)

var (
	_ Kernel = (*Zero)(nil)
	_ Kernel = (*Constant)(nil)
)

// Zero is the kernel of a process independent of everything.
type Zero struct{}

func NewZero() *Zero {
	return &Zero{}
}

func (k *Zero) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkWidth("kern.Zero", x, y); err != nil {
		return nil, err
	}
	return mat.NewDense(rows(x), rows(y), nil), nil
}

func (k *Zero) String() string { return "0" }

func (k *Zero) symmetric() {}

// Constant covariance between every pair of inputs.
type Constant struct {
	variance float64
}

func NewConstant(variance float64) *Constant {
	return &Constant{
		variance: variance,
	}
}

// One is the unit constant kernel.
func One() *Constant {
	return NewConstant(1)
}

func (k *Constant) Variance() float64 {
	return k.variance
}

func (k *Constant) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkWidth("kern.Constant", x, y); err != nil {
		return nil, err
	}
	out := mat.NewDense(rows(x), rows(y), nil)
	if k.variance != 0 {
		out.Apply(func(_, _ int, _ float64) float64 { return k.variance }, out)
	}
	return out, nil
}

func (k *Constant) String() string {
	if k.variance == 1 {
		return "1"
	}
	return strconv.FormatFloat(k.variance, 'g', -1, 64)
}

func (k *Constant) symmetric() {}

func isZero(k Kernel) bool {
	switch k := k.(type) {
	case *Zero:
		return true
	case *Constant:
		return k.variance == 0
	}
	return false
}

func isOne(k Kernel) bool {
	c, ok := k.(*Constant)
	return ok && c.variance == 1
}

// IsZero reports whether k is identically zero. A nil kernel is zero.
func IsZero(k Kernel) bool {
	return k == nil || isZero(k)
}

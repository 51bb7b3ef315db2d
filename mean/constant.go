package mean

import (
	"strconv"

	"gonum.org/v1/gonum/mat"
)

var (
	_ Mean = (*Zero)(nil)
	_ Mean = (*Constant)(nil)
)

// Zero mean.
type Zero struct{}

func NewZero() *Zero {
	return &Zero{}
}

func (m *Zero) Eval(x *mat.Dense) (*mat.VecDense, error) {
	return mat.NewVecDense(rows(x), nil), nil
}

func (m *Zero) String() string { return "0" }

// Constant mean.
type Constant struct {
	value float64
}

func NewConstant(value float64) *Constant {
	return &Constant{value: value}
}

// One is the unit constant mean.
func One() *Constant {
	return NewConstant(1)
}

func (m *Constant) Value() float64 {
	return m.value
}

func (m *Constant) Eval(x *mat.Dense) (*mat.VecDense, error) {
	out := mat.NewVecDense(rows(x), nil)
	for i := range data(out) {
		data(out)[i] = m.value
	}
	return out, nil
}

func (m *Constant) String() string {
	return strconv.FormatFloat(m.value, 'g', -1, 64)
}

func isZero(m Mean) bool {
	switch m := m.(type) {
	case nil:
		return true
	case *Zero:
		return true
	case *Constant:
		return m.value == 0
	}
	return false
}

func isOne(m Mean) bool {
	c, ok := m.(*Constant)
	return ok && c.value == 1
}

// IsZero reports whether m is identically zero. A nil mean is zero.
func IsZero(m Mean) bool {
	return isZero(m)
}

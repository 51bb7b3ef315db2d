package mean

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var _ Mean = (*Scaled)(nil)

// Mean multiplied by a scalar.
type Scaled struct {
	scale float64
	mean  Mean
}

// Scale returns c * m.
func Scale(c float64, m Mean) Mean {
	if c == 0 || isZero(m) {
		return NewZero()
	}
	if c == 1 {
		return m
	}
	switch m := m.(type) {
	case *Constant:
		return NewConstant(c * m.value)
	case *Scaled:
		return Scale(c*m.scale, m.mean)
	}
	return &Scaled{scale: c, mean: m}
}

// Div returns m / c.
func Div(m Mean, c float64) Mean {
	return Scale(1/c, m)
}

func (m *Scaled) Eval(x *mat.Dense) (*mat.VecDense, error) {
	val, err := m.mean.Eval(x)
	if err != nil {
		return nil, err
	}
	out := fresh(val)
	floats.Scale(m.scale, data(out))
	return out, nil
}

func (m *Scaled) String() string {
	if _, ok := m.mean.(*Sum); ok {
		return fmt.Sprintf("%g * (%s)", m.scale, m.mean)
	}
	return fmt.Sprintf("%g * %s", m.scale, m.mean)
}

package kern

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var _ Kernel = (*Scaled)(nil)

// Kernel multiplied by a scalar.
type Scaled struct {
	scale  float64
	kernel Kernel
}

// Scale returns c * k.
func Scale(c float64, k Kernel) Kernel {
	if c == 0 || isZero(k) {
		return NewZero()
	}
	if c == 1 {
		return k
	}
	switch k := k.(type) {
	case *Constant:
		return NewConstant(c * k.variance)
	case *Scaled:
		return Scale(c*k.scale, k.kernel)
	}
	return &Scaled{scale: c, kernel: k}
}

// Div returns k / c.
func Div(k Kernel, c float64) Kernel {
	return Scale(1/c, k)
}

func (k *Scaled) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	out, err := k.kernel.Eval(x, y)
	if err != nil {
		return nil, err
	}
	out.Scale(k.scale, out)
	return out, nil
}

func (k *Scaled) String() string {
	if _, ok := k.kernel.(*Sum); ok {
		return fmt.Sprintf("%g * (%s)", k.scale, k.kernel)
	}
	return fmt.Sprintf("%g * %s", k.scale, k.kernel)
}

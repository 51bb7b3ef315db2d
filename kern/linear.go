package kern

import (
	"gonum.org/v1/gonum/mat"
)

var _ Kernel = (*Linear)(nil)

// Linear is the dot-product kernel x·y.
type Linear struct{}

func NewLinear() *Linear {
	return &Linear{}
}

func (k *Linear) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkWidth("kern.Linear", x, y); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(x, y.T())
	return &out, nil
}

func (k *Linear) String() string { return "Linear()" }

func (k *Linear) symmetric() {}

package kern

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

var _ Kernel = (*Func)(nil)

// Func is a user-supplied kernel. The function must return a |x|×|y|
// matrix.
type Func struct {
	name string
	f    func(x, y *mat.Dense) *mat.Dense
}

func NewFunc(name string, f func(x, y *mat.Dense) *mat.Dense) *Func {
	return &Func{name: name, f: f}
}

func (k *Func) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if k.f == nil {
		return nil, gogp.ErrInvalidOperation
	}
	if err := checkWidth("kern.Func", x, y); err != nil {
		return nil, err
	}
	out := k.f(x, y)
	if out == nil {
		return nil, fmt.Errorf("%w: %s returned nil", gogp.ErrInvalidOperation, k.name)
	}
	if r, c := out.Dims(); r != rows(x) || c != rows(y) {
		return nil, gogp.NewShapeError("kern.Func", "%s returned %d×%d for %d×%d", k.name, r, c, rows(x), rows(y))
	}
	return mat.DenseCopyOf(out), nil
}

func (k *Func) String() string { return k.name }

package mean

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

var _ Mean = (*Func)(nil)

// Func wraps a deterministic function returning one value per input row,
// e.g. a parametric trend.
type Func struct {
	name string
	f    func(x *mat.Dense) *mat.VecDense
}

// NewFunc wraps f. Its name, as reported by the runtime, identifies the
// mean in diagnostics.
func NewFunc(f func(x *mat.Dense) *mat.VecDense) *Func {
	return &Func{name: funcName(f), f: f}
}

// NewNamedFunc wraps f under an explicit name.
func NewNamedFunc(name string, f func(x *mat.Dense) *mat.VecDense) *Func {
	return &Func{name: name, f: f}
}

func funcName(f any) string {
	if f == nil || reflect.ValueOf(f).IsNil() {
		return "<nil>"
	}
	name := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (m *Func) Eval(x *mat.Dense) (*mat.VecDense, error) {
	if m.f == nil {
		return nil, gogp.ErrInvalidOperation
	}
	out := m.f(x)
	if out == nil {
		return nil, fmt.Errorf("%w: %s returned nil", gogp.ErrInvalidOperation, m.name)
	}
	if out.Len() != rows(x) {
		return nil, gogp.NewShapeError("mean.Func", "%s returned %d values for %d inputs", m.name, out.Len(), rows(x))
	}
	return fresh(out), nil
}

func (m *Func) String() string { return m.name }

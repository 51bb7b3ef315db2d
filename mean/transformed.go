package mean

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/kern"
	"github.com/lucasmaystre/gogp/utils"
)

var (
	_ Mean = (*Shifted)(nil)
	_ Mean = (*Stretched)(nil)
	_ Mean = (*Selected)(nil)
	_ Mean = (*Transformed)(nil)
)

// Means that do not depend on their inputs.
func constant(m Mean) bool {
	switch m.(type) {
	case nil, *Zero, *Constant:
		return true
	}
	return false
}

// Shifted evaluates m(x − s).
type Shifted struct {
	mean  Mean
	shift []float64
}

// Shift returns the mean with inputs shifted by s, given per feature or as
// one scalar.
func Shift(m Mean, s ...float64) Mean {
	if constant(m) {
		return orZero(m)
	}
	return &Shifted{mean: m, shift: s}
}

func (m *Shifted) Eval(x *mat.Dense) (*mat.VecDense, error) {
	if err := checkParams("mean.Shift", len(m.shift), x); err != nil {
		return nil, err
	}
	return m.mean.Eval(utils.ShiftInputs(x, m.shift...))
}

func (m *Shifted) String() string {
	return fmt.Sprintf("%s shift %v", m.mean, m.shift)
}

// Stretched evaluates m(x / s).
type Stretched struct {
	mean    Mean
	stretch []float64
}

// Stretch returns the mean with inputs divided by s, given per feature or
// as one scalar.
func Stretch(m Mean, s ...float64) Mean {
	if constant(m) {
		return orZero(m)
	}
	return &Stretched{mean: m, stretch: s}
}

func (m *Stretched) Eval(x *mat.Dense) (*mat.VecDense, error) {
	if err := checkParams("mean.Stretch", len(m.stretch), x); err != nil {
		return nil, err
	}
	return m.mean.Eval(utils.StretchInputs(x, m.stretch...))
}

func (m *Stretched) String() string {
	return fmt.Sprintf("%s > %v", m.mean, m.stretch)
}

// Selected evaluates m on a subset of the input features.
type Selected struct {
	mean Mean
	idx  []int
}

// Select returns the mean restricted to the features idx.
func Select(m Mean, idx ...int) Mean {
	if constant(m) {
		return orZero(m)
	}
	return &Selected{mean: m, idx: idx}
}

func (m *Selected) Eval(x *mat.Dense) (*mat.VecDense, error) {
	_, c := x.Dims()
	for _, i := range m.idx {
		if i < 0 || i >= c {
			return nil, gogp.NewShapeError("mean.Select", "feature %d of %d", i, c)
		}
	}
	return m.mean.Eval(utils.SelectInputs(x, m.idx...))
}

func (m *Selected) String() string {
	return fmt.Sprintf("%s : %v", m.mean, m.idx)
}

// Transformed evaluates m(f(x)).
type Transformed struct {
	mean Mean
	f    kern.InputMap
}

// Transform reparameterizes the inputs with f before delegating to m.
func Transform(m Mean, f kern.InputMap) Mean {
	if constant(m) || f == nil {
		return orZero(m)
	}
	return &Transformed{mean: m, f: f}
}

func (m *Transformed) Eval(x *mat.Dense) (*mat.VecDense, error) {
	return m.mean.Eval(m.f(x))
}

func (m *Transformed) String() string {
	return fmt.Sprintf("%s transformed", m.mean)
}

func orZero(m Mean) Mean {
	if m == nil {
		return NewZero()
	}
	return m
}

func checkParams(op string, n int, x *mat.Dense) error {
	if _, c := x.Dims(); n != 1 && n != c {
		return gogp.NewShapeError(op, "%d parameters for %d features", n, c)
	}
	return nil
}

package kern

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/utils"
)

var (
	_ Kernel = (*Shifted)(nil)
	_ Kernel = (*Stretched)(nil)
	_ Kernel = (*Selected)(nil)
	_ Kernel = (*Transformed)(nil)
	_ Kernel = (*Periodic)(nil)
)

// Kernels whose value only depends on x − y.
func stationary(k Kernel) bool {
	switch k.(type) {
	case *Zero, *Constant, *ExpQuad, *Matern12, *Matern32, *Nugget:
		return true
	}
	return false
}

// Shifted evaluates k(x − s, y − s).
type Shifted struct {
	kernel Kernel
	shift  []float64
}

// Shift returns the kernel with inputs shifted by s, given per feature or
// as one scalar. Stationary kernels are returned unchanged.
func Shift(k Kernel, s ...float64) Kernel {
	if stationary(k) {
		return k
	}
	return &Shifted{kernel: k, shift: s}
}

func (k *Shifted) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkParams("kern.Shift", len(k.shift), x, y); err != nil {
		return nil, err
	}
	return k.kernel.Eval(utils.ShiftInputs(x, k.shift...), utils.ShiftInputs(y, k.shift...))
}

func (k *Shifted) String() string {
	return fmt.Sprintf("%s shift %v", k.kernel, k.shift)
}

// Stretched evaluates k(x / s, y / s).
type Stretched struct {
	kernel  Kernel
	stretch []float64
}

// Stretch returns the kernel with inputs divided by s, given per feature or
// as one scalar. This sets the length scale.
func Stretch(k Kernel, s ...float64) Kernel {
	switch k.(type) {
	case *Zero, *Constant, *Nugget:
		return k
	}
	return &Stretched{kernel: k, stretch: s}
}

func (k *Stretched) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkParams("kern.Stretch", len(k.stretch), x, y); err != nil {
		return nil, err
	}
	return k.kernel.Eval(utils.StretchInputs(x, k.stretch...), utils.StretchInputs(y, k.stretch...))
}

func (k *Stretched) String() string {
	return fmt.Sprintf("%s > %v", k.kernel, k.stretch)
}

// Selected evaluates k on a subset of the input features.
type Selected struct {
	kernel Kernel
	idx    []int
}

// Select returns the kernel restricted to the features idx.
func Select(k Kernel, idx ...int) Kernel {
	if isZero(k) {
		return k
	}
	return &Selected{kernel: k, idx: idx}
}

func (k *Selected) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	for _, in := range []*mat.Dense{x, y} {
		_, c := in.Dims()
		for _, i := range k.idx {
			if i < 0 || i >= c {
				return nil, gogp.NewShapeError("kern.Select", "feature %d of %d", i, c)
			}
		}
	}
	return k.kernel.Eval(utils.SelectInputs(x, k.idx...), utils.SelectInputs(y, k.idx...))
}

func (k *Selected) String() string {
	return fmt.Sprintf("%s : %v", k.kernel, k.idx)
}

// Transformed evaluates k(f(x), g(y)).
type Transformed struct {
	kernel Kernel
	f, g   InputMap
}

// Transform reparameterizes the left inputs with f and the right inputs
// with g before delegating to k. A nil map is the identity.
func Transform(k Kernel, f, g InputMap) Kernel {
	if f == nil && g == nil {
		return k
	}
	if isZero(k) {
		return k
	}
	return &Transformed{kernel: k, f: f, g: g}
}

func (k *Transformed) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if k.f != nil {
		x = k.f(x)
	}
	if k.g != nil {
		y = k.g(y)
	}
	return k.kernel.Eval(x, y)
}

func (k *Transformed) String() string {
	return fmt.Sprintf("%s transformed", k.kernel)
}

// Periodic makes a kernel periodic by embedding every input feature on a
// circle before delegating.
type Periodic struct {
	kernel Kernel
	period float64
}

func NewPeriodic(k Kernel, period float64) Kernel {
	switch k.(type) {
	case *Zero, *Constant:
		return k
	}
	return &Periodic{kernel: k, period: period}
}

func (k *Periodic) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	if err := checkWidth("kern.Periodic", x, y); err != nil {
		return nil, err
	}
	return k.kernel.Eval(utils.PeriodicInputs(x, k.period), utils.PeriodicInputs(y, k.period))
}

func (k *Periodic) String() string {
	return fmt.Sprintf("%s per %g", k.kernel, k.period)
}

func checkParams(op string, n int, x, y *mat.Dense) error {
	if err := checkWidth(op, x, y); err != nil {
		return err
	}
	if _, c := x.Dims(); n != 1 && n != c {
		return gogp.NewShapeError(op, "%d parameters for %d features", n, c)
	}
	return nil
}

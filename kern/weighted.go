package kern

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

var _ Kernel = (*Weighted)(nil)

// Weighted evaluates a(x)·k(x, y)·b(y) for deterministic weights a and b.
// A nil weight is one.
type Weighted struct {
	kernel Kernel
	a, b   Weight
}

func NewWeighted(k Kernel, a, b Weight) Kernel {
	if isZero(k) || (a == nil && b == nil) {
		return k
	}
	return &Weighted{kernel: k, a: a, b: b}
}

func (k *Weighted) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	out, err := k.kernel.Eval(x, y)
	if err != nil {
		return nil, err
	}
	r, c := out.Dims()
	if k.a != nil {
		wa, err := k.a.Eval(x)
		if err != nil {
			return nil, err
		}
		if wa.Len() != r {
			return nil, gogp.NewShapeError("kern.Weighted", "weight of length %d for %d rows", wa.Len(), r)
		}
		out.Apply(func(i, _ int, v float64) float64 { return wa.AtVec(i) * v }, out)
	}
	if k.b != nil {
		wb, err := k.b.Eval(y)
		if err != nil {
			return nil, err
		}
		if wb.Len() != c {
			return nil, gogp.NewShapeError("kern.Weighted", "weight of length %d for %d columns", wb.Len(), c)
		}
		out.Apply(func(_, j int, v float64) float64 { return v * wb.AtVec(j) }, out)
	}
	return out, nil
}

func (k *Weighted) String() string {
	a, b := "1", "1"
	if k.a != nil {
		a = k.a.String()
	}
	if k.b != nil {
		b = k.b.String()
	}
	return fmt.Sprintf("%s ⊗ (%s) ⊗ %s", a, k.kernel, b)
}

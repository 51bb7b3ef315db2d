package kern

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

var _ Kernel = (*Product)(nil)

// Pointwise product of kernels.
type Product struct {
	parts []Kernel
}

// Mul returns the pointwise product first * second. Nested products are
// flattened.
func Mul(first, second Kernel) Kernel {
	if isZero(first) || isZero(second) {
		return NewZero()
	}
	if isOne(first) {
		return second
	}
	if isOne(second) {
		return first
	}
	if c, ok := first.(*Constant); ok {
		return Scale(c.variance, second)
	}
	if c, ok := second.(*Constant); ok {
		return Scale(c.variance, first)
	}
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Product:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Product:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Product{
		parts: parts,
	}
}

func (k *Product) Parts() []Kernel {
	return k.parts
}

func (k *Product) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	var out *mat.Dense
	for _, part := range k.parts {
		val, err := part.Eval(x, y)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = val
			continue
		}
		if err := sameDims("kern.Mul", out, val); err != nil {
			return nil, err
		}
		out.MulElem(out, val)
	}
	return out, nil
}

func (k *Product) String() string {
	strs := make([]string, len(k.parts))
	for i, part := range k.parts {
		if _, ok := part.(*Sum); ok {
			strs[i] = "(" + part.String() + ")"
		} else {
			strs[i] = part.String()
		}
	}
	return strings.Join(strs, " * ")
}

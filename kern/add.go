package kern

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

var _ Kernel = (*Sum)(nil)

// Sum of kernels.
type Sum struct {
	parts []Kernel
}

// Add returns first + second. Nested sums are flattened.
func Add(first, second Kernel) Kernel {
	if isZero(first) {
		return second
	}
	if isZero(second) {
		return first
	}
	if a, ok := first.(*Constant); ok {
		if b, ok := second.(*Constant); ok {
			return NewConstant(a.variance + b.variance)
		}
	}
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Sum:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Sum:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Sum{
		parts: parts,
	}
}

// Sub returns first − second.
func Sub(first, second Kernel) Kernel {
	return Add(first, Scale(-1, second))
}

// AddAll sums any number of kernels; the empty sum is Zero.
func AddAll(ks ...Kernel) Kernel {
	var out Kernel = NewZero()
	for _, k := range ks {
		out = Add(out, k)
	}
	return out
}

func (k *Sum) Parts() []Kernel {
	return k.parts
}

func (k *Sum) Eval(x, y *mat.Dense) (*mat.Dense, error) {
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
		if err := sameDims("kern.Add", out, val); err != nil {
			return nil, err
		}
		out.Add(out, val)
	}
	return out, nil
}

func (k *Sum) String() string {
	strs := make([]string, len(k.parts))
	for i, part := range k.parts {
		strs[i] = part.String()
	}
	return strings.Join(strs, " + ")
}

func sameDims(op string, a, b mat.Matrix) error {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb || ca != cb {
		return gogp.NewShapeError(op, "operands evaluate to %d×%d and %d×%d", ra, ca, rb, cb)
	}
	return nil
}

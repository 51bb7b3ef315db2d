package mean

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	_ Mean = (*Sum)(nil)
	_ Mean = (*Product)(nil)
)

// Sum of means.
type Sum struct {
	parts []Mean
}

// Add returns first + second. A nil operand is Zero.
func Add(first, second Mean) Mean {
	if isZero(first) {
		if second == nil {
			return NewZero()
		}
		return second
	}
	if isZero(second) {
		return first
	}
	if a, ok := first.(*Constant); ok {
		if b, ok := second.(*Constant); ok {
			return NewConstant(a.value + b.value)
		}
	}
	parts := make([]Mean, 0, 2)
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
	return &Sum{parts: parts}
}

// Sub returns first − second.
func Sub(first, second Mean) Mean {
	return Add(first, Scale(-1, second))
}

func (m *Sum) Parts() []Mean {
	return m.parts
}

func (m *Sum) Eval(x *mat.Dense) (*mat.VecDense, error) {
	var out *mat.VecDense
	for _, part := range m.parts {
		val, err := part.Eval(x)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = fresh(val)
			continue
		}
		if err := sameLen("mean.Add", out, val); err != nil {
			return nil, err
		}
		addTo(out, fresh(val))
	}
	return out, nil
}

func (m *Sum) String() string {
	strs := make([]string, len(m.parts))
	for i, part := range m.parts {
		strs[i] = part.String()
	}
	return strings.Join(strs, " + ")
}

// Pointwise product of means.
type Product struct {
	parts []Mean
}

// Mul returns the pointwise product first * second. A nil operand is Zero.
func Mul(first, second Mean) Mean {
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
		return Scale(c.value, second)
	}
	if c, ok := second.(*Constant); ok {
		return Scale(c.value, first)
	}
	parts := make([]Mean, 0, 2)
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
	return &Product{parts: parts}
}

func (m *Product) Parts() []Mean {
	return m.parts
}

func (m *Product) Eval(x *mat.Dense) (*mat.VecDense, error) {
	var out *mat.VecDense
	for _, part := range m.parts {
		val, err := part.Eval(x)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = fresh(val)
			continue
		}
		if err := sameLen("mean.Mul", out, val); err != nil {
			return nil, err
		}
		mulTo(out, fresh(val))
	}
	return out, nil
}

func (m *Product) String() string {
	strs := make([]string, len(m.parts))
	for i, part := range m.parts {
		if _, ok := part.(*Sum); ok {
			strs[i] = "(" + part.String() + ")"
		} else {
			strs[i] = part.String()
		}
	}
	return strings.Join(strs, " * ")
}

package kern

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var _ Kernel = (*Reversed)(nil)

// Reversed evaluates k(y, x)ᵀ.
type Reversed struct {
	kernel Kernel
}

// Reverse swaps the arguments of k. Symmetric kernels are their own
// reverse, and the reverse is pushed through the algebraic combinators.
func Reverse(k Kernel) Kernel {
	if _, ok := k.(symmetric); ok {
		return k
	}
	switch k := k.(type) {
	case *Reversed:
		return k.kernel
	case *Sum:
		out := make([]Kernel, len(k.parts))
		for i, part := range k.parts {
			out[i] = Reverse(part)
		}
		return AddAll(out...)
	case *Product:
		var out Kernel = One()
		for _, part := range k.parts {
			out = Mul(out, Reverse(part))
		}
		return out
	case *Scaled:
		return Scale(k.scale, Reverse(k.kernel))
	case *Shifted:
		return Shift(Reverse(k.kernel), k.shift...)
	case *Stretched:
		return Stretch(Reverse(k.kernel), k.stretch...)
	case *Selected:
		return Select(Reverse(k.kernel), k.idx...)
	case *Periodic:
		return NewPeriodic(Reverse(k.kernel), k.period)
	case *Transformed:
		return Transform(Reverse(k.kernel), k.g, k.f)
	case *Weighted:
		return NewWeighted(Reverse(k.kernel), k.b, k.a)
	case *PosteriorCross:
		if k.kgs == nil {
			return &PosteriorCross{kernel: Reverse(k.kernel), xs: k.xs, kfs: k.kfs, factor: k.factor}
		}
		return &PosteriorCross{
			kernel: Reverse(k.kernel),
			xs:     k.xs,
			kfs:    k.kgs,
			kgs:    k.kfs,
			factor: k.factor,
		}
	}
	return &Reversed{kernel: k}
}

func (k *Reversed) Eval(x, y *mat.Dense) (*mat.Dense, error) {
	out, err := k.kernel.Eval(y, x)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(out.T()), nil
}

func (k *Reversed) String() string {
	return fmt.Sprintf("Reversed(%s)", k.kernel)
}

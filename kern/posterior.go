package kern

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/utils"
)

var _ Kernel = (*PosteriorCross)(nil)

// PosteriorCross is the covariance between two processes f and g after
// conditioning on observations:
//
//	k(z, w) − K_of(z)ᵀ K_oo⁻¹ K_og(w)
//
// K_of(z) stacks kfs[i](xs[i], z) over the observed batches, and K_oo = LLᵀ
// is given by its Cholesky factor. A nil kgs means g is f.
type PosteriorCross struct {
	kernel   Kernel
	xs       []*mat.Dense
	kfs, kgs []Kernel
	factor   Factor
}

func NewPosteriorCross(k Kernel, xs []*mat.Dense, kfs, kgs []Kernel, factor Factor) (*PosteriorCross, error) {
	if len(kfs) != len(xs) || (kgs != nil && len(kgs) != len(xs)) {
		return nil, gogp.NewShapeError("kern.PosteriorCross",
			"%d observed batches, %d and %d cross-kernels", len(xs), len(kfs), len(kgs))
	}
	n := 0
	for _, x := range xs {
		n += rows(x)
	}
	if n != factor.Size() {
		return nil, gogp.NewShapeError("kern.PosteriorCross", "%d observations for a factor of order %d", n, factor.Size())
	}
	return &PosteriorCross{
		kernel: k,
		xs:     xs,
		kfs:    kfs,
		kgs:    kgs,
		factor: factor,
	}, nil
}

// Whitened returns L⁻¹ K_of(z) for the given observation cross-kernels.
func Whitened(xs []*mat.Dense, ks []Kernel, z *mat.Dense, factor Factor) (*mat.Dense, error) {
	blocks := make([]mat.Matrix, len(xs))
	for i, x := range xs {
		b, err := ks[i].Eval(x, z)
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}
	return factor.SolveL(utils.VStack(blocks...))
}

func (k *PosteriorCross) Eval(z, w *mat.Dense) (*mat.Dense, error) {
	// A Zero prior may link processes on inputs of different widths.
	out := mat.NewDense(rows(z), rows(w), nil)
	if !isZero(k.kernel) {
		prior, err := k.kernel.Eval(z, w)
		if err != nil {
			return nil, err
		}
		out = prior
	}
	a, err := Whitened(k.xs, k.kfs, z, k.factor)
	if err != nil {
		return nil, err
	}
	b := a
	if z != w || k.kgs != nil {
		kgs := k.kgs
		if kgs == nil {
			kgs = k.kfs
		}
		b, err = Whitened(k.xs, kgs, w, k.factor)
		if err != nil {
			return nil, err
		}
	}
	// out = k(z, w) − aᵀ b
	var tmp mat.Dense
	tmp.Mul(a.T(), b)
	if err := sameDims("kern.PosteriorCross", out, &tmp); err != nil {
		return nil, err
	}
	out.Sub(out, &tmp)
	return out, nil
}

func (k *PosteriorCross) String() string { return "PosteriorCross()" }

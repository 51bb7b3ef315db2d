package mean

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/kern"
	"github.com/lucasmaystre/gogp/utils"
)

var (
	_ Mean = (*PosteriorCross)(nil)
	_ Mean = (*Posterior)(nil)
)

// PosteriorCross is the correction that observations bring to the mean of
// a process f: K_of(z)ᵀ α with α = K_oo⁻¹ (y − mu_o). K_of(z) stacks
// ks[i](xs[i], z) over the observed batches.
type PosteriorCross struct {
	xs    []*mat.Dense
	ks    []kern.Kernel
	alpha *mat.VecDense
}

func NewPosteriorCross(xs []*mat.Dense, ks []kern.Kernel, alpha *mat.VecDense) (*PosteriorCross, error) {
	if len(ks) != len(xs) {
		return nil, gogp.NewShapeError("mean.PosteriorCross", "%d observed batches, %d cross-kernels", len(xs), len(ks))
	}
	n := 0
	for _, x := range xs {
		n += rows(x)
	}
	if n != alpha.Len() {
		return nil, gogp.NewShapeError("mean.PosteriorCross", "%d observations, %d weights", n, alpha.Len())
	}
	return &PosteriorCross{xs: xs, ks: ks, alpha: alpha}, nil
}

func (m *PosteriorCross) Eval(z *mat.Dense) (*mat.VecDense, error) {
	blocks := make([]mat.Matrix, len(m.xs))
	for i, x := range m.xs {
		b, err := m.ks[i].Eval(x, z)
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}
	kof := utils.VStack(blocks...)
	// out = K_of(z)ᵀ α
	out := mat.NewVecDense(rows(z), nil)
	out.MulVec(kof.T(), m.alpha)
	return out, nil
}

func (m *PosteriorCross) String() string { return "PosteriorCrossMean()" }

// Posterior is the mean of a process after conditioning: the prior mean
// plus the observation correction.
type Posterior struct {
	prior Mean
	cross *PosteriorCross
}

func NewPosterior(prior Mean, cross *PosteriorCross) *Posterior {
	return &Posterior{prior: orZero(prior), cross: cross}
}

func (m *Posterior) Eval(z *mat.Dense) (*mat.VecDense, error) {
	out, err := m.prior.Eval(z)
	if err != nil {
		return nil, err
	}
	out = fresh(out)
	corr, err := m.cross.Eval(z)
	if err != nil {
		return nil, err
	}
	if err := sameLen("mean.Posterior", out, corr); err != nil {
		return nil, err
	}
	addTo(out, corr)
	return out, nil
}

func (m *Posterior) String() string { return "PosteriorMean()" }

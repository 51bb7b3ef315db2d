package graph

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/linalg"
	"github.com/lucasmaystre/gogp/utils"
)

// Sample draws n joint samples of the evaluated processes. The result holds
// one matrix per process, in call order, with one row per input and one
// column per draw. Draws are a deterministic function of src.
func Sample(src *rand.Rand, n int, es ...*Evaluated) ([]*mat.Dense, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", gogp.ErrInvalidOperation)
	}
	if len(es) == 0 || n < 1 {
		return nil, gogp.NewShapeError("graph.Sample", "%d draws of %d processes", n, len(es))
	}
	sizes := make([]int, len(es))
	for i, e := range es {
		if e == nil {
			return nil, fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
		}
		r, err := e.rows()
		if err != nil {
			return nil, err
		}
		sizes[i] = r
	}
	g := es[0].p.Graph()
	idx := make([]int, len(es))
	for i, e := range es {
		if err := g.include(e.p); err != nil {
			return nil, err
		}
		g = g.resolve()
		idx[i] = g.index[e.p.id]
	}

	blocks := make([][]mat.Matrix, len(es))
	means := make([]*mat.VecDense, len(es))
	total := 0
	for i, e := range es {
		blocks[i] = make([]mat.Matrix, len(es))
		for j, f := range es {
			k, err := g.block(idx[i], idx[j], e.x, f.x)
			if err != nil {
				return nil, err
			}
			blocks[i][j] = k
		}
		mu, err := g.nodes[idx[i]].mean.Eval(e.x)
		if err != nil {
			return nil, err
		}
		means[i] = mu
		total += sizes[i]
	}
	factor, err := linalg.Factorize(utils.Block(blocks), g.cfg.SampleJitter, g.cfg)
	if err != nil {
		return nil, fmt.Errorf("graph: sample: %w", err)
	}
	if factor.Jitter() > g.cfg.SampleJitter {
		g.logger.Warn("added jitter to sampling covariance", "size", total, "jitter", factor.Jitter())
	}

	// mean + L·z
	z := mat.NewDense(total, n, nil)
	for i := 0; i < total; i++ {
		for j := 0; j < n; j++ {
			z.Set(i, j, src.NormFloat64())
		}
	}
	draws, err := factor.MulL(z)
	if err != nil {
		return nil, err
	}
	mu := utils.ConcatVecs(total, means...)
	draws.Apply(func(i, _ int, v float64) float64 { return v + mu.AtVec(i) }, draws)

	out := make([]*mat.Dense, len(es))
	offset := 0
	for i, r := range sizes {
		out[i] = mat.DenseCopyOf(draws.Slice(offset, offset+r, 0, n))
		offset += r
	}
	return out, nil
}

// Moments returns the empirical mean and covariance of draws, one variable
// per row and one draw per column.
func Moments(draws *mat.Dense) (*mat.VecDense, *mat.SymDense) {
	r, c := draws.Dims()
	mu := mat.NewVecDense(r, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, draws)
		mu.SetVec(i, stat.Mean(row, nil))
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, draws.T(), nil)
	return mu, &cov
}

package graph

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/linalg"
	"github.com/lucasmaystre/gogp/utils"
)

// Evaluated is a process paired with a batch of inputs, one input per
// row. Nothing is computed until one of its methods is called.
type Evaluated struct {
	p *GP
	x *mat.Dense
}

func (e *Evaluated) Process() *GP {
	return e.p
}

func (e *Evaluated) Inputs() *mat.Dense {
	return e.x
}

func (e *Evaluated) rows() (int, error) {
	if e.x == nil || e.x.IsEmpty() {
		return 0, gogp.NewShapeError("graph.Evaluated", "no inputs")
	}
	r, _ := e.x.Dims()
	return r, nil
}

func (e *Evaluated) String() string {
	r, c := 0, 0
	if e.x != nil && !e.x.IsEmpty() {
		r, c = e.x.Dims()
	}
	return fmt.Sprintf("%s(%d×%d)", e.p, r, c)
}

// Mean evaluates the mean of the process at the inputs.
func (e *Evaluated) Mean() (*mat.VecDense, error) {
	if _, err := e.rows(); err != nil {
		return nil, err
	}
	return e.p.Mean().Eval(e.x)
}

// Cov evaluates the covariance matrix of the process at the inputs.
func (e *Evaluated) Cov() (*mat.Dense, error) {
	if _, err := e.rows(); err != nil {
		return nil, err
	}
	return e.p.Kernel().Eval(e.x, e.x)
}

// CrossCov evaluates the covariance between e and other.
func (e *Evaluated) CrossCov(other *Evaluated) (*mat.Dense, error) {
	if _, err := e.rows(); err != nil {
		return nil, err
	}
	if _, err := other.rows(); err != nil {
		return nil, err
	}
	g := e.p.Graph()
	if err := g.include(other.p); err != nil {
		return nil, err
	}
	i, err := g.lookup(e.p)
	if err != nil {
		return nil, err
	}
	j, err := g.lookup(other.p)
	if err != nil {
		return nil, err
	}
	return g.block(i, j, e.x, other.x)
}

// Var evaluates the marginal variances. Slightly negative variances due to
// rounding are clipped to zero.
func (e *Evaluated) Var() (*mat.VecDense, error) {
	cov, err := e.Cov()
	if err != nil {
		return nil, err
	}
	v := utils.Diag(cov)
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, math.Max(v.AtVec(i), 0))
	}
	return v, nil
}

// Marginals returns the marginal means with the bounds mean ± c·σ, where c
// is the multiplier of the graph configuration.
func (e *Evaluated) Marginals() (*Marginals, error) {
	return e.MarginalsAt(e.p.Graph().Config().Multiplier)
}

// MarginalsAt returns the marginal means with the bounds mean ± c·σ.
func (e *Evaluated) MarginalsAt(c float64) (*Marginals, error) {
	mu, err := e.Mean()
	if err != nil {
		return nil, err
	}
	v, err := e.Var()
	if err != nil {
		return nil, err
	}
	if mu.Len() != v.Len() {
		return nil, gogp.NewShapeError("graph.Marginals", "%d means and %d variances", mu.Len(), v.Len())
	}
	out := &Marginals{
		Mean:  make([]float64, mu.Len()),
		Lower: make([]float64, mu.Len()),
		Upper: make([]float64, mu.Len()),
	}
	for i := range out.Mean {
		m, sd := mu.AtVec(i), math.Sqrt(v.AtVec(i))
		out.Mean[i] = m
		out.Lower[i] = m - c*sd
		out.Upper[i] = m + c*sd
	}
	return out, nil
}

// Sample draws n joint samples, one per column.
func (e *Evaluated) Sample(src *rand.Rand, n int) (*mat.Dense, error) {
	draws, err := Sample(src, n, e)
	if err != nil {
		return nil, err
	}
	return draws[0], nil
}

// LogPDF evaluates the log-density of the values y under the joint
// distribution of the process at the inputs.
func (e *Evaluated) LogPDF(y mat.Vector) (float64, error) {
	n, err := e.rows()
	if err != nil {
		return 0, err
	}
	if y.Len() != n {
		return 0, gogp.NewShapeError("graph.LogPDF", "%d values at %d inputs", y.Len(), n)
	}
	mu, err := e.Mean()
	if err != nil {
		return 0, err
	}
	cov, err := e.Cov()
	if err != nil {
		return 0, err
	}
	factor, err := linalg.Factorize(cov, 0, e.p.Graph().Config())
	if err != nil {
		return 0, fmt.Errorf("graph: log-density: %w", err)
	}
	// -½ rᵀK⁻¹r − ½ log|K| − (n/2) log 2π
	r := mat.NewVecDense(n, nil)
	r.SubVec(y, mu)
	a, err := factor.SolveVec(r)
	if err != nil {
		return 0, err
	}
	return -0.5*mat.Dot(r, a) - 0.5*factor.LogDet() - 0.5*float64(n)*math.Log(2*math.Pi), nil
}

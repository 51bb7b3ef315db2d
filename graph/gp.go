package graph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/kern"
	"github.com/lucasmaystre/gogp/mean"
	"github.com/lucasmaystre/gogp/utils"
)

// GP is a handle to a process of a graph. It does not own anything: the
// graph holds the kernels and means.
type GP struct {
	graph *Graph
	id    NodeID
}

// Linear records how a process was built as a linear combination of other
// processes: Σ Weights[j]·Operands[j].
type Linear struct {
	Weights  []float64
	Operands []*GP
	// Set when the process is a row of a matrix product.
	Composite *Composite
	Row       int
}

func (p *GP) ID() NodeID {
	return p.id
}

func (p *GP) Graph() *Graph {
	return p.graph.resolve()
}

func (p *GP) String() string {
	return "GP(" + p.id.String() + ")"
}

// The graph of p and the index of p in it.
func (p *GP) locate() (*Graph, int) {
	g := p.graph.resolve()
	return g, g.index[p.id]
}

func (p *GP) Kernel() kern.Kernel {
	g, i := p.locate()
	return g.cross(i, i)
}

func (p *GP) Mean() mean.Mean {
	g, i := p.locate()
	return g.nodes[i].mean
}

// Cross returns the cross-kernel between p and q.
func (p *GP) Cross(q *GP) (kern.Kernel, error) {
	return p.Graph().Cross(p, q)
}

// Linear returns the linear map p was built from, or nil for processes
// that are not linear combinations.
func (p *GP) Linear() *Linear {
	g, i := p.locate()
	return g.nodes[i].linear
}

// At evaluates p at the rows of x. Nothing is computed until the result is
// queried.
func (p *GP) At(x *mat.Dense) *Evaluated {
	return &Evaluated{p: p, x: x}
}

// Register Σ w[j]·operands[j] + offset.
func (g *Graph) linear(w []float64, ops []int, handles []*GP, offset mean.Mean, lin *Linear) *GP {
	var m mean.Mean = mean.NewZero()
	var self kern.Kernel = kern.NewZero()
	for j, a := range ops {
		m = mean.Add(m, mean.Scale(w[j], g.nodes[a].mean))
		for l, b := range ops {
			self = kern.Add(self, kern.Scale(w[j]*w[l], g.cross(a, b)))
		}
	}
	m = mean.Add(m, offset)
	if lin == nil {
		lin = &Linear{}
	}
	lin.Weights = w
	lin.Operands = handles
	return g.add(self, m, func(r int) kern.Kernel {
		var k kern.Kernel = kern.NewZero()
		for j, a := range ops {
			k = kern.Add(k, kern.Scale(w[j], g.cross(a, r)))
		}
		return k
	}, lin)
}

func (p *GP) combine(q *GP, wp, wq float64) (*GP, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
	}
	g, err := unify(p, q)
	if err != nil {
		return nil, err
	}
	i, j := g.index[p.id], g.index[q.id]
	return g.linear([]float64{wp, wq}, []int{i, j}, []*GP{p, q}, nil, nil), nil
}

// Add returns p + q. Processes from different graphs are merged first.
func (p *GP) Add(q *GP) (*GP, error) {
	return p.combine(q, 1, 1)
}

// Sub returns p − q.
func (p *GP) Sub(q *GP) (*GP, error) {
	return p.combine(q, 1, -1)
}

// Scale returns c·p.
func (p *GP) Scale(c float64) *GP {
	g, i := p.locate()
	return g.linear([]float64{c}, []int{i}, []*GP{p}, nil, nil)
}

// AddMean returns p + m for a deterministic function m.
func (p *GP) AddMean(m mean.Mean) *GP {
	g, i := p.locate()
	return g.linear([]float64{1}, []int{i}, []*GP{p}, m, nil)
}

// Mul returns the pointwise product of two independent processes. The
// product is not Gaussian; the graph tracks its first two moments.
func (p *GP) Mul(q *GP) (*GP, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
	}
	g, err := unify(p, q)
	if err != nil {
		return nil, err
	}
	i, j := g.index[p.id], g.index[q.id]
	if i == j || !kern.IsZero(g.cross(i, j)) {
		return nil, fmt.Errorf("%w: product of correlated processes %s and %s", gogp.ErrInvalidOperation, p, q)
	}
	mi, mj := g.nodes[i].mean, g.nodes[j].mean
	ki, kj := g.cross(i, i), g.cross(j, j)
	// k = ki·kj + mi kj mi + mj ki mj
	self := kern.AddAll(kern.Mul(ki, kj), weighted(kj, mi, mi), weighted(ki, mj, mj))
	return g.add(self, mean.Mul(mi, mj), func(r int) kern.Kernel {
		// cross(pq, r) = mj·cross(p, r) + mi·cross(q, r)
		return kern.Add(weighted(g.cross(i, r), mj, nil), weighted(g.cross(j, r), mi, nil))
	}, nil), nil
}

// a(x)·k(x, y)·b(y); a nil weight is one, a zero mean kills the term.
func weighted(k kern.Kernel, a, b mean.Mean) kern.Kernel {
	if (a != nil && mean.IsZero(a)) || (b != nil && mean.IsZero(b)) {
		return kern.NewZero()
	}
	var wa, wb kern.Weight
	if a != nil {
		wa = a
	}
	if b != nil {
		wb = b
	}
	return kern.NewWeighted(k, wa, wb)
}

// MulMean returns the pointwise product of p with a deterministic function
// m.
func (p *GP) MulMean(m mean.Mean) *GP {
	g, i := p.locate()
	return g.add(weighted(g.cross(i, i), m, m), mean.Mul(g.nodes[i].mean, m), func(r int) kern.Kernel {
		return weighted(g.cross(i, r), m, nil)
	}, nil)
}

// Reparameterize the inputs of p: the new process is p(f(x)). self maps
// the kernel of p to the kernel of the new process.
func (p *GP) reparameterize(f kern.InputMap, self func(kern.Kernel) kern.Kernel) *GP {
	g, i := p.locate()
	return g.add(self(g.cross(i, i)), mean.Transform(g.nodes[i].mean, f), func(r int) kern.Kernel {
		return kern.Transform(g.cross(i, r), f, nil)
	}, nil)
}

// Shift returns the process x ↦ p(x − s).
func (p *GP) Shift(s ...float64) *GP {
	return p.reparameterize(func(x *mat.Dense) *mat.Dense { return utils.ShiftInputs(x, s...) },
		func(k kern.Kernel) kern.Kernel { return kern.Shift(k, s...) })
}

// Stretch returns the process x ↦ p(x / s).
func (p *GP) Stretch(s ...float64) *GP {
	return p.reparameterize(func(x *mat.Dense) *mat.Dense { return utils.StretchInputs(x, s...) },
		func(k kern.Kernel) kern.Kernel { return kern.Stretch(k, s...) })
}

// Select returns the process x ↦ p(x[:, idx]).
func (p *GP) Select(idx ...int) *GP {
	return p.reparameterize(func(x *mat.Dense) *mat.Dense { return utils.SelectInputs(x, idx...) },
		func(k kern.Kernel) kern.Kernel { return kern.Select(k, idx...) })
}

// Transform returns the process x ↦ p(f(x)).
func (p *GP) Transform(f kern.InputMap) *GP {
	return p.reparameterize(f, func(k kern.Kernel) kern.Kernel { return kern.Transform(k, f, f) })
}

// Obs packages observations y of p at x.
func (p *GP) Obs(x *mat.Dense, y mat.Vector) (*Obs, error) {
	return NewObs(p.At(x), y)
}

// Cond returns p conditioned on o. Observations of processes of a graph p
// was conditioned from apply to their posterior counterparts. Observations
// of an unrelated graph merge that graph into the graph of p first.
func (p *GP) Cond(o *Obs) (*GP, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil observations", gogp.ErrInvalidOperation)
	}
	g := p.Graph()
	for _, pr := range o.pairs {
		if g.descends(pr.e.p.graph.resolve()) {
			continue
		}
		if err := g.include(pr.e.p); err != nil {
			return nil, err
		}
	}
	post, err := g.Condition(o)
	if err != nil {
		return nil, err
	}
	return &GP{graph: post, id: p.id}, nil
}

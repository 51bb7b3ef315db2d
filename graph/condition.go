package graph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/kern"
	"github.com/lucasmaystre/gogp/linalg"
	"github.com/lucasmaystre/gogp/mean"
	"github.com/lucasmaystre/gogp/utils"
)

// What a posterior graph needs to take over processes declared in the
// conditioned graph after it was built.
type posterior struct {
	graph  *Graph
	idx    []int // Observed nodes of the conditioned graph.
	xs     []*mat.Dense
	alpha  *mat.VecDense
	factor *linalg.Cholesky
	// Per node of the conditioned graph, in order: its position in the
	// posterior graph and its cross-kernels with the observations.
	pos        []int
	kofs       [][]kern.Kernel
	composites map[*Composite]*Composite
}

// Condition returns the posterior graph of g given o. The posterior graph
// holds every process of g under the same identity; observations built
// from handles into g apply to it too. There is one posterior graph per
// observation: processes declared in g later are added to it.
func (g *Graph) Condition(o *Obs) (*Graph, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil observations", gogp.ErrInvalidOperation)
	}
	g = g.resolve()
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.posteriors[o]; ok && c.graph.merged == nil {
		if err := g.extend(c); err != nil {
			return nil, err
		}
		return c.graph, nil
	}

	idx := make([]int, len(o.pairs))
	xs := make([]*mat.Dense, len(o.pairs))
	for i, pr := range o.pairs {
		j, err := g.lift(pr.e.p)
		if err != nil {
			return nil, err
		}
		idx[i], xs[i] = j, pr.e.x
	}

	// K_oo and y − mu_o
	blocks := make([][]mat.Matrix, len(idx))
	resid := make([]*mat.VecDense, len(idx))
	for i := range idx {
		blocks[i] = make([]mat.Matrix, len(idx))
		for j := range idx {
			k, err := g.block(idx[i], idx[j], xs[i], xs[j])
			if err != nil {
				return nil, err
			}
			blocks[i][j] = k
		}
		mu, err := g.nodes[idx[i]].mean.Eval(xs[i])
		if err != nil {
			return nil, err
		}
		mu.SubVec(o.pairs[i].y, mu)
		resid[i] = mu
	}
	n := o.Len()
	factor, err := linalg.Factorize(utils.Block(blocks), 0, g.cfg)
	if err != nil {
		return nil, fmt.Errorf("graph: condition on %d observations: %w", n, err)
	}
	if factor.Jitter() > 0 {
		g.logger.Warn("added jitter to observation covariance", "observations", n, "jitter", factor.Jitter())
	}
	alpha, err := factor.SolveVec(utils.ConcatVecs(n, resid...))
	if err != nil {
		return nil, err
	}

	post := newGraph(g.cfg, g.logger)
	post.parent, post.obs, post.factor = g, o, factor
	c := &posterior{
		graph:      post,
		idx:        idx,
		xs:         xs,
		alpha:      alpha,
		factor:     factor,
		composites: make(map[*Composite]*Composite),
	}
	if err := g.extend(c); err != nil {
		return nil, err
	}
	g.logger.Debug("conditioned graph", "graph", g.id, "posterior", post.id, "observations", n, "processes", len(g.nodes))

	if g.posteriors == nil {
		g.posteriors = make(map[*Obs]*posterior)
	}
	g.posteriors[o] = c
	return post, nil
}

// Bring the posterior graph of c up to date with the nodes of g.
func (g *Graph) extend(c *posterior) error {
	post := c.graph
	start := len(c.pos)
	for f := start; f < len(g.nodes); f++ {
		nd := g.nodes[f]
		kof := make([]kern.Kernel, len(c.idx))
		for i, j := range c.idx {
			kof[i] = g.cross(j, f)
		}
		m := nd.mean
		if !allZero(kof) {
			corr, err := mean.NewPosteriorCross(c.xs, kof, c.alpha)
			if err != nil {
				return err
			}
			m = mean.NewPosterior(nd.mean, corr)
		}
		n := post.adopt(nd.id, m, nil)
		c.pos = append(c.pos, n)
		c.kofs = append(c.kofs, kof)

		for h := 0; h <= f; h++ {
			k, err := c.cross(g.cross(f, h), f, h)
			if err != nil {
				return err
			}
			if !kern.IsZero(k) {
				post.kernels[[2]int{n, c.pos[h]}] = k
			}
		}
		// Processes built in the posterior graph itself.
		for d := 0; d < n; d++ {
			if with := post.nodes[d].crossWith; with != nil {
				if k := with(n); !kern.IsZero(k) {
					post.kernels[[2]int{d, n}] = k
				}
			}
		}
	}
	for f := start; f < len(g.nodes); f++ {
		c.rebind(g.nodes[f].linear, post.nodes[c.pos[f]])
	}
	return nil
}

// Posterior cross-kernel between nodes f and h of the conditioned graph.
func (c *posterior) cross(prior kern.Kernel, f, h int) (kern.Kernel, error) {
	if allZero(c.kofs[f]) || allZero(c.kofs[h]) {
		return prior, nil
	}
	kgs := c.kofs[h]
	if f == h {
		kgs = nil
	}
	return kern.NewPosteriorCross(prior, c.xs, c.kofs[f], kgs, c.factor)
}

// Carry the linear map of a prior node over to its posterior node, with
// operands pointing into the posterior graph.
func (c *posterior) rebind(lin *Linear, nd *node) {
	if lin == nil {
		return
	}
	handles := func(ps []*GP) []*GP {
		out := make([]*GP, len(ps))
		for i, p := range ps {
			out[i] = &GP{graph: c.graph, id: p.id}
		}
		return out
	}
	rebound := &Linear{
		Weights:  lin.Weights,
		Operands: handles(lin.Operands),
		Row:      lin.Row,
	}
	if lin.Composite != nil {
		comp, ok := c.composites[lin.Composite]
		if !ok {
			comp = &Composite{
				A:        lin.Composite.A,
				Operands: handles(lin.Composite.Operands),
				Outputs:  handles(lin.Composite.Outputs),
			}
			c.composites[lin.Composite] = comp
		}
		rebound.Composite = comp
	}
	nd.linear = rebound
}

// Bring a posterior graph up to date with the graph it was conditioned
// from.
func (g *Graph) refresh() error {
	if g.parent == nil {
		return nil
	}
	_, err := g.parent.Condition(g.obs)
	return err
}

// Observations returns the observations a posterior graph was conditioned
// on, or nil for a prior graph.
func (g *Graph) Observations() *Obs {
	return g.resolve().obs
}

func allZero(ks []kern.Kernel) bool {
	for _, k := range ks {
		if !kern.IsZero(k) {
			return false
		}
	}
	return true
}

package graph

import (
	"fmt"

	"github.com/lucasmaystre/gogp"
)

// Merge moves the processes of b into a and returns a. Processes of the two
// graphs are independent of each other; all existing cross-kernels are
// kept. Handles into b keep working. Graphs sharing a process identity,
// such as a prior and one of its posteriors, cannot be merged.
func Merge(a, b *Graph) (*Graph, error) {
	a, b = a.resolve(), b.resolve()
	if err := a.absorb(b); err != nil {
		return nil, err
	}
	return a, nil
}

func (g *Graph) absorb(other *Graph) error {
	if g == other {
		return nil
	}
	for id := range other.index {
		if _, ok := g.index[id]; ok {
			return fmt.Errorf("%w: process %s is in both graphs", gogp.ErrGraphMismatch, id)
		}
	}
	offset := len(g.nodes)
	for _, nd := range other.nodes {
		g.adopt(nd.id, nd.mean, nd.linear)
	}
	for key, k := range other.kernels {
		g.kernels[[2]int{key[0] + offset, key[1] + offset}] = k
	}
	g.logger.Debug("merged graphs", "into", g.id, "from", other.id, "processes", len(other.nodes))

	other.merged = g
	other.nodes = nil
	other.index = nil
	other.kernels = nil
	other.mu.Lock()
	other.posteriors = nil
	other.mu.Unlock()
	return nil
}

// Graph holding both p and q, merging their graphs if needed.
func unify(p, q *GP) (*Graph, error) {
	gp, gq := p.graph.resolve(), q.graph.resolve()
	if err := gp.absorb(gq); err != nil {
		return nil, err
	}
	return gp, nil
}

// Make sure p is a handle into g, merging its graph in if needed. Handles
// into a graph sharing processes with g, such as a prior and its
// posterior, are rejected.
func (g *Graph) include(p *GP) error {
	if p == nil {
		return fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
	}
	return g.absorb(p.graph.resolve())
}

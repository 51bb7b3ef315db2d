package graph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

// Pair is an evaluated process together with its observed values.
type Pair struct {
	E *Evaluated
	Y mat.Vector
}

// Obs is an immutable bundle of observations of one or more processes of
// a graph. Observation noise belongs in the kernels of the observed
// processes.
type Obs struct {
	pairs []pair
}

type pair struct {
	e *Evaluated
	y *mat.VecDense
}

// NewObs observes e at the values y.
func NewObs(e *Evaluated, y mat.Vector) (*Obs, error) {
	return NewObsPairs(Pair{E: e, Y: y})
}

// NewObsPairs packages several observations jointly. Processes from
// different graphs are merged into one graph.
func NewObsPairs(pairs ...Pair) (*Obs, error) {
	if len(pairs) == 0 {
		return nil, gogp.NewShapeError("graph.Obs", "no observations")
	}
	o := &Obs{pairs: make([]pair, len(pairs))}
	var g *Graph
	for i, pr := range pairs {
		if pr.E == nil || pr.Y == nil {
			return nil, fmt.Errorf("%w: observation %d is nil", gogp.ErrInvalidOperation, i)
		}
		n, err := pr.E.rows()
		if err != nil {
			return nil, err
		}
		if pr.Y.Len() != n {
			return nil, gogp.NewShapeError("graph.Obs", "%d values observed at %d inputs", pr.Y.Len(), n)
		}
		if g == nil {
			g = pr.E.p.Graph()
		} else if err := g.include(pr.E.p); err != nil {
			return nil, err
		}
		o.pairs[i] = pair{e: pr.E, y: mat.VecDenseCopyOf(pr.Y)}
	}
	return o, nil
}

// Len is the total number of observed values.
func (o *Obs) Len() int {
	n := 0
	for _, pr := range o.pairs {
		n += pr.y.Len()
	}
	return n
}

// Pairs returns the observations in the order they were given.
func (o *Obs) Pairs() []Pair {
	out := make([]Pair, len(o.pairs))
	for i, pr := range o.pairs {
		out[i] = Pair{E: pr.e, Y: mat.VecDenseCopyOf(pr.y)}
	}
	return out
}

// Join returns the union of o and other.
func (o *Obs) Join(other *Obs) (*Obs, error) {
	return NewObsPairs(append(o.Pairs(), other.Pairs()...)...)
}

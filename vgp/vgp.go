// Package vgp models vector-valued Gaussian processes as tuples of jointly
// Gaussian processes of one graph.
package vgp

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/graph"
	"github.com/lucasmaystre/gogp/kern"
)

// VGP is a vector of processes.
type VGP struct {
	ps []*graph.GP
}

// New declares dim independent processes with kernel k in g.
func New(g *graph.Graph, dim int, k kern.Kernel) (*VGP, error) {
	if dim < 1 {
		return nil, gogp.NewShapeError("vgp.New", "dimension %d", dim)
	}
	ps := make([]*graph.GP, dim)
	for i := range ps {
		ps[i] = g.Declare(k, nil)
	}
	return &VGP{ps: ps}, nil
}

// FromProcesses groups existing processes.
func FromProcesses(ps ...*graph.GP) (*VGP, error) {
	if len(ps) == 0 {
		return nil, gogp.NewShapeError("vgp.FromProcesses", "no processes")
	}
	for i, p := range ps {
		if p == nil {
			return nil, fmt.Errorf("%w: process %d is nil", gogp.ErrInvalidOperation, i)
		}
	}
	return &VGP{ps: append([]*graph.GP(nil), ps...)}, nil
}

func (v *VGP) Len() int {
	return len(v.ps)
}

func (v *VGP) At(i int) *graph.GP {
	return v.ps[i]
}

func (v *VGP) Processes() []*graph.GP {
	return append([]*graph.GP(nil), v.ps...)
}

// Add returns the elementwise sum v + other.
func (v *VGP) Add(other *VGP) (*VGP, error) {
	if len(v.ps) != len(other.ps) {
		return nil, gogp.NewShapeError("vgp.Add", "dimensions %d and %d", len(v.ps), len(other.ps))
	}
	ps := make([]*graph.GP, len(v.ps))
	for i, p := range v.ps {
		s, err := p.Add(other.ps[i])
		if err != nil {
			return nil, err
		}
		ps[i] = s
	}
	return &VGP{ps: ps}, nil
}

// LMatMul returns a·v.
func (v *VGP) LMatMul(a mat.Matrix) (*VGP, error) {
	comp, err := v.ps[0].Graph().LMatMul(a, v.ps)
	if err != nil {
		return nil, err
	}
	return &VGP{ps: comp.Outputs}, nil
}

// Cond conditions every process on o.
func (v *VGP) Cond(o *graph.Obs) (*VGP, error) {
	ps := make([]*graph.GP, len(v.ps))
	for i, p := range v.ps {
		post, err := p.Cond(o)
		if err != nil {
			return nil, err
		}
		ps[i] = post
	}
	return &VGP{ps: ps}, nil
}

func (v *VGP) evaluate(x *mat.Dense) []*graph.Evaluated {
	es := make([]*graph.Evaluated, len(v.ps))
	for i, p := range v.ps {
		es[i] = p.At(x)
	}
	return es
}

// Obs observes process i at x with the values ys[i].
func (v *VGP) Obs(x *mat.Dense, ys []mat.Vector) (*graph.Obs, error) {
	if len(ys) != len(v.ps) {
		return nil, gogp.NewShapeError("vgp.Obs", "%d outputs observed for dimension %d", len(ys), len(v.ps))
	}
	pairs := make([]graph.Pair, len(ys))
	for i, e := range v.evaluate(x) {
		pairs[i] = graph.Pair{E: e, Y: ys[i]}
	}
	return graph.NewObsPairs(pairs...)
}

// Sample draws all outputs jointly at x, one vector per output.
func (v *VGP) Sample(src *rand.Rand, x *mat.Dense) ([]*mat.VecDense, error) {
	draws, err := graph.Sample(src, 1, v.evaluate(x)...)
	if err != nil {
		return nil, err
	}
	out := make([]*mat.VecDense, len(draws))
	for i, d := range draws {
		out[i] = mat.VecDenseCopyOf(d.ColView(0))
	}
	return out, nil
}

// Marginals returns the marginals of every output at x.
func (v *VGP) Marginals(x *mat.Dense) ([]*graph.Marginals, error) {
	out := make([]*graph.Marginals, len(v.ps))
	for i, e := range v.evaluate(x) {
		m, err := e.Marginals()
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

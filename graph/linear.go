package graph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
)

// Composite is the vector of processes A·p for a matrix A and a vector of
// operand processes p. Every output process remembers its row of A.
type Composite struct {
	A        *mat.Dense
	Operands []*GP
	Outputs  []*GP
}

// LMatMul declares one process per row i of a: Σ_j a[i, j]·ps[j].
func (g *Graph) LMatMul(a mat.Matrix, ps []*GP) (*Composite, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 || c != len(ps) {
		return nil, gogp.NewShapeError("graph.LMatMul", "%d×%d matrix against %d processes", r, c, len(ps))
	}
	g = g.resolve()
	for _, p := range ps {
		if p == nil {
			return nil, fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
		}
		if err := g.absorb(p.graph.resolve()); err != nil {
			return nil, err
		}
	}
	ops := make([]int, c)
	for j, p := range ps {
		ops[j] = g.index[p.id]
	}
	comp := &Composite{
		A:        mat.DenseCopyOf(a),
		Operands: ps,
		Outputs:  make([]*GP, r),
	}
	for i := 0; i < r; i++ {
		w := make([]float64, c)
		mat.Row(w, i, comp.A)
		comp.Outputs[i] = g.linear(w, ops, ps, nil, &Linear{Composite: comp, Row: i})
	}
	return comp, nil
}

// Len is the number of output processes.
func (c *Composite) Len() int {
	return len(c.Outputs)
}

// At returns the i-th output process.
func (c *Composite) At(i int) *GP {
	return c.Outputs[i]
}

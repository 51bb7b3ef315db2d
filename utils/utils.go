package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Concatenate multiple vectors.
func ConcatVecs(size int, vecs ...*mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(size, nil)
	offset := 0
	var slice *mat.VecDense
	for _, vec := range vecs {
		slice = out.SliceVec(offset, offset+vec.Len()).(*mat.VecDense)
		slice.CopyVec(vec)
		offset += vec.Len()
	}
	return out
}

// Assemble a dense matrix from a grid of blocks. Blocks on a row must have
// the same number of rows, blocks in a column the same number of columns.
func Block(blocks [][]mat.Matrix) *mat.Dense {
	if len(blocks) == 0 || len(blocks[0]) == 0 {
		return &mat.Dense{}
	}
	rows, cols := 0, 0
	for _, row := range blocks {
		r, _ := row[0].Dims()
		rows += r
	}
	for _, b := range blocks[0] {
		_, c := b.Dims()
		cols += c
	}
	out := mat.NewDense(rows, cols, nil)
	i := 0
	for _, row := range blocks {
		r, _ := row[0].Dims()
		j := 0
		for _, b := range row {
			_, c := b.Dims()
			out.Slice(i, i+r, j, j+c).(*mat.Dense).Copy(b)
			j += c
		}
		i += r
	}
	return out
}

// Stack matrices with the same number of columns on top of each other.
func VStack(mats ...mat.Matrix) *mat.Dense {
	blocks := make([][]mat.Matrix, len(mats))
	for i, m := range mats {
		blocks[i] = []mat.Matrix{m}
	}
	return Block(blocks)
}

// Column batch of one-dimensional inputs, one row per value.
func Col(xs ...float64) *mat.Dense {
	data := make([]float64, len(xs))
	copy(data, xs)
	return mat.NewDense(len(xs), 1, data)
}

// Linspace returns n evenly spaced one-dimensional inputs in [lo, hi].
func Linspace(lo, hi float64, n int) *mat.Dense {
	xs := make([]float64, n)
	for i := range xs {
		if n == 1 {
			xs[i] = lo
			break
		}
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return Col(xs...)
}

// Diag returns the diagonal of a square matrix.
func Diag(m mat.Matrix) *mat.VecDense {
	n, _ := m.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, m.At(i, i))
	}
	return out
}

// Broadcast a per-feature parameter to the width of a batch. A single
// value applies to every feature.
func broadcast(params []float64, j int) float64 {
	if len(params) == 1 {
		return params[0]
	}
	return params[j]
}

// ShiftInputs returns x − s, with s given per feature or as one scalar.
func ShiftInputs(x *mat.Dense, s ...float64) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 { return v - broadcast(s, j) }, x)
	return out
}

// StretchInputs returns x / s, with s given per feature or as one scalar.
func StretchInputs(x *mat.Dense, s ...float64) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 { return v / broadcast(s, j) }, x)
	return out
}

// SelectInputs returns the columns idx of x.
func SelectInputs(x *mat.Dense, idx ...int) *mat.Dense {
	r, _ := x.Dims()
	out := mat.NewDense(r, len(idx), nil)
	for i := 0; i < r; i++ {
		for j, k := range idx {
			out.Set(i, j, x.At(i, k))
		}
	}
	return out
}

// PeriodicInputs embeds every feature on a circle of circumference period:
// x ↦ (cos(2πx/T), sin(2πx/T))·T/2π. Inputs a whole period apart map to
// the same point.
func PeriodicInputs(x *mat.Dense, period float64) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, 2*c, nil)
	scale := period / (2 * math.Pi)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			phase := x.At(i, j) / scale
			out.Set(i, 2*j, scale*math.Cos(phase))
			out.Set(i, 2*j+1, scale*math.Sin(phase))
		}
	}
	return out
}

// Check that every value is finite.
func AllFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Package linalg factorizes covariance matrices and solves against the
// factors with BLAS and LAPACK routines.
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/config"
	"github.com/lucasmaystre/gogp/utils"
)

// Cholesky holds the lower-triangular factor L of K + jitter·I.
type Cholesky struct {
	l      blas64.Triangular
	jitter float64
}

// Factorize computes the Cholesky factor of the square matrix a plus base
// on the diagonal. If that fails, the jitter policy of cfg is applied: the
// diagonal addition starts at cfg.Jitter and grows by cfg.JitterGrowth up
// to cfg.MaxJitter. The jitter finally used is reported by Jitter.
func Factorize(a mat.Matrix, base float64, cfg config.Config) (*Cholesky, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("linalg: factorize: %w", err)
	}
	n, c := a.Dims()
	if n != c {
		return nil, gogp.NewShapeError("linalg.Factorize", "matrix is %d×%d", n, c)
	}
	if !utils.AllFinite(a) {
		return nil, &gogp.FactorizationError{Size: n, Jitter: base}
	}
	if t, ok := potrf(a, base); ok {
		return &Cholesky{l: t, jitter: base}, nil
	}
	tried := base
	// Tolerate rounding in the geometric schedule so MaxJitter itself is tried.
	limit := cfg.MaxJitter * (1 + 1e-9)
	for jitter := cfg.Jitter; jitter <= limit; jitter *= cfg.JitterGrowth {
		tried = base + math.Min(jitter, cfg.MaxJitter)
		if t, ok := potrf(a, tried); ok {
			return &Cholesky{l: t, jitter: tried}, nil
		}
	}
	return nil, &gogp.FactorizationError{Size: n, Jitter: tried}
}

// U = cholesky(sym(a) + jitter·I) (lower triangular)
func potrf(a mat.Matrix, jitter float64) (blas64.Triangular, bool) {
	n, _ := a.Dims()
	sym := blas64.Symmetric{
		N:      n,
		Stride: n,
		Data:   make([]float64, n*n),
		Uplo:   blas.Lower,
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := 0.5 * (a.At(i, j) + a.At(j, i))
			if i == j {
				v += jitter
			}
			sym.Data[i*n+j] = v
		}
	}
	return lapack64.Potrf(sym)
}

// Size is the order of the factorized matrix.
func (c *Cholesky) Size() int {
	return c.l.N
}

// Jitter is the diagonal addition that made the matrix factorizable.
func (c *Cholesky) Jitter() float64 {
	return c.jitter
}

// L returns a copy of the lower-triangular factor.
func (c *Cholesky) L() *mat.TriDense {
	n := c.l.N
	out := mat.NewTriDense(n, mat.Lower, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			out.SetTri(i, j, c.l.Data[i*c.l.Stride+j])
		}
	}
	return out
}

func (c *Cholesky) checkRows(op string, r int) error {
	if r != c.l.N {
		return gogp.NewShapeError(op, "%d rows against a factor of order %d", r, c.l.N)
	}
	return nil
}

// SolveL returns L⁻¹b.
func (c *Cholesky) SolveL(b *mat.Dense) (*mat.Dense, error) {
	r, _ := b.Dims()
	if err := c.checkRows("linalg.SolveL", r); err != nil {
		return nil, err
	}
	out := mat.DenseCopyOf(b)
	blas64.Trsm(blas.Left, blas.NoTrans, 1.0, c.l, out.RawMatrix())
	return out, nil
}

// SolveLT returns L⁻ᵀb.
func (c *Cholesky) SolveLT(b *mat.Dense) (*mat.Dense, error) {
	r, _ := b.Dims()
	if err := c.checkRows("linalg.SolveLT", r); err != nil {
		return nil, err
	}
	out := mat.DenseCopyOf(b)
	blas64.Trsm(blas.Left, blas.Trans, 1.0, c.l, out.RawMatrix())
	return out, nil
}

// SolveVec returns (LLᵀ)⁻¹b.
func (c *Cholesky) SolveVec(b mat.Vector) (*mat.VecDense, error) {
	if err := c.checkRows("linalg.SolveVec", b.Len()); err != nil {
		return nil, err
	}
	out := mat.VecDenseCopyOf(b)
	// out = L⁻ᵀ (L⁻¹ b)
	blas64.Trsv(blas.NoTrans, c.l, out.RawVector())
	blas64.Trsv(blas.Trans, c.l, out.RawVector())
	return out, nil
}

// MulL returns L·z.
func (c *Cholesky) MulL(z *mat.Dense) (*mat.Dense, error) {
	r, _ := z.Dims()
	if err := c.checkRows("linalg.MulL", r); err != nil {
		return nil, err
	}
	out := mat.DenseCopyOf(z)
	blas64.Trmm(blas.Left, blas.NoTrans, 1.0, c.l, out.RawMatrix())
	return out, nil
}

// LogDet returns log|LLᵀ|.
func (c *Cholesky) LogDet() float64 {
	logdet := 0.0
	for i := 0; i < c.l.N; i++ {
		logdet += math.Log(c.l.Data[i*c.l.Stride+i])
	}
	return 2 * logdet
}

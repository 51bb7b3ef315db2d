package graph

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/config"
	"github.com/lucasmaystre/gogp/kern"
	"github.com/lucasmaystre/gogp/mean"
	"github.com/lucasmaystre/gogp/utils"
)

func mustGraph(t *testing.T, opts ...Option) *Graph {
	g, err := New(opts...)
	require.NoError(t, err)
	return g
}

func vec(xs ...float64) *mat.VecDense {
	return mat.NewVecDense(len(xs), xs)
}

func evalKernel(t *testing.T, k kern.Kernel, x, y *mat.Dense) *mat.Dense {
	out, err := k.Eval(x, y)
	require.NoError(t, err)
	return out
}

func assertMatInDelta(t *testing.T, want, got mat.Matrix, delta float64) {
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr)
	require.Equal(t, wc, gc)
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), delta, "entry (%d, %d)", i, j)
		}
	}
}

func assertVecInDelta(t *testing.T, want, got mat.Vector, delta float64) {
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		assert.InDelta(t, want.AtVec(i), got.AtVec(i), delta, "entry %d", i)
	}
}

// Observed process y = f + e with e white noise of variance 0.01.
func noisyModel(g *Graph) (f, y *GP) {
	f = g.Declare(kern.EQ(), nil)
	e := g.Declare(kern.Scale(0.01, kern.Delta()), nil)
	y, _ = f.Add(e)
	return f, y
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.MaxJitter = 1e-6
	g := mustGraph(t, WithConfig(cfg))
	assert.Equal(t, cfg, g.Config())

	for _, bad := range []func(*config.Config){
		func(c *config.Config) { c.Jitter = 0 },
		func(c *config.Config) { c.JitterGrowth = 0.5 },
	} {
		cfg := config.Default()
		bad(&cfg)
		_, err := New(WithConfig(cfg))
		assert.ErrorIs(t, err, config.ErrInvalid)
	}

	_, err := New(WithLogger(nil))
	assert.True(t, gogp.IsInvalidOperation(err))
}

func TestDeclareAndLookup(t *testing.T) {
	g := mustGraph(t)
	f := g.Declare(kern.EQ(), nil)
	h := g.Declare(kern.NewMatern12(), mean.NewConstant(2))
	assert.Equal(t, 2, g.Size())

	k, err := g.Cross(f, h)
	require.NoError(t, err)
	assert.True(t, kern.IsZero(k))

	k, err = g.Kernel(f)
	require.NoError(t, err)
	x := utils.Col(0, 1, 2)
	K := evalKernel(t, k, x, x)
	assert.Equal(t, 1.0, K.At(0, 0))
	assert.InDelta(t, math.Exp(-0.5), K.At(0, 1), 1e-12)

	m, err := g.Mean(h)
	require.NoError(t, err)
	mu, err := m.Eval(x)
	require.NoError(t, err)
	assert.Equal(t, 2.0, mu.AtVec(2))

	t.Run("Unregistered", func(t *testing.T) {
		other := mustGraph(t).Declare(kern.EQ(), nil)
		_, err := g.Cross(f, other)
		assert.True(t, gogp.IsUnregisteredNode(err))
		_, err = g.Mean(other)
		assert.True(t, gogp.IsUnregisteredNode(err))
		_, err = g.Kernel(nil)
		assert.True(t, gogp.IsInvalidOperation(err))
	})

	t.Run("Default", func(t *testing.T) {
		p := Declare(kern.EQ(), nil)
		assert.Same(t, Default(), p.Graph())
	})
}

func TestSumPropagatesCrossKernels(t *testing.T) {
	g := mustGraph(t)
	f, y := noisyModel(g)
	x := utils.Col(0, 0.5, 3)
	eq := evalKernel(t, kern.EQ(), x, x)

	k, err := y.Cross(f)
	require.NoError(t, err)
	assertMatInDelta(t, eq, evalKernel(t, k, x, x), 1e-12)
	k, err = f.Cross(y)
	require.NoError(t, err)
	assertMatInDelta(t, eq, evalKernel(t, k, x, x), 1e-12)

	// A third process declared after the sum sees it through f.
	h, err := f.Add(g.Declare(kern.NewMatern32(), nil))
	require.NoError(t, err)
	k, err = h.Cross(y)
	require.NoError(t, err)
	assertMatInDelta(t, eq, evalKernel(t, k, x, x), 1e-12)

	// (f + e) − e has the kernel of f.
	e := y.Linear().Operands[1]
	d, err := y.Sub(e)
	require.NoError(t, err)
	assertMatInDelta(t, eq, evalKernel(t, d.Kernel(), x, x), 1e-12)

	s := f.Scale(3)
	k, err = s.Cross(f)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, evalKernel(t, k, x, x).At(1, 1), 1e-12)
	assert.InDelta(t, 9.0, evalKernel(t, s.Kernel(), x, x).At(1, 1), 1e-12)
}

func TestLMatMul(t *testing.T) {
	g := mustGraph(t)
	k0, k1 := kern.EQ(), kern.NewMatern12()
	u0 := g.Declare(k0, nil)
	u1 := g.Declare(k1, mean.NewConstant(1))
	a := mat.NewDense(4, 2, []float64{
		1, 0,
		0, 2,
		0.5, -1,
		3, 3,
	})
	comp, err := g.LMatMul(a, []*GP{u0, u1})
	require.NoError(t, err)
	require.Equal(t, 4, comp.Len())

	x := utils.Col(0, 0.7, 2)
	K0, K1 := evalKernel(t, k0, x, x), evalKernel(t, k1, x, x)
	for i := 0; i < 4; i++ {
		var want, tmp mat.Dense
		want.Scale(a.At(i, 0)*a.At(i, 0), K0)
		tmp.Scale(a.At(i, 1)*a.At(i, 1), K1)
		want.Add(&want, &tmp)
		assertMatInDelta(t, &want, evalKernel(t, comp.At(i).Kernel(), x, x), 1e-12)

		mu, err := comp.At(i).At(x).Mean()
		require.NoError(t, err)
		assert.InDelta(t, a.At(i, 1), mu.AtVec(0), 1e-12)

		lin := comp.At(i).Linear()
		require.NotNil(t, lin)
		assert.Same(t, comp, lin.Composite)
		assert.Equal(t, i, lin.Row)
	}

	// Rows 1 and 3 share u1.
	k, err := comp.At(1).Cross(comp.At(3))
	require.NoError(t, err)
	var want mat.Dense
	want.Scale(6, K1)
	assertMatInDelta(t, &want, evalKernel(t, k, x, x), 1e-12)

	_, err = g.LMatMul(mat.NewDense(2, 3, nil), []*GP{u0, u1})
	assert.True(t, gogp.IsShape(err))
}

func TestProduct(t *testing.T) {
	g := mustGraph(t)
	f := g.Declare(kern.EQ(), mean.NewConstant(2))
	h := g.Declare(kern.EQ(), mean.NewConstant(3))
	p, err := f.Mul(h)
	require.NoError(t, err)

	x := utils.Col(0, 1)
	mu, err := p.At(x).Mean()
	require.NoError(t, err)
	assertVecInDelta(t, vec(6, 6), mu, 1e-12)

	// k_f k_h + m_f² k_h + m_h² k_f
	v, err := p.At(x).Var()
	require.NoError(t, err)
	assert.InDelta(t, 1.0+4+9, v.AtVec(0), 1e-12)

	k, err := p.Cross(f)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, evalKernel(t, k, x, x).At(0, 0), 1e-12)

	s, err := f.Add(h)
	require.NoError(t, err)
	_, err = s.Mul(f)
	assert.True(t, gogp.IsInvalidOperation(err))
}

func TestDeterministicOperations(t *testing.T) {
	g := mustGraph(t)
	f := g.Declare(kern.EQ(), nil)

	sh := f.Shift(1)
	k, err := sh.Cross(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, evalKernel(t, k, utils.Col(1), utils.Col(0)).At(0, 0), 1e-12)
	assertMatInDelta(t, evalKernel(t, kern.EQ(), utils.Col(0, 1), utils.Col(0, 1)),
		evalKernel(t, sh.Kernel(), utils.Col(0, 1), utils.Col(0, 1)), 1e-12)

	st := f.Stretch(2)
	k, err = st.Cross(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, evalKernel(t, k, utils.Col(2), utils.Col(1)).At(0, 0), 1e-12)

	sel := f.Select(1)
	k, err = sel.Cross(f)
	require.NoError(t, err)
	x2 := mat.NewDense(1, 2, []float64{5, 0})
	assert.InDelta(t, 1.0, evalKernel(t, k, x2, utils.Col(0)).At(0, 0), 1e-12)

	mm := f.MulMean(mean.NewConstant(3))
	assert.InDelta(t, 9.0, evalKernel(t, mm.Kernel(), utils.Col(0), utils.Col(0)).At(0, 0), 1e-12)
	k, err = mm.Cross(f)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, evalKernel(t, k, utils.Col(0), utils.Col(0)).At(0, 0), 1e-12)

	am := f.AddMean(mean.NewConstant(5))
	mu, err := am.At(utils.Col(0, 1)).Mean()
	require.NoError(t, err)
	assertVecInDelta(t, vec(5, 5), mu, 1e-12)
}

func TestConditioning(t *testing.T) {
	t.Run("NoiseFree", func(t *testing.T) {
		g := mustGraph(t)
		f := g.Declare(kern.EQ(), nil)
		x, y := utils.Col(-1, 0, 1.5), vec(0.3, -0.2, 1)
		o, err := f.Obs(x, y)
		require.NoError(t, err)
		post, err := f.Cond(o)
		require.NoError(t, err)
		assert.Same(t, g, post.Graph().Parent())
		assert.Equal(t, post.ID(), f.ID())

		mu, err := post.At(x).Mean()
		require.NoError(t, err)
		assertVecInDelta(t, y, mu, 1e-8)
		v, err := post.At(x).Var()
		require.NoError(t, err)
		assertVecInDelta(t, vec(0, 0, 0), v, 1e-8)

		// Far from the data the prior is recovered.
		m, err := post.At(utils.Col(50)).Marginals()
		require.NoError(t, err)
		assert.InDelta(t, 0, m.Mean[0], 1e-8)
		assert.InDelta(t, 2, m.Upper[0], 1e-8)
	})

	t.Run("ClosedForm", func(t *testing.T) {
		// f(0) ~ N(0, 1), y = f + e, e ~ N(0, 0.25)
		g := mustGraph(t)
		f := g.Declare(kern.EQ(), nil)
		y, err := f.Add(g.Declare(kern.Scale(0.25, kern.Delta()), nil))
		require.NoError(t, err)
		o, err := y.Obs(utils.Col(0), vec(1))
		require.NoError(t, err)
		post, err := f.Cond(o)
		require.NoError(t, err)

		mu, err := post.At(utils.Col(0)).Mean()
		require.NoError(t, err)
		assert.InDelta(t, 0.8, mu.AtVec(0), 1e-12)
		v, err := post.At(utils.Col(0)).Var()
		require.NoError(t, err)
		assert.InDelta(t, 0.2, v.AtVec(0), 1e-12)
	})

	t.Run("SequentialEqualsUnion", func(t *testing.T) {
		g := mustGraph(t)
		f, y := noisyModel(g)
		o1, err := y.Obs(utils.Col(-2, -1, 0), vec(0.5, 0.1, -0.3))
		require.NoError(t, err)
		o2, err := y.Obs(utils.Col(1, 2.5), vec(0.7, 0.2))
		require.NoError(t, err)
		union, err := o1.Join(o2)
		require.NoError(t, err)
		assert.Equal(t, 5, union.Len())

		p1, err := f.Cond(o1)
		require.NoError(t, err)
		seq, err := p1.Cond(o2)
		require.NoError(t, err)
		once, err := f.Cond(union)
		require.NoError(t, err)

		z := utils.Linspace(-3, 3, 7)
		m1, err := seq.At(z).Mean()
		require.NoError(t, err)
		m2, err := once.At(z).Mean()
		require.NoError(t, err)
		assertVecInDelta(t, m2, m1, 1e-8)

		c1, err := seq.At(z).Cov()
		require.NoError(t, err)
		c2, err := once.At(z).Cov()
		require.NoError(t, err)
		assertMatInDelta(t, c2, c1, 1e-8)
	})

	t.Run("SharedPosterior", func(t *testing.T) {
		g := mustGraph(t)
		f, y := noisyModel(g)
		o, err := y.Obs(utils.Col(0, 1), vec(1, 2))
		require.NoError(t, err)
		pf, err := f.Cond(o)
		require.NoError(t, err)
		py, err := y.Cond(o)
		require.NoError(t, err)
		assert.Same(t, pf.Graph(), py.Graph())
		d := pf.Scale(2)

		// Declared after conditioning, correlated with f.
		h, err := f.Add(g.Declare(kern.NewMatern12(), nil))
		require.NoError(t, err)
		ph, err := h.Cond(o)
		require.NoError(t, err)
		assert.Same(t, pf.Graph(), ph.Graph())
		assert.Equal(t, 6, pf.Graph().Size())

		_, err = pf.Add(ph)
		require.NoError(t, err)
		x := utils.Col(-0.5, 0.5, 2)
		_, err = Sample(rand.New(rand.NewPCG(5, 6)), 2, pf.At(x), ph.At(x))
		require.NoError(t, err)

		// Same model with h declared up front.
		g2 := mustGraph(t)
		f2, y2 := noisyModel(g2)
		h2, err := f2.Add(g2.Declare(kern.NewMatern12(), nil))
		require.NoError(t, err)
		o2, err := y2.Obs(utils.Col(0, 1), vec(1, 2))
		require.NoError(t, err)
		pf2, err := f2.Cond(o2)
		require.NoError(t, err)
		ph2, err := h2.Cond(o2)
		require.NoError(t, err)

		k, err := pf.Cross(ph)
		require.NoError(t, err)
		k2, err := pf2.Cross(ph2)
		require.NoError(t, err)
		want := evalKernel(t, k2, x, x)
		assertMatInDelta(t, want, evalKernel(t, k, x, x), 1e-10)
		m, err := ph.At(x).Mean()
		require.NoError(t, err)
		m2, err := ph2.At(x).Mean()
		require.NoError(t, err)
		assertVecInDelta(t, m2, m, 1e-10)

		// Processes built in the posterior graph see later declarations.
		kd, err := d.Cross(ph)
		require.NoError(t, err)
		var twice mat.Dense
		twice.Scale(2, want)
		assertMatInDelta(t, &twice, evalKernel(t, kd, x, x), 1e-10)
	})

	t.Run("CompositeRow", func(t *testing.T) {
		g := mustGraph(t)
		u0 := g.Declare(kern.EQ(), nil)
		u1 := g.Declare(kern.NewMatern12(), nil)
		comp, err := g.LMatMul(mat.NewDense(1, 2, []float64{0.5, -1}), []*GP{u0, u1})
		require.NoError(t, err)
		r := comp.At(0)
		o, err := r.Obs(utils.Col(0), vec(0.7))
		require.NoError(t, err)
		pr, err := r.Cond(o)
		require.NoError(t, err)
		pu0, err := u0.Cond(o)
		require.NoError(t, err)

		// var(r(0)) = 0.25 + 1
		kro := 0.25*math.Exp(-0.5) + math.Exp(-1)
		k, err := pr.Cross(pu0)
		require.NoError(t, err)
		want := 0.5 - kro*0.5*math.Exp(-0.5)/1.25
		assert.InDelta(t, want, evalKernel(t, k, utils.Col(1), utils.Col(1)).At(0, 0), 1e-12)
		mu, err := pu0.At(utils.Col(1)).Mean()
		require.NoError(t, err)
		assert.InDelta(t, 0.5*math.Exp(-0.5)*0.7/1.25, mu.AtVec(0), 1e-12)

		lin := pr.Linear()
		require.NotNil(t, lin)
		require.NotNil(t, lin.Composite)
		assert.Equal(t, 0, lin.Row)
		assert.Same(t, pr.Graph(), lin.Operands[0].Graph())
		assert.Equal(t, r.ID(), lin.Composite.At(0).ID())
		assert.Same(t, pr.Graph(), lin.Composite.At(0).Graph())
	})

	t.Run("HandlesOfOtherGraphs", func(t *testing.T) {
		g := mustGraph(t)
		f := g.Declare(kern.EQ(), nil)
		o, err := f.Obs(utils.Col(0), vec(5))
		require.NoError(t, err)
		post, err := f.Cond(o)
		require.NoError(t, err)
		src := rand.New(rand.NewPCG(1, 1))

		draws, err := Sample(src, 1, post.At(utils.Col(0)))
		require.NoError(t, err)
		assert.InDelta(t, 5, draws[0].At(0, 0), 1e-3)
		_, err = post.At(utils.Col(0)).CrossCov(post.At(utils.Col(1)))
		assert.NoError(t, err)

		// Prior and posterior handles of f share an identity but not a
		// distribution.
		_, err = Sample(src, 1, f.At(utils.Col(3)), post.At(utils.Col(0)))
		assert.True(t, gogp.IsGraphMismatch(err))
		_, err = f.At(utils.Col(0)).CrossCov(post.At(utils.Col(0)))
		assert.True(t, gogp.IsGraphMismatch(err))
		_, err = NewObsPairs(Pair{E: f.At(utils.Col(0)), Y: vec(1)}, Pair{E: post.At(utils.Col(1)), Y: vec(1)})
		assert.True(t, gogp.IsGraphMismatch(err))
		_, err = g.Cross(f, post)
		assert.True(t, gogp.IsGraphMismatch(err))
		_, err = g.Mean(post)
		assert.True(t, gogp.IsGraphMismatch(err))

		op, err := post.Obs(utils.Col(1), vec(2))
		require.NoError(t, err)
		_, err = f.Cond(op)
		assert.True(t, gogp.IsGraphMismatch(err))
		_, err = g.Condition(op)
		assert.True(t, gogp.IsGraphMismatch(err))
	})

	t.Run("Jitter", func(t *testing.T) {
		var buf bytes.Buffer
		g := mustGraph(t, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		f := g.Declare(kern.EQ(), nil)
		o, err := f.Obs(utils.Col(0, 0), vec(1, 1))
		require.NoError(t, err)
		post, err := f.Cond(o)
		require.NoError(t, err)
		assert.Greater(t, post.Graph().Jitter(), 0.0)
		assert.Contains(t, buf.String(), "jitter")
	})

	t.Run("FactorizationError", func(t *testing.T) {
		g := mustGraph(t)
		f := g.Declare(kern.Scale(-1, kern.EQ()), nil)
		o, err := f.Obs(utils.Col(0, 1), vec(1, 1))
		require.NoError(t, err)
		_, err = f.Cond(o)
		assert.True(t, gogp.IsFactorization(err))
		// The graph stays usable.
		h := g.Declare(kern.EQ(), nil)
		_, err = h.At(utils.Col(0)).Mean()
		assert.NoError(t, err)
	})

	t.Run("ShapeErrors", func(t *testing.T) {
		f := mustGraph(t).Declare(kern.EQ(), nil)
		_, err := f.Obs(utils.Col(1, 2), vec(1, 2, 3))
		assert.True(t, gogp.IsShape(err))
		_, err = f.Obs(&mat.Dense{}, vec(1))
		assert.True(t, gogp.IsShape(err))
		_, err = NewObsPairs()
		assert.True(t, gogp.IsShape(err))
	})
}

func TestMerge(t *testing.T) {
	a, b := mustGraph(t), mustGraph(t)
	fa := a.Declare(kern.EQ(), nil)
	fb := b.Declare(kern.EQ(), mean.NewConstant(1))

	s, err := fa.Add(fb)
	require.NoError(t, err)
	assert.Same(t, a, s.Graph())
	assert.Same(t, a, fb.Graph())
	assert.Equal(t, 3, b.Size())

	k, err := a.Cross(fa, fb)
	require.NoError(t, err)
	assert.True(t, kern.IsZero(k))
	mu, err := s.At(utils.Col(0)).Mean()
	require.NoError(t, err)
	assert.Equal(t, 1.0, mu.AtVec(0))

	t.Run("PriorAndPosterior", func(t *testing.T) {
		o, err := fa.Obs(utils.Col(0), vec(1))
		require.NoError(t, err)
		post, err := fa.Cond(o)
		require.NoError(t, err)
		_, err = Merge(a, post.Graph())
		assert.True(t, gogp.IsGraphMismatch(err))
		_, err = fa.Add(post)
		assert.True(t, gogp.IsGraphMismatch(err))
	})

	t.Run("ConditionAcrossGraphs", func(t *testing.T) {
		c := mustGraph(t)
		h := c.Declare(kern.EQ(), nil)
		o, err := h.Obs(utils.Col(0), vec(1))
		require.NoError(t, err)
		post, err := fa.Cond(o)
		require.NoError(t, err)
		mu, err := post.At(utils.Col(0)).Mean()
		require.NoError(t, err)
		assert.InDelta(t, 0, mu.AtVec(0), 1e-12)
	})
}

func TestSample(t *testing.T) {
	g := mustGraph(t)
	f, y := noisyModel(g)
	x := utils.Col(0, 0.5, 2)

	t.Run("Deterministic", func(t *testing.T) {
		d1, err := Sample(rand.New(rand.NewPCG(1, 2)), 3, f.At(x), y.At(utils.Col(1)))
		require.NoError(t, err)
		d2, err := Sample(rand.New(rand.NewPCG(1, 2)), 3, f.At(x), y.At(utils.Col(1)))
		require.NoError(t, err)
		require.Len(t, d1, 2)
		r, c := d1[0].Dims()
		assert.Equal(t, 3, r)
		assert.Equal(t, 3, c)
		r, _ = d1[1].Dims()
		assert.Equal(t, 1, r)
		assert.True(t, mat.Equal(d1[0], d2[0]))
		assert.True(t, mat.Equal(d1[1], d2[1]))
	})

	t.Run("Moments", func(t *testing.T) {
		h := g.Declare(kern.EQ(), mean.NewConstant(1))
		draws, err := h.At(x).Sample(rand.New(rand.NewPCG(3, 4)), 20000)
		require.NoError(t, err)
		mu, cov := Moments(draws)
		assertVecInDelta(t, vec(1, 1, 1), mu, 0.05)
		assertMatInDelta(t, evalKernel(t, kern.EQ(), x, x), cov, 0.05)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := Sample(nil, 1, f.At(x))
		assert.True(t, gogp.IsInvalidOperation(err))
		_, err = Sample(rand.New(rand.NewPCG(1, 1)), 0, f.At(x))
		assert.True(t, gogp.IsShape(err))
	})

	t.Run("MixedWidths", func(t *testing.T) {
		g := mustGraph(t)
		a := g.Declare(kern.EQ(), nil)
		b := g.Declare(kern.EQ(), nil)
		s, err := a.Add(b)
		require.NoError(t, err)
		// q(x) = b(x[:, 1]) on two-dimensional inputs.
		q := b.Select(1)
		x2 := mat.NewDense(2, 2, []float64{7, 0, 7, 1})

		draws, err := Sample(rand.New(rand.NewPCG(2, 2)), 1, a.At(utils.Col(0)), q.At(x2))
		require.NoError(t, err)
		require.Len(t, draws, 2)

		o, err := s.Obs(utils.Col(0), vec(1))
		require.NoError(t, err)
		pa, err := a.Cond(o)
		require.NoError(t, err)
		pq, err := q.Cond(o)
		require.NoError(t, err)
		k, err := pa.Cross(pq)
		require.NoError(t, err)
		// −k(0, 0)·k(0, x[:, 1]) / 2
		assert.InDelta(t, -0.5, evalKernel(t, k, utils.Col(0), x2).At(0, 0), 1e-12)
		_, err = Sample(rand.New(rand.NewPCG(2, 2)), 1, pa.At(utils.Col(0)), pq.At(x2))
		assert.NoError(t, err)
	})
}

func TestLogPDF(t *testing.T) {
	g := mustGraph(t)
	f := g.Declare(kern.Scale(2, kern.EQ()), mean.NewConstant(0.5))
	lp, err := f.At(utils.Col(0)).LogPDF(vec(1))
	require.NoError(t, err)
	want := distuv.Normal{Mu: 0.5, Sigma: math.Sqrt2}.LogProb(1)
	assert.InDelta(t, want, lp, 1e-12)

	// Independent inputs factorize.
	h := g.Declare(kern.Delta(), nil)
	lp, err = h.At(utils.Col(0, 1)).LogPDF(vec(0.3, -1))
	require.NoError(t, err)
	want = distuv.UnitNormal.LogProb(0.3) + distuv.UnitNormal.LogProb(-1)
	assert.InDelta(t, want, lp, 1e-12)

	_, err = h.At(utils.Col(0, 1)).LogPDF(vec(1))
	assert.True(t, gogp.IsShape(err))
}

func TestMarginals(t *testing.T) {
	g := mustGraph(t)
	f := g.Declare(kern.Scale(4, kern.EQ()), mean.NewConstant(1))
	m, err := f.At(utils.Col(0, 1)).Marginals()
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.InDelta(t, 1, m.Mean[0], 1e-12)
	assert.InDelta(t, -3, m.Lower[0], 1e-12)
	assert.InDelta(t, 5, m.Upper[1], 1e-12)

	m, err = f.At(utils.Col(0)).MarginalsAt(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 4, m.Upper[0], 1e-12)

	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf))
	decoded, err := DecodeMarginals(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

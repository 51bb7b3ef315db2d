// Package gogp builds collections of jointly Gaussian processes from
// composable kernels and mean functions, and conditions them on
// observations.
//
// The root package only holds the error taxonomy shared by the
// subpackages:
//
//   - kern: kernel (covariance function) algebra
//   - mean: mean function algebra
//   - linalg: Cholesky factorization with jitter and triangular solves
//   - graph: graphs of processes, observations, conditioning and sampling
//   - vgp: vector-valued processes for multi-output models
//   - config: numeric policy
//
// A typical session declares processes, observes them and queries the
// posterior:
//
//	g, _ := graph.New()
//	f := g.Declare(kern.Stretch(kern.EQ(), 2), nil)
//	e := g.Declare(kern.Scale(0.1, kern.Delta()), nil)
//	y, _ := f.Add(e)
//	o, _ := y.Obs(xObs, yObs)
//	post, _ := f.Cond(o)
//	m, _ := post.At(x).Marginals()
package gogp

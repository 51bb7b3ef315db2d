// Package graph tracks jointly Gaussian processes and the cross-kernels
// between them.
//
// A Graph owns its processes. Every pair of processes in a graph has a
// cross-kernel, Zero unless the processes were built from each other.
// Processes built algebraically (sums, scalings, linear maps, products,
// input transforms) get their cross-kernels with every existing process
// derived from those of their operands, which keeps the collection jointly
// Gaussian. Conditioning a graph on observations yields a new posterior
// graph with the same processes; the prior graph is left untouched.
package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gogp"
	"github.com/lucasmaystre/gogp/config"
	"github.com/lucasmaystre/gogp/kern"
	"github.com/lucasmaystre/gogp/linalg"
	"github.com/lucasmaystre/gogp/mean"
)

// NodeID identifies a process across graphs. Index is the position of the
// process in the graph that first declared it. Posterior and merged graphs
// keep the identities of the processes they take over.
type NodeID struct {
	Graph uuid.UUID
	Index int
}

func (id NodeID) String() string {
	return fmt.Sprintf("%s/%d", id.Graph.String()[:8], id.Index)
}

type node struct {
	id     NodeID
	mean   mean.Mean
	linear *Linear
	// Cross-kernel with nodes registered later, for nodes built from other
	// nodes of the same graph.
	crossWith func(r int) kern.Kernel
}

type Graph struct {
	id     uuid.UUID
	cfg    config.Config
	logger *slog.Logger

	nodes []*node
	index map[NodeID]int
	// Cross-kernels keyed by ordered index pair; a missing pair is Zero and
	// cross(j, i) is the reverse of cross(i, j).
	kernels map[[2]int]kern.Kernel

	// Set on posterior graphs.
	parent *Graph
	obs    *Obs
	factor *linalg.Cholesky

	// Set once this graph was merged into another one.
	merged *Graph

	mu         sync.Mutex
	posteriors map[*Obs]*posterior
}

type Option func(*Graph) error

// WithConfig sets the numeric policy.
func WithConfig(cfg config.Config) Option {
	return func(g *Graph) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		g.cfg = cfg
		return nil
	}
}

// WithLogger sets the logger reporting jitter and merges.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", gogp.ErrInvalidOperation)
		}
		g.logger = logger
		return nil
	}
}

func New(opts ...Option) (*Graph, error) {
	g := newGraph(config.Default(), slog.Default())
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("graph: new: %w", err)
		}
	}
	return g, nil
}

func newGraph(cfg config.Config, logger *slog.Logger) *Graph {
	return &Graph{
		id:      uuid.New(),
		cfg:     cfg,
		logger:  logger,
		index:   make(map[NodeID]int),
		kernels: make(map[[2]int]kern.Kernel),
	}
}

var defaultGraph = newGraph(config.Default(), slog.Default())

// Default returns the implicit graph used by Declare.
func Default() *Graph {
	return defaultGraph
}

// Declare registers a process in the implicit graph.
func Declare(k kern.Kernel, m mean.Mean) *GP {
	return defaultGraph.Declare(k, m)
}

// Follow merges to the graph that owns the nodes now.
func (g *Graph) resolve() *Graph {
	for g.merged != nil {
		g = g.merged
	}
	return g
}

func (g *Graph) ID() uuid.UUID {
	return g.resolve().id
}

// Size is the number of processes in the graph.
func (g *Graph) Size() int {
	return len(g.resolve().nodes)
}

func (g *Graph) Config() config.Config {
	return g.resolve().cfg
}

// Parent returns the graph this posterior graph was conditioned from, or
// nil for a prior graph.
func (g *Graph) Parent() *Graph {
	return g.resolve().parent
}

// Jitter returns the diagonal jitter that was needed to factorize the
// observation covariance of a posterior graph.
func (g *Graph) Jitter() float64 {
	g = g.resolve()
	if g.factor == nil {
		return 0
	}
	return g.factor.Jitter()
}

// Declare registers a new process with kernel k and mean m (nil is Zero).
// The process is independent of all existing processes.
func (g *Graph) Declare(k kern.Kernel, m mean.Mean) *GP {
	g = g.resolve()
	return g.add(k, m, nil, nil)
}

// Register a node. crossWith(r) is the cross-kernel between the new node
// and every existing node r; nil means Zero.
func (g *Graph) add(self kern.Kernel, m mean.Mean, crossWith func(r int) kern.Kernel, lin *Linear) *GP {
	if m == nil {
		m = mean.NewZero()
	}
	n := len(g.nodes)
	id := NodeID{Graph: g.id, Index: n}
	if crossWith != nil {
		for r := 0; r < n; r++ {
			if k := crossWith(r); !kern.IsZero(k) {
				g.kernels[[2]int{n, r}] = k
			}
		}
	}
	if !kern.IsZero(self) {
		g.kernels[[2]int{n, n}] = self
	}
	g.nodes = append(g.nodes, &node{id: id, mean: m, linear: lin, crossWith: crossWith})
	g.index[id] = n
	return &GP{graph: g, id: id}
}

// Take over a node from another graph under its existing identity.
func (g *Graph) adopt(id NodeID, m mean.Mean, lin *Linear) int {
	n := len(g.nodes)
	g.nodes = append(g.nodes, &node{id: id, mean: m, linear: lin})
	g.index[id] = n
	return n
}

func (g *Graph) cross(i, j int) kern.Kernel {
	if k, ok := g.kernels[[2]int{i, j}]; ok {
		return k
	}
	if k, ok := g.kernels[[2]int{j, i}]; ok {
		return kern.Reverse(k)
	}
	return kern.NewZero()
}

// Covariance block between node i at x and node j at y. Zero blocks are
// not evaluated, since independent processes may take inputs of different
// widths.
func (g *Graph) block(i, j int, x, y *mat.Dense) (*mat.Dense, error) {
	k := g.cross(i, j)
	if kern.IsZero(k) {
		rx, _ := x.Dims()
		ry, _ := y.Dims()
		return mat.NewDense(rx, ry, nil), nil
	}
	return k.Eval(x, y)
}

// Index of p, which must be a handle into g.
func (g *Graph) lookup(p *GP) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
	}
	i, ok := g.index[p.id]
	if !ok {
		return 0, &gogp.UnregisteredNodeError{Node: p.id.String()}
	}
	if p.graph.resolve() != g {
		return 0, fmt.Errorf("%w: process %s is a handle into another graph", gogp.ErrGraphMismatch, p.id)
	}
	return i, nil
}

// Index of p in g, where p may also be a handle into a graph g was
// conditioned from.
func (g *Graph) lift(p *GP) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: nil process", gogp.ErrInvalidOperation)
	}
	if !g.descends(p.graph.resolve()) {
		return g.lookup(p)
	}
	if _, ok := g.index[p.id]; !ok {
		// Processes declared in an ancestor after g was built.
		if err := g.refresh(); err != nil {
			return 0, err
		}
	}
	i, ok := g.index[p.id]
	if !ok {
		return 0, &gogp.UnregisteredNodeError{Node: p.id.String()}
	}
	return i, nil
}

// Whether g was conditioned, directly or not, from h.
func (g *Graph) descends(h *Graph) bool {
	for a := g.parent; a != nil; a = a.parent {
		a = a.resolve()
		if a == h {
			return true
		}
	}
	return false
}

// Cross returns the cross-kernel between p and q.
func (g *Graph) Cross(p, q *GP) (kern.Kernel, error) {
	g = g.resolve()
	i, err := g.lookup(p)
	if err != nil {
		return nil, err
	}
	j, err := g.lookup(q)
	if err != nil {
		return nil, err
	}
	return g.cross(i, j), nil
}

// Kernel returns the kernel of p.
func (g *Graph) Kernel(p *GP) (kern.Kernel, error) {
	return g.Cross(p, p)
}

// Mean returns the mean of p.
func (g *Graph) Mean(p *GP) (mean.Mean, error) {
	g = g.resolve()
	i, err := g.lookup(p)
	if err != nil {
		return nil, err
	}
	return g.nodes[i].mean, nil
}

// Processes returns handles to every process of the graph, in declaration
// order.
func (g *Graph) Processes() []*GP {
	g = g.resolve()
	out := make([]*GP, len(g.nodes))
	for i, nd := range g.nodes {
		out[i] = &GP{graph: g, id: nd.id}
	}
	return out
}

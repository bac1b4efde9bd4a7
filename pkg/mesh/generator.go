package mesh

import (
	"math/rand"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger routes progress logging to log.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// Generator grows secondary networks inside the loops of a skeleton.
type Generator struct {
	cfg Config
	log *zap.Logger
}

// New validates cfg and returns a Generator.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns the generator's configuration.
func (gen *Generator) Config() Config { return gen.cfg }

// Generate grows a network inside every loop of skeleton and extracts the
// resulting blocks. The same skeleton, configuration and seed always give
// the same result. skeleton is not modified.
func (gen *Generator) Generate(skeleton *graph.Graph, seed int64) (res *Result, err error) {
	if c, ok := graph.FindCrossing(skeleton.Edges()); ok {
		return nil, errors.Wrapf(ErrSelfIntersecting, "%v crosses %v", c.A, c.B)
	}
	prims := graph.MinimalCycleBasis(skeleton)
	if len(prims.Cycles) == 0 {
		return nil, errors.WithStack(ErrNoLoops)
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			gen.log.Error("generation aborted", zap.Error(ie))
			res, err = nil, errors.WithStack(ie)
		}
	}()
	return gen.generate(skeleton, prims.Cycles, rand.New(rand.NewSource(seed))), nil
}

// Generate is a shorthand for New followed by Generator.Generate.
func Generate(skeleton *graph.Graph, cfg Config, seed int64, opts ...Option) (*Result, error) {
	gen, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return gen.Generate(skeleton, seed)
}

func (gen *Generator) generate(skeleton *graph.Graph, loops [][]geo.Point, rng *rand.Rand) *Result {
	net := NewNetwork(gen.log)
	net.AddSkeleton(skeleton)
	backbone := net.AddView(KindBackbone, skeleton.Clone(), nil)

	cycles := make([]*OrientedCycle, len(loops))
	for i, verts := range loops {
		cycles[i] = NewOrientedCycle(verts)
	}
	parents := directParents(cycles)

	res := &Result{Loops: make([]LoopInfo, len(cycles))}
	for i, c := range cycles {
		kind := KindOuterCycle
		if parents[i] >= 0 {
			kind = KindEnclosedCycle
			res.Stats.EnclosedLoops++
		}
		net.AddView(kind, c.Graph(), c)
		res.Loops[i].Parent = parents[i]
		res.Loops[i].Enclosed = parents[i] >= 0
	}
	res.Stats.Loops = len(cycles)

	for i, c := range cycles {
		canopy := NewCanopy()
		for _, v := range c.Ring() {
			canopy.MarkDeadEnd(v)
		}
		net.SetObserver(canopy)
		owner := net.AddView(KindSecondary, graph.New(), nil)

		f := newFlood(net, canopy, owner, gen.cfg, rng, res, gen.log)
		res.Loops[i].Seeds = f.seed(c)
		f.run()
		for j, e := range cycles {
			if parents[j] == i {
				res.Loops[j].Forced = f.reconcile(e)
			}
		}
		net.SetObserver(nil)

		res.Loops[i].Segments = net.View(owner).Graph.NumEdges()
		gen.log.Info("grew loop",
			zap.Int("loop", i),
			zap.Stringer("first", loops[i][0]),
			zap.Bool("clockwise", c.IsClockwise()),
			zap.Float64("perimeter", c.Perimeter()),
			zap.Int("seeds", len(res.Loops[i].Seeds)),
			zap.Int("segments", res.Loops[i].Segments),
			zap.Int("dead_ends", canopy.Len()))
	}

	full := net.Graph()
	bb := net.View(backbone).Graph
	for i, c := range cycles {
		ring := c.Ring()
		res.Loops[i].Vertices = ring
		for _, v := range ring {
			if full.Degree(v) > bb.Degree(v) {
				res.Loops[i].Exits = append(res.Loops[i].Exits, v)
			}
		}
	}

	res.Graph = full
	res.Backbone = bb
	res.Blocks, res.Filaments = extractBlocks(full)
	res.Stats.Vertices = full.NumVertices()
	res.Stats.Edges = full.NumEdges()
	res.Stats.Blocks = len(res.Blocks)

	gen.log.Info("generation complete",
		zap.Int("vertices", res.Stats.Vertices),
		zap.Int("edges", res.Stats.Edges),
		zap.Int("blocks", res.Stats.Blocks),
		zap.Int("forced", res.Stats.Forced))
	return res
}

// directParents returns, for each cycle, the index of the smallest cycle
// enclosing it, or -1.
func directParents(cycles []*OrientedCycle) []int {
	parents := make([]int, len(cycles))
	for i, c := range cycles {
		parents[i] = -1
		for j, o := range cycles {
			if i == j || !o.Encloses(c) {
				continue
			}
			if parents[i] < 0 || o.Area() < cycles[parents[i]].Area() {
				parents[i] = j
			}
		}
	}
	return parents
}

package mesh

import (
	"math/rand"

	"github.com/emirpasic/gods/queues/arrayqueue"
	"go.uber.org/zap"

	"road_mesh/pkg/geo"
)

// maxStepsPerLoop stops a flood that fails to converge, which can only
// happen with a zero snap radius.
const maxStepsPerLoop = 1 << 20

// branch is a pending growth step.
type branch struct {
	ray    geo.Ray
	sector geo.Sector
	// seed branches start on a loop border and skip the dead-end check.
	seed bool
}

// flood grows the secondary network inside one loop. All of its trees
// share the canopy and append to the same owner view.
type flood struct {
	net    *Network
	canopy *Canopy
	owner  ViewID
	cfg    Config
	rng    *rand.Rand
	snap   snapper
	queue  *arrayqueue.Queue
	steps  int

	// pending counts the outstanding children of each branching point;
	// grew records whether any of them placed a segment.
	pending map[geo.Point]int
	grew    map[geo.Point]bool

	res *Result
	log *zap.Logger
}

func newFlood(net *Network, canopy *Canopy, owner ViewID, cfg Config, rng *rand.Rand, res *Result, log *zap.Logger) *flood {
	return &flood{
		net:     net,
		canopy:  canopy,
		owner:   owner,
		cfg:     cfg,
		rng:     rng,
		snap:    snapper{net: net, radius: cfg.SnapRadius},
		queue:   arrayqueue.New(),
		pending: make(map[geo.Point]int),
		grew:    make(map[geo.Point]bool),
		res:     res,
		log:     log,
	}
}

func (f *flood) push(b branch) { f.queue.Enqueue(b) }

// run drains the branch queue in FIFO order.
func (f *flood) run() {
	for !f.queue.Empty() {
		if f.steps >= maxStepsPerLoop {
			f.log.Warn("flood did not converge, dropping remaining branches",
				zap.Int("steps", f.steps), zap.Int("pending", f.queue.Size()))
			f.queue.Clear()
			return
		}
		v, _ := f.queue.Dequeue()
		f.grow(v.(branch))
	}
}

// grow places at most one segment for b and enqueues its continuations.
func (f *flood) grow(b branch) SnapOutcome {
	start := b.ray.Start
	stats := &f.res.Stats
	if !b.seed && f.canopy.IsDeadEnd(start) {
		stats.Dropped++
		f.childDone(b, false)
		return SnapOutcome{Kind: Blocked}
	}
	f.steps++
	stats.Steps++

	length := segmentLength(f.cfg, f.rng)
	dir := deviate(b.ray.Direction, f.cfg, f.rng)
	if !b.sector.Contains(dir) {
		dir = b.ray.Direction
	}
	target := start.Moved(dir, length)

	out := f.snap.snap(start, target, b.sector)
	if out.Kind == Blocked {
		stats.Blocked++
		f.childDone(b, false)
		f.log.Debug("branch blocked", zap.Stringer("start", start), zap.Float64("dir", dir))
		return out
	}

	if out.Kind == EdgeSnap {
		f.net.SplitEdge(out.Edge, out.Target)
	}
	seg := geo.Seg(start, out.Target)
	f.net.AddSegment(seg, f.owner)
	f.childDone(b, true)

	switch out.Kind {
	case NoSnap:
		stats.NoSnaps++
		f.canopy.AddPetiole(seg, out.Target)
		dirs := childDirections(dir, f.cfg.RoadsFromPoint)
		f.pending[out.Target] = len(dirs)
		for _, d := range dirs {
			f.push(branch{ray: geo.Ray{Start: out.Target, Direction: d}, sector: geo.UniversalSector()})
		}
	case NodeSnap, EdgeSnap:
		if out.Kind == NodeSnap {
			stats.NodeSnaps++
		} else {
			stats.EdgeSnaps++
		}
		f.canopy.MarkDeadEnd(out.Target)
		f.res.Snaps = append(f.res.Snaps, SnapRecord{
			Source:    start,
			Unsnapped: target,
			Snapped:   out.Target,
			Kind:      out.Kind,
		})
	}
	f.log.Debug("branch grown",
		zap.Stringer("start", start),
		zap.Stringer("end", out.Target),
		zap.Stringer("snap", out.Kind))
	return out
}

// childDone settles one child of a branching point. A point none of whose
// children could grow becomes a dead end.
func (f *flood) childDone(b branch, grew bool) {
	if b.seed {
		return
	}
	p := b.ray.Start
	if grew {
		f.grew[p] = true
	}
	f.pending[p]--
	if f.pending[p] > 0 {
		return
	}
	if !f.grew[p] {
		f.canopy.MarkDeadEnd(p)
	}
	delete(f.pending, p)
	delete(f.grew, p)
}

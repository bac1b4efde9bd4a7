package mesh

import (
	"math/rand"
	"testing"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// nestedFlood builds the 0..60 square around the 25..35 square and returns
// a flood growing inside the outer one, with the inner loop.
func nestedFlood(t *testing.T, cfg Config) (*flood, *OrientedCycle) {
	t.Helper()
	outerRing := ccwSquare(60)
	innerRing := []geo.Point{geo.Pt(25, 25), geo.Pt(35, 25), geo.Pt(35, 35), geo.Pt(25, 35)}

	skeleton := skeletonOf(t, polygon(outerRing...), polygon(innerRing...))
	n := NewNetwork(nil)
	n.AddSkeleton(skeleton)
	n.AddView(KindBackbone, skeleton.Clone(), nil)

	outer, inner := NewOrientedCycle(outerRing), NewOrientedCycle(innerRing)
	n.AddView(KindOuterCycle, outer.Graph(), outer)
	n.AddView(KindEnclosedCycle, inner.Graph(), inner)

	canopy := NewCanopy()
	for _, v := range outer.Ring() {
		canopy.MarkDeadEnd(v)
	}
	n.SetObserver(canopy)
	owner := n.AddView(KindSecondary, graph.New(), nil)

	rng := rand.New(rand.NewSource(1))
	return newFlood(n, canopy, owner, cfg, rng, &Result{}, n.log), inner
}

func exactConfig() Config {
	cfg := DefaultConfig()
	cfg.SegmentLengthDeviation = 0
	cfg.DirectionDeviationAngle = 0
	return cfg
}

func TestFloodGrowOpenSpace(t *testing.T) {
	f, _ := nestedFlood(t, exactConfig())
	start := geo.Pt(5, 30)

	out := f.grow(branch{ray: geo.Ray{Start: start, Direction: 0}, sector: geo.UniversalSector(), seed: true})
	leaf := geo.Pt(15, 30)
	if out.Kind != NoSnap || !out.Target.Near(leaf) {
		t.Fatalf("outcome %+v, want no snap at %v", out, leaf)
	}
	leaf = out.Target
	if !f.net.View(f.owner).Graph.HasEdge(geo.Seg(start, leaf)) {
		t.Error("grown segment missing from the owner view")
	}
	want := f.cfg.RoadsFromPoint - 1
	if f.queue.Size() != want || f.pending[leaf] != want {
		t.Errorf("queued %d children, pending %d; want %d", f.queue.Size(), f.pending[leaf], want)
	}
	if f.res.Stats.Steps != 1 || f.res.Stats.NoSnaps != 1 {
		t.Errorf("stats = %+v", f.res.Stats)
	}

	// The segment is the leaf's petiole: once the leaf is dead, any point
	// splitting the segment is dead too.
	f.canopy.MarkDeadEnd(leaf)
	mid := geo.Pt(10, 30)
	f.net.SplitEdge(geo.Seg(start, leaf), mid)
	if !f.canopy.IsDeadEnd(mid) {
		t.Error("split point of a dead leaf's petiole is not a dead end")
	}
}

func TestFloodGrowFromDeadEnd(t *testing.T) {
	f, _ := nestedFlood(t, exactConfig())
	p := geo.Pt(5, 30)
	f.canopy.MarkDeadEnd(p)
	edges := f.net.Graph().NumEdges()

	f.pending[p] = 2
	f.push(branch{ray: geo.Ray{Start: p, Direction: 0}, sector: geo.UniversalSector()})
	f.push(branch{ray: geo.Ray{Start: p, Direction: 1}, sector: geo.UniversalSector()})
	f.run()

	if f.res.Stats.Dropped != 2 || f.res.Stats.Steps != 0 {
		t.Errorf("dropped %d, steps %d; want 2, 0", f.res.Stats.Dropped, f.res.Stats.Steps)
	}
	if f.net.Graph().NumEdges() != edges {
		t.Error("a dead end grew a segment")
	}
	if _, ok := f.pending[p]; ok {
		t.Error("settled point still has pending children")
	}
}

func TestFloodChildDone(t *testing.T) {
	f, _ := nestedFlood(t, exactConfig())
	child := func(p geo.Point) branch { return branch{ray: geo.Ray{Start: p}} }

	barren, fertile := geo.Pt(5, 5), geo.Pt(50, 50)
	f.pending[barren] = 2
	f.pending[fertile] = 2

	f.childDone(child(barren), false)
	if f.canopy.IsDeadEnd(barren) {
		t.Fatal("dead end marked before all children settled")
	}
	f.childDone(child(barren), false)
	if !f.canopy.IsDeadEnd(barren) {
		t.Error("point with no grown children is not a dead end")
	}

	f.childDone(child(fertile), true)
	f.childDone(child(fertile), false)
	if f.canopy.IsDeadEnd(fertile) {
		t.Error("point with a grown child became a dead end")
	}

	// Seeds are not children of any branching point.
	seed := geo.Pt(1, 1)
	f.childDone(branch{ray: geo.Ray{Start: seed}, seed: true}, false)
	if f.canopy.IsDeadEnd(seed) {
		t.Error("failed seed marked a dead end")
	}
}

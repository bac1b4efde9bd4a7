package mesh

import (
	"testing"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// squareNetwork returns a network holding a 10x10 square skeleton with a
// backbone view and a cycle view over it.
func squareNetwork(t *testing.T) (*Network, ViewID, ViewID) {
	t.Helper()
	ring := ccwSquare(10)
	skeleton := graph.New()
	for i, p := range ring {
		skeleton.AddEdge(geo.Seg(p, ring[(i+1)%len(ring)]))
	}
	n := NewNetwork(nil)
	n.AddSkeleton(skeleton)
	bb := n.AddView(KindBackbone, skeleton.Clone(), nil)
	c := NewOrientedCycle(ring)
	cv := n.AddView(KindOuterCycle, c.Graph(), c)
	return n, bb, cv
}

func expectInvariant(t *testing.T, fn func()) *InvariantError {
	t.Helper()
	var got *InvariantError
	func() {
		defer func() {
			r := recover()
			ie, ok := r.(*InvariantError)
			if !ok {
				t.Fatalf("recovered %v, want *InvariantError", r)
			}
			got = ie
		}()
		fn()
	}()
	return got
}

func TestNetworkSplitPropagates(t *testing.T) {
	n, bb, cv := squareNetwork(t)
	p := geo.Pt(5, 0)

	a, b, ok := n.SplitEdge(geo.Seg(geo.Pt(10, 0), geo.Pt(0, 0)), p)
	if !ok {
		t.Fatal("SplitEdge failed")
	}
	for _, g := range []*graph.Graph{n.Graph(), n.View(bb).Graph, n.View(cv).Graph} {
		if g.HasEdge(geo.Seg(geo.Pt(0, 0), geo.Pt(10, 0))) {
			t.Error("original edge survived in a view")
		}
		if !g.HasEdge(a) || !g.HasEdge(b) || !g.HasVertex(p) {
			t.Error("view is missing a half or the split point")
		}
	}
	if n.View(cv).Cycle.Clockwise(geo.Seg(p, geo.Pt(10, 0))) {
		t.Error("split half lost its orientation")
	}

	// A half is itself registered with both views.
	q := geo.Pt(7, 0)
	if _, _, ok := n.SplitEdge(b, q); !ok {
		t.Fatal("splitting a half failed")
	}
	if !n.View(cv).Graph.HasVertex(q) || !n.View(bb).Graph.HasVertex(q) {
		t.Error("second split not propagated")
	}

	cands := n.Candidates(geo.Seg(geo.Pt(2, -1), geo.Pt(8, -1)), 1)
	if len(cands) != 3 {
		t.Fatalf("got %d candidates along the bottom, want 3: %v", len(cands), cands)
	}
}

func TestNetworkSplitAtEndpointIsNoop(t *testing.T) {
	n, _, cv := squareNetwork(t)
	e := geo.Seg(geo.Pt(0, 0), geo.Pt(10, 0))

	a, b, ok := n.SplitEdge(e, geo.Pt(10, 0))
	if ok {
		t.Fatal("split at endpoint should be a no-op")
	}
	if a != e || b != (geo.Segment{}) {
		t.Errorf("got %v, %v; want original edge", a, b)
	}
	if n.Graph().NumVertices() != 4 || n.View(cv).Graph.NumEdges() != 4 {
		t.Error("no-op split changed the graphs")
	}
}

func TestNetworkSplitNotifiesObserver(t *testing.T) {
	n, _, _ := squareNetwork(t)
	canopy := NewCanopy()
	n.SetObserver(canopy)

	leaf := geo.Pt(0, 10)
	canopy.AddPetiole(geo.Seg(geo.Pt(10, 10), leaf), leaf)
	canopy.MarkDeadEnd(leaf)

	n.SplitEdge(geo.Seg(geo.Pt(10, 10), leaf), geo.Pt(4, 10))
	if !canopy.IsDeadEnd(geo.Pt(4, 10)) {
		t.Error("split point of a dead leaf's petiole should be a dead end")
	}
}

func TestNetworkAddSegment(t *testing.T) {
	n, _, _ := squareNetwork(t)
	owner := n.AddView(KindSecondary, graph.New(), nil)

	s := geo.Seg(geo.Pt(0, 0), geo.Pt(5, 5))
	n.AddSegment(s, owner)
	if !n.Graph().HasEdge(s) || !n.View(owner).Graph.HasEdge(s) {
		t.Fatal("segment missing from network or owner")
	}

	// The grown edge follows splits like any other.
	n.SplitEdge(s, geo.Pt(2, 2))
	if n.View(owner).Graph.NumEdges() != 2 {
		t.Errorf("owner has %d edges after split, want 2", n.View(owner).Graph.NumEdges())
	}

	ie := expectInvariant(t, func() {
		n.AddSegment(geo.Seg(geo.Pt(10, 0), geo.Pt(0, 10)), owner)
	})
	if ie.B == (geo.Segment{}) {
		t.Errorf("invariant error should name both segments: %v", ie)
	}

	expectInvariant(t, func() {
		n.AddSegment(geo.Seg(geo.Pt(0, 0), geo.Pt(10, 0)), owner)
	})
}

func TestNetworkAddViewMissingEdge(t *testing.T) {
	n, _, _ := squareNetwork(t)
	g := graph.New()
	g.AddEdge(geo.Seg(geo.Pt(0, 0), geo.Pt(3, 3)))
	expectInvariant(t, func() { n.AddView(KindSecondary, g, nil) })
}

// splitLog is a Part that records the splits it is told about.
type splitLog struct {
	g      *graph.Graph
	splits []geo.Point
}

func (l *splitLog) Edges() []geo.Segment { return l.g.Edges() }
func (l *splitLog) AddEdge(e geo.Segment) bool { return l.g.AddEdge(e) }
func (l *splitLog) IntegrateSplit(orig geo.Segment, p geo.Point) {
	l.g.SplitEdge(orig, p)
	l.splits = append(l.splits, p)
}

func TestNetworkRegisterPart(t *testing.T) {
	n, _, _ := squareNetwork(t)
	bottom := geo.Seg(geo.Pt(0, 0), geo.Pt(10, 0))
	part := &splitLog{g: graph.New()}
	part.g.AddEdge(bottom)
	id := n.Register(part)
	if n.View(id) != nil {
		t.Error("View returned a non-view part")
	}

	n.SplitEdge(bottom, geo.Pt(4, 0))
	n.SplitEdge(geo.Seg(geo.Pt(0, 10), geo.Pt(10, 10)), geo.Pt(4, 10))
	if len(part.splits) != 1 || part.splits[0] != geo.Pt(4, 0) {
		t.Errorf("part saw splits %v, want [(4, 0)]", part.splits)
	}

	s := geo.Seg(geo.Pt(4, 0), geo.Pt(4, 10))
	n.AddSegment(s, id)
	if !part.g.HasEdge(s) {
		t.Error("segment not added to its owner part")
	}
}

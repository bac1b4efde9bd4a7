package mesh

import (
	"sort"

	"github.com/tidwall/rtree"
	"go.uber.org/zap"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// SplitObserver is told about every edge split after all views have
// integrated it.
type SplitObserver interface {
	EdgeSplit(orig, a, b geo.Segment, p geo.Point)
}

// Network owns the full graph. Every view that shares an edge with it is
// registered against that edge, so a split reaches all of them.
type Network struct {
	g     *graph.Graph
	index rtree.RTreeG[geo.Segment]
	seq   map[geo.Segment]int // canonical key -> insertion sequence
	next  int

	parts    []Part
	users    map[geo.Segment][]ViewID // canonical key -> owning parts
	observer SplitObserver

	log *zap.Logger
}

// NewNetwork creates an empty network.
func NewNetwork(log *zap.Logger) *Network {
	if log == nil {
		log = zap.NewNop()
	}
	return &Network{
		g:     graph.New(),
		seq:   make(map[geo.Segment]int),
		users: make(map[geo.Segment][]ViewID),
		log:   log,
	}
}

// Graph returns the full graph. It must not be mutated by the caller.
func (n *Network) Graph() *graph.Graph { return n.g }

// View returns the view with the given id, or nil when that part is not
// a View.
func (n *Network) View(id ViewID) *View {
	v, _ := n.parts[id].(*View)
	return v
}

// SetObserver installs the split observer, replacing any previous one.
func (n *Network) SetObserver(o SplitObserver) { n.observer = o }

// AddSkeleton inserts the skeleton edges without crossing checks; the
// caller has already rejected self-intersecting input.
func (n *Network) AddSkeleton(skeleton *graph.Graph) {
	for _, v := range skeleton.Vertices() {
		n.g.AddVertex(v)
	}
	for _, e := range skeleton.Edges() {
		if n.g.AddEdge(e) {
			n.indexInsert(e)
		}
	}
}

// AddView registers a view whose edges must all be present in the network.
func (n *Network) AddView(kind ViewKind, g *graph.Graph, cycle *OrientedCycle) ViewID {
	return n.Register(&View{Kind: kind, Graph: g, Cycle: cycle})
}

// Register adds p to the parts told about splits of its edges. All of its
// edges must be present in the network.
func (n *Network) Register(p Part) ViewID {
	id := ViewID(len(n.parts))
	n.parts = append(n.parts, p)
	for _, e := range p.Edges() {
		if !n.g.HasEdge(e) {
			fail("add view", "edge missing from network", e, geo.Segment{})
		}
		key := e.Key()
		n.users[key] = append(n.users[key], id)
	}
	return id
}

// AddSegment inserts s into the network and into the owner part. Both
// endpoints may already be vertices. A crossing with an existing edge is
// an invariant violation.
func (n *Network) AddSegment(s geo.Segment, owner ViewID) {
	if s.Degenerate() {
		fail("insert segment", "degenerate segment", s, geo.Segment{})
	}
	for _, c := range n.Candidates(s, 0) {
		if s.Crosses(c) {
			fail("insert segment", "new segment crosses existing edge", s, c)
		}
	}
	if !n.g.AddEdge(s) {
		fail("insert segment", "segment already present", s, geo.Segment{})
	}
	n.indexInsert(s)
	n.parts[owner].AddEdge(s)
	key := s.Key()
	n.users[key] = append(n.users[key], owner)
}

// SplitEdge replaces s by two edges meeting at p, in the network and in
// every part that owns s. Splitting at an endpoint is a no-op that returns
// the stored edge.
func (n *Network) SplitEdge(s geo.Segment, p geo.Point) (geo.Segment, geo.Segment, bool) {
	stored, ok := n.g.Edge(s)
	if !ok {
		fail("split edge", "edge missing from network", s, geo.Segment{})
	}
	if stored.HasEndpoint(p) {
		return stored, geo.Segment{}, false
	}

	a, b, _ := n.g.SplitEdge(stored, p)
	n.indexDelete(stored)
	n.indexInsert(a)
	n.indexInsert(b)

	key := stored.Key()
	owners := n.users[key]
	delete(n.users, key)
	for _, id := range owners {
		n.parts[id].IntegrateSplit(stored, p)
	}
	n.users[a.Key()] = append([]ViewID(nil), owners...)
	n.users[b.Key()] = append([]ViewID(nil), owners...)

	if n.observer != nil {
		n.observer.EdgeSplit(stored, a, b, p)
	}
	n.log.Debug("split edge", zap.Stringer("edge", stored), zap.Stringer("at", p), zap.Int("views", len(owners)))
	return a, b, true
}

// Candidates returns the edges whose bounding box overlaps the bounding
// box of s grown by margin, in insertion order.
func (n *Network) Candidates(s geo.Segment, margin float64) []geo.Segment {
	min, max := s.Bounds()
	min[0] -= margin
	min[1] -= margin
	max[0] += margin
	max[1] += margin

	var out []geo.Segment
	n.index.Search(min, max, func(_, _ [2]float64, e geo.Segment) bool {
		out = append(out, e)
		return true
	})
	// The tree's visiting order depends on its internal layout.
	sort.Slice(out, func(i, j int) bool { return n.seq[out[i].Key()] < n.seq[out[j].Key()] })
	return out
}

func (n *Network) indexInsert(e geo.Segment) {
	min, max := e.Bounds()
	n.index.Insert(min, max, e)
	n.seq[e.Key()] = n.next
	n.next++
}

func (n *Network) indexDelete(e geo.Segment) {
	min, max := e.Bounds()
	n.index.Delete(min, max, e)
	delete(n.seq, e.Key())
}

package mesh

import (
	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// ViewKind tags what a View represents.
type ViewKind int

const (
	KindBackbone ViewKind = iota
	KindOuterCycle
	KindEnclosedCycle
	KindSecondary
)

func (k ViewKind) String() string {
	switch k {
	case KindBackbone:
		return "backbone"
	case KindOuterCycle:
		return "outer-cycle"
	case KindEnclosedCycle:
		return "enclosed-cycle"
	case KindSecondary:
		return "secondary"
	}
	return "unknown"
}

// ViewID indexes a view in its Network.
type ViewID int

// Part is a graph that shares edges with the network and has to follow
// when one of them is split.
type Part interface {
	Edges() []geo.Segment
	AddEdge(e geo.Segment) bool
	IntegrateSplit(orig geo.Segment, p geo.Point)
}

// View is a sub-graph of the network: the skeleton, one loop, or the
// network grown inside one loop.
type View struct {
	Kind  ViewKind
	Graph *graph.Graph
	Cycle *OrientedCycle // set for the cycle kinds; shares Graph
}

func (v *View) Edges() []geo.Segment { return v.Graph.Edges() }

func (v *View) AddEdge(e geo.Segment) bool { return v.Graph.AddEdge(e) }

// IntegrateSplit replaces orig with its two halves through p.
func (v *View) IntegrateSplit(orig geo.Segment, p geo.Point) {
	v.Graph.SplitEdge(orig, p)
}

var _ Part = (*View)(nil)

package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// DefaultMaxSnapDist is the snap limit used when none is given, in mesh
// units.
const DefaultMaxSnapDist = 50.0

// ErrPointTooFar is returned when the query point is too far from any road.
var ErrPointTooFar = errors.New("point too far from road")

// SnapResult represents a point snapped to a mesh edge.
type SnapResult struct {
	EdgeIdx uint32    // index into the graph's edge list
	NodeU   uint32    // start vertex of the edge
	NodeV   uint32    // end vertex of the edge
	Ratio   float64   // 0.0 = at NodeU, 1.0 = at NodeV
	Dist    float64   // distance from query point to snapped point
	Point   geo.Point // the snapped point
}

// Snapper provides nearest-edge snapping over an R-tree of edge bounds.
type Snapper struct {
	tree    rtree.RTreeG[uint32]
	edges   []geo.Segment
	ids     map[geo.Point]uint32
	maxDist float64
}

// NewSnapper indexes the edges of g. Vertex ids follow g.Vertices order.
func NewSnapper(g *graph.Graph, maxDist float64) *Snapper {
	if maxDist <= 0 {
		maxDist = DefaultMaxSnapDist
	}
	s := &Snapper{
		edges:   g.Edges(),
		ids:     vertexIDs(g),
		maxDist: maxDist,
	}
	for i, e := range s.edges {
		min, max := e.Bounds()
		s.tree.Insert(min, max, uint32(i))
	}
	return s
}

func vertexIDs(g *graph.Graph) map[geo.Point]uint32 {
	ids := make(map[geo.Point]uint32, g.NumVertices())
	for i, v := range g.Vertices() {
		ids[v] = uint32(i)
	}
	return ids
}

// Snap finds the nearest edge to p. Ties go to the lower edge index.
func (s *Snapper) Snap(p geo.Point) (SnapResult, error) {
	min := [2]float64{p.X - s.maxDist, p.Y - s.maxDist}
	max := [2]float64{p.X + s.maxDist, p.Y + s.maxDist}

	bestDist := math.Inf(1)
	bestIdx := noNode
	var bestResult SnapResult

	s.tree.Search(min, max, func(_, _ [2]float64, idx uint32) bool {
		e := s.edges[idx]
		d, ratio := e.PointToSegmentDist(p)
		if d < bestDist || (d == bestDist && idx < bestIdx) {
			bestDist, bestIdx = d, idx
			bestResult = SnapResult{
				EdgeIdx: idx,
				NodeU:   s.ids[e.Start],
				NodeV:   s.ids[e.End],
				Ratio:   ratio,
				Dist:    d,
				Point:   e.PointAt(ratio),
			}
		}
		return true
	})

	if bestDist > s.maxDist {
		return SnapResult{}, ErrPointTooFar
	}
	return bestResult, nil
}

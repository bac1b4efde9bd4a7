package graph

import (
	"github.com/tidwall/rtree"

	"road_mesh/pkg/geo"
)

// Crossing is a pair of edges that touch away from a shared endpoint.
type Crossing struct {
	A, B geo.Segment
}

// FindCrossing returns the first pair of edges (in input order) that cross,
// using an R-tree over the edge bounding boxes as the broad phase.
func FindCrossing(edges []geo.Segment) (Crossing, bool) {
	var tr rtree.RTreeG[int]
	for i, e := range edges {
		min, max := e.Bounds()
		tr.Insert(min, max, i)
	}

	for i, e := range edges {
		min, max := e.Bounds()
		// The rtree visits candidates in its own order; keep the lowest index
		// so the reported pair is stable.
		best := -1
		tr.Search(min, max, func(_, _ [2]float64, j int) bool {
			if j > i && (best == -1 || j < best) && e.Crosses(edges[j]) {
				best = j
			}
			return true
		})
		if best >= 0 {
			return Crossing{A: e, B: edges[best]}, true
		}
	}
	return Crossing{}, false
}

// SelfIntersects reports whether any two edges of g cross.
func SelfIntersects(g *Graph) bool {
	_, found := FindCrossing(g.Edges())
	return found
}

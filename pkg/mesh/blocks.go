package mesh

import (
	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// extractBlocks decomposes the full network into its minimal cycles. A
// cycle that is not a simple polygon is an invariant violation.
func extractBlocks(g *graph.Graph) (blocks, filaments [][]geo.Point) {
	prims := graph.MinimalCycleBasis(g)
	for _, b := range prims.Cycles {
		validateBlock(b)
	}
	return prims.Cycles, prims.Filaments
}

func validateBlock(b []geo.Point) {
	if len(b) < 3 {
		fail("extract blocks", "block has fewer than 3 vertices", geo.Seg(b[0], b[len(b)-1]), geo.Segment{})
	}
	seen := make(map[geo.Point]bool, len(b))
	edges := make([]geo.Segment, len(b))
	for i, p := range b {
		if seen[p] {
			fail("extract blocks", "block repeats a vertex", geo.Seg(p, b[(i+1)%len(b)]), geo.Segment{})
		}
		seen[p] = true
		edges[i] = geo.Seg(p, b[(i+1)%len(b)])
	}
	if c, ok := graph.FindCrossing(edges); ok {
		fail("extract blocks", "block self-intersects", c.A, c.B)
	}
}

package graph

import (
	"fmt"

	"github.com/paulmach/osm"

	"road_mesh/pkg/geo"
	osmparser "road_mesh/pkg/osm"
)

// BuildStats counts the input edges that Build dropped.
type BuildStats struct {
	Degenerate int // zero-length edges
	Duplicate  int // edges already present in either direction
}

// IndexError reports an edge referencing a point index out of range.
type IndexError struct {
	Edge      int
	Pair      [2]int
	NumPoints int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("edge %d references point %v, only %d points", e.Edge, e.Pair, e.NumPoints)
}

// Build creates a planar graph from a skeleton edge list.
func Build(edges []geo.Segment) (*Graph, BuildStats) {
	g := New()
	var stats BuildStats
	for _, e := range edges {
		if e.Start == e.End {
			stats.Degenerate++
			continue
		}
		if !g.AddEdge(e) {
			stats.Duplicate++
		}
	}
	return g, stats
}

// BuildFromIndexed creates a planar graph from a point list and index pairs,
// the shape skeleton files and API requests use.
func BuildFromIndexed(points []geo.Point, pairs [][2]int) (*Graph, BuildStats, error) {
	edges := make([]geo.Segment, 0, len(pairs))
	for i, pr := range pairs {
		if pr[0] < 0 || pr[0] >= len(points) || pr[1] < 0 || pr[1] >= len(points) {
			return nil, BuildStats{}, &IndexError{Edge: i, Pair: pr, NumPoints: len(points)}
		}
		edges = append(edges, geo.Seg(points[pr[0]], points[pr[1]]))
	}
	g, stats := Build(edges)
	for _, p := range points {
		g.AddVertex(p)
	}
	return g, stats, nil
}

// BuildFromOSM creates a planar graph from parsed OSM ways, projecting
// lat/lon to meters around the centre of the referenced nodes.
func BuildFromOSM(result *osmparser.ParseResult) (*Graph, geo.Projection) {
	edges := result.Edges
	if len(edges) == 0 {
		return New(), geo.Projection{}
	}

	// Centre of the bounding box of all referenced nodes, in edge order so
	// the projection never depends on map iteration.
	minLat, maxLat := result.NodeLat[edges[0].FromNodeID], result.NodeLat[edges[0].FromNodeID]
	minLon, maxLon := result.NodeLon[edges[0].FromNodeID], result.NodeLon[edges[0].FromNodeID]
	for _, e := range edges {
		for _, id := range [2]osm.NodeID{e.FromNodeID, e.ToNodeID} {
			lat, lon := result.NodeLat[id], result.NodeLon[id]
			minLat, maxLat = min(minLat, lat), max(maxLat, lat)
			minLon, maxLon = min(minLon, lon), max(maxLon, lon)
		}
	}
	proj := geo.NewProjection((minLat+maxLat)/2, (minLon+maxLon)/2)

	pos := func(id osm.NodeID) geo.Point {
		return proj.Forward(result.NodeLat[id], result.NodeLon[id])
	}

	segs := make([]geo.Segment, 0, len(edges))
	for _, e := range edges {
		segs = append(segs, geo.Seg(pos(e.FromNodeID), pos(e.ToNodeID)))
	}
	g, _ := Build(segs)
	return g, proj
}

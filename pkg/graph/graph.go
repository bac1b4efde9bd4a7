package graph

import (
	"road_mesh/pkg/geo"
)

// Graph is a mutable planar graph: a set of vertices plus a set of straight
// edges whose endpoints are vertices. Vertices and edges are kept in
// insertion order so every traversal is deterministic.
type Graph struct {
	vertices []geo.Point
	vertIdx  map[geo.Point]int
	adj      map[geo.Point][]geo.Point

	edges   []geo.Segment       // as inserted (direction preserved)
	edgeIdx map[geo.Segment]int // canonical key -> index into edges
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertIdx: make(map[geo.Point]int),
		adj:     make(map[geo.Point][]geo.Point),
		edgeIdx: make(map[geo.Segment]int),
	}
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Vertices returns the vertices in insertion order. The slice must not be
// modified by the caller.
func (g *Graph) Vertices() []geo.Point { return g.vertices }

// Edges returns the edges in insertion order. The slice must not be
// modified by the caller.
func (g *Graph) Edges() []geo.Segment { return g.edges }

// HasVertex reports whether p is a vertex of g.
func (g *Graph) HasVertex(p geo.Point) bool {
	_, ok := g.vertIdx[p]
	return ok
}

// HasEdge reports whether g contains s, in either direction.
func (g *Graph) HasEdge(s geo.Segment) bool {
	_, ok := g.edgeIdx[s.Key()]
	return ok
}

// Edge returns the stored (directed) version of s.
func (g *Graph) Edge(s geo.Segment) (geo.Segment, bool) {
	i, ok := g.edgeIdx[s.Key()]
	if !ok {
		return geo.Segment{}, false
	}
	return g.edges[i], true
}

// Degree returns the number of edges incident to p.
func (g *Graph) Degree(p geo.Point) int { return len(g.adj[p]) }

// Neighbors returns the vertices adjacent to p in insertion order. The slice
// must not be modified by the caller.
func (g *Graph) Neighbors(p geo.Point) []geo.Point { return g.adj[p] }

// EdgesOf returns the edges incident to p, oriented away from p.
func (g *Graph) EdgesOf(p geo.Point) []geo.Segment {
	out := make([]geo.Segment, 0, len(g.adj[p]))
	for _, q := range g.adj[p] {
		out = append(out, geo.Seg(p, q))
	}
	return out
}

// AddVertex adds p if it is not present. Returns true if it was added.
func (g *Graph) AddVertex(p geo.Point) bool {
	if _, ok := g.vertIdx[p]; ok {
		return false
	}
	g.vertIdx[p] = len(g.vertices)
	g.vertices = append(g.vertices, p)
	return true
}

// AddEdge adds s and its endpoints. Degenerate edges and duplicates are
// ignored. Returns true if the edge was added.
func (g *Graph) AddEdge(s geo.Segment) bool {
	if s.Start == s.End {
		return false
	}
	key := s.Key()
	if _, ok := g.edgeIdx[key]; ok {
		return false
	}
	g.AddVertex(s.Start)
	g.AddVertex(s.End)
	g.edgeIdx[key] = len(g.edges)
	g.edges = append(g.edges, s)
	g.adj[s.Start] = append(g.adj[s.Start], s.End)
	g.adj[s.End] = append(g.adj[s.End], s.Start)
	return true
}

// RemoveEdge removes s (either direction). Endpoints stay as vertices.
func (g *Graph) RemoveEdge(s geo.Segment) bool {
	key := s.Key()
	i, ok := g.edgeIdx[key]
	if !ok {
		return false
	}
	last := len(g.edges) - 1
	if i != last {
		moved := g.edges[last]
		g.edges[i] = moved
		g.edgeIdx[moved.Key()] = i
	}
	g.edges = g.edges[:last]
	delete(g.edgeIdx, key)
	g.adj[s.Start] = removePoint(g.adj[s.Start], s.End)
	g.adj[s.End] = removePoint(g.adj[s.End], s.Start)
	return true
}

// RemoveVertex removes p together with its incident edges.
func (g *Graph) RemoveVertex(p geo.Point) bool {
	i, ok := g.vertIdx[p]
	if !ok {
		return false
	}
	for len(g.adj[p]) > 0 {
		g.RemoveEdge(geo.Seg(p, g.adj[p][0]))
	}
	// Shift rather than swap so the remaining vertices keep their order.
	copy(g.vertices[i:], g.vertices[i+1:])
	g.vertices = g.vertices[:len(g.vertices)-1]
	for j := i; j < len(g.vertices); j++ {
		g.vertIdx[g.vertices[j]] = j
	}
	delete(g.vertIdx, p)
	delete(g.adj, p)
	return true
}

// SplitEdge replaces s with two edges meeting at p. Splitting at one of the
// endpoints is a no-op. The halves keep the direction of the stored edge,
// so the first returned half contains the stored Start.
func (g *Graph) SplitEdge(s geo.Segment, p geo.Point) (geo.Segment, geo.Segment, bool) {
	stored, ok := g.Edge(s)
	if !ok || stored.HasEndpoint(p) {
		return stored, geo.Segment{}, false
	}
	g.RemoveEdge(stored)
	a := geo.Seg(stored.Start, p)
	b := geo.Seg(p, stored.End)
	g.AddEdge(a)
	g.AddEdge(b)
	return a, b, true
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, v := range g.vertices {
		c.AddVertex(v)
	}
	for _, e := range g.edges {
		c.AddEdge(e)
	}
	return c
}

func removePoint(pts []geo.Point, p geo.Point) []geo.Point {
	for i, q := range pts {
		if q == p {
			copy(pts[i:], pts[i+1:])
			return pts[:len(pts)-1]
		}
	}
	return pts
}

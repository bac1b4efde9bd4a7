package routing

import (
	"context"
	"errors"
	"math"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// ErrNoRoute is returned when no route exists between the two points.
var ErrNoRoute = errors.New("no route found")

// RouteResult is the output of a route query.
type RouteResult struct {
	Distance float64
	// Path runs from the snapped start through mesh vertices to the
	// snapped end.
	Path      []geo.Point
	StartSnap SnapResult
	EndSnap   SnapResult
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, start, end geo.Point) (*RouteResult, error)
}

// Engine implements Router with Dijkstra over a mesh graph. Edges are
// undirected and weighted by length.
type Engine struct {
	verts    []geo.Point
	edges    []geo.Segment
	firstOut []uint32 // CSR offsets, len(verts)+1
	head     []uint32
	weight   []float64
	snapper  *Snapper
}

// NewEngine builds the adjacency arrays and the snap index for g. g must
// not change afterwards.
func NewEngine(g *graph.Graph, maxSnapDist float64) *Engine {
	verts := g.Vertices()
	edges := g.Edges()
	ids := vertexIDs(g)

	firstOut := make([]uint32, len(verts)+1)
	for _, e := range edges {
		firstOut[ids[e.Start]+1]++
		firstOut[ids[e.End]+1]++
	}
	for i := 1; i < len(firstOut); i++ {
		firstOut[i] += firstOut[i-1]
	}

	head := make([]uint32, 2*len(edges))
	weight := make([]float64, 2*len(edges))
	fill := append([]uint32(nil), firstOut[:len(verts)]...)
	for _, e := range edges {
		u, v := ids[e.Start], ids[e.End]
		l := e.Length()
		head[fill[u]], weight[fill[u]] = v, l
		fill[u]++
		head[fill[v]], weight[fill[v]] = u, l
		fill[v]++
	}

	return &Engine{
		verts:    verts,
		edges:    edges,
		firstOut: firstOut,
		head:     head,
		weight:   weight,
		snapper:  NewSnapper(g, maxSnapDist),
	}
}

// NumNodes returns the number of mesh vertices.
func (e *Engine) NumNodes() int { return len(e.verts) }

// Route computes the shortest path between two points.
func (e *Engine) Route(ctx context.Context, start, end geo.Point) (*RouteResult, error) {
	// Step 1: Snap points to nearest mesh edges.
	startSnap, err := e.snapper.Snap(start)
	if err != nil {
		return nil, err
	}
	endSnap, err := e.snapper.Snap(end)
	if err != nil {
		return nil, err
	}

	// Both points on the same edge: walking along it is a candidate.
	best := math.Inf(1)
	direct := false
	if startSnap.EdgeIdx == endSnap.EdgeIdx {
		best = math.Abs(startSnap.Ratio-endSnap.Ratio) * e.edges[startSnap.EdgeIdx].Length()
		direct = true
	}

	// Step 2: Dijkstra seeded with both ends of the start edge.
	qs := NewQueryState(uint32(len(e.verts)))
	defer qs.Reset()
	l := e.edges[startSnap.EdgeIdx].Length()
	qs.relax(startSnap.NodeU, noNode, startSnap.Ratio*l)
	qs.relax(startSnap.NodeV, noNode, (1-startSnap.Ratio)*l)

	endLen := e.edges[endSnap.EdgeIdx].Length()
	toU, toV := endSnap.Ratio*endLen, (1-endSnap.Ratio)*endLen

	last := noNode
	iterations := 0
	for qs.PQ.Len() > 0 && qs.PQ.PeekDist() < best {
		// Check context cancellation periodically.
		iterations++
		if iterations%100 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		item := qs.PQ.Pop()
		u, d := item.Node, item.Dist
		if d > qs.Dist[u] {
			continue // stale entry
		}

		if u == endSnap.NodeU && d+toU < best {
			best, last, direct = d+toU, u, false
		}
		if u == endSnap.NodeV && d+toV < best {
			best, last, direct = d+toV, u, false
		}

		for ei := e.firstOut[u]; ei < e.firstOut[u+1]; ei++ {
			qs.relax(e.head[ei], u, d+e.weight[ei])
		}
	}

	if math.IsInf(best, 1) {
		return nil, ErrNoRoute
	}

	// Step 3: Reconstruct the vertex path.
	path := []geo.Point{startSnap.Point}
	if !direct {
		var nodes []uint32
		for n := last; n != noNode; n = qs.Pred[n] {
			nodes = append(nodes, n)
		}
		for i := len(nodes) - 1; i >= 0; i-- {
			path = appendPoint(path, e.verts[nodes[i]])
		}
	}
	path = appendPoint(path, endSnap.Point)

	return &RouteResult{
		Distance:  best,
		Path:      path,
		StartSnap: startSnap,
		EndSnap:   endSnap,
	}, nil
}

// appendPoint appends p unless it repeats the last point.
func appendPoint(path []geo.Point, p geo.Point) []geo.Point {
	if len(path) > 0 && path[len(path)-1] == p {
		return path
	}
	return append(path, p)
}

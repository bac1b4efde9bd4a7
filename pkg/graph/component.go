package graph

import "road_mesh/pkg/geo"

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the size of the set containing x.
func (uf *UnionFind) Size(x uint32) uint32 {
	return uf.size[uf.Find(x)]
}

// componentsOf unions every edge of g over vertex insertion indices.
func componentsOf(g *Graph) *UnionFind {
	uf := NewUnionFind(uint32(g.NumVertices()))
	for _, e := range g.edges {
		uf.Union(uint32(g.vertIdx[e.Start]), uint32(g.vertIdx[e.End]))
	}
	return uf
}

// NumComponents returns the number of connected components of g, counting
// isolated vertices.
func NumComponents(g *Graph) int {
	uf := componentsOf(g)
	n := 0
	for i := uint32(0); i < uint32(g.NumVertices()); i++ {
		if uf.Find(i) == i {
			n++
		}
	}
	return n
}

// Connected reports whether a and b are vertices of the same component.
func Connected(g *Graph, a, b geo.Point) bool {
	ia, okA := g.vertIdx[a]
	ib, okB := g.vertIdx[b]
	if !okA || !okB {
		return false
	}
	uf := componentsOf(g)
	return uf.Find(uint32(ia)) == uf.Find(uint32(ib))
}

// LargestComponent returns the vertices belonging to the largest connected
// component, in insertion order. Ties go to the component seen first.
func LargestComponent(g *Graph) []geo.Point {
	if g.NumVertices() == 0 {
		return nil
	}

	uf := componentsOf(g)

	bestRoot := uf.Find(0)
	bestSize := uint32(0)
	for i := uint32(0); i < uint32(g.NumVertices()); i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]geo.Point, 0, bestSize)
	for i, v := range g.vertices {
		if uf.Find(uint32(i)) == bestRoot {
			nodes = append(nodes, v)
		}
	}
	return nodes
}

// FilterToComponent creates a new graph containing only the specified
// vertices and the edges between them.
func FilterToComponent(g *Graph, nodes []geo.Point) *Graph {
	out := New()
	if len(nodes) == 0 {
		return out
	}
	keep := make(map[geo.Point]struct{}, len(nodes))
	for _, v := range nodes {
		keep[v] = struct{}{}
		out.AddVertex(v)
	}
	for _, e := range g.edges {
		_, okA := keep[e.Start]
		_, okB := keep[e.End]
		if okA && okB {
			out.AddEdge(e)
		}
	}
	return out
}

package graph

import (
	"sort"

	"road_mesh/pkg/geo"
)

// Primitives is the decomposition of a planar graph into minimal cycles and
// filaments.
type Primitives struct {
	// Cycles are the minimal cycles, each rotated to start at its
	// lexicographically smallest vertex, sorted by that vertex. The
	// closing edge from the last vertex back to the first is implicit.
	Cycles [][]geo.Point
	// Filaments are the paths of edges that belong to no minimal cycle.
	Filaments [][]geo.Point
}

// MinimalCycleBasis extracts the minimal cycles and filaments of g.
//
// It repeatedly takes the leftmost remaining vertex and walks the boundary
// of the face incident to it, choosing the clockwise-most edge first and
// the counter-clockwise-most edge afterwards. A walk that closes on its
// start vertex is a minimal cycle; its first edge is then removed so the
// remaining cycle edges fall away as filaments that are not reported.
// g itself is not modified.
func MinimalCycleBasis(g *Graph) Primitives {
	x := &extractor{
		g:          g.Clone(),
		cycleEdges: make(map[geo.Segment]bool),
	}

	order := make([]geo.Point, len(x.g.vertices))
	copy(order, x.g.vertices)
	sort.Slice(order, func(i, j int) bool { return order[i].Less(order[j]) })

	for _, v0 := range order {
		// Vertices only ever disappear, so the leftmost remaining vertex is
		// the next one in sorted order that still exists.
		for x.g.HasVertex(v0) {
			switch x.g.Degree(v0) {
			case 0:
				x.g.RemoveVertex(v0)
			case 1:
				x.extractFilament(v0, x.g.Neighbors(v0)[0])
			default:
				x.extractPrimitive(v0)
			}
		}
	}

	for i, c := range x.out.Cycles {
		x.out.Cycles[i] = rotateToMin(c)
	}
	sort.SliceStable(x.out.Cycles, func(i, j int) bool {
		a, b := x.out.Cycles[i], x.out.Cycles[j]
		if a[0] != b[0] {
			return a[0].Less(b[0])
		}
		return a[1].Less(b[1])
	})
	return x.out
}

type extractor struct {
	g          *Graph
	cycleEdges map[geo.Segment]bool
	out        Primitives
}

func (x *extractor) extractPrimitive(v0 geo.Point) {
	visited := make(map[geo.Point]bool)
	sequence := []geo.Point{v0}

	v1, _ := x.clockwiseMost(geo.Point{}, false, v0)
	vprev, vcurr, ok := v0, v1, true

	for ok && vcurr != v0 && !visited[vcurr] {
		sequence = append(sequence, vcurr)
		visited[vcurr] = true
		var vnext geo.Point
		vnext, ok = x.counterclockwiseMost(vprev, vcurr)
		vprev, vcurr = vcurr, vnext
	}

	switch {
	case !ok:
		// Dead end reached: vprev is the tip of a filament.
		x.extractFilament(vprev, x.g.Neighbors(vprev)[0])

	case vcurr == v0:
		x.out.Cycles = append(x.out.Cycles, sequence)
		for i := range sequence {
			next := sequence[(i+1)%len(sequence)]
			x.cycleEdges[geo.Seg(sequence[i], next).Key()] = true
		}
		x.g.RemoveEdge(geo.Seg(v0, v1))
		if x.g.Degree(v0) == 1 {
			x.extractFilament(v0, x.g.Neighbors(v0)[0])
		}
		if x.g.HasVertex(v1) && x.g.Degree(v1) == 1 {
			x.extractFilament(v1, x.g.Neighbors(v1)[0])
		}

	default:
		// The walk closed on a vertex other than v0: v0 sits on a filament
		// attached to a cycle. Walk to the filament's attachment point.
		for x.g.Degree(v0) == 2 {
			n := x.g.Neighbors(v0)
			if n[0] != v1 {
				v1, v0 = v0, n[0]
			} else {
				v1, v0 = v0, n[1]
			}
		}
		x.extractFilament(v0, v1)
	}
}

func (x *extractor) extractFilament(v0, v1 geo.Point) {
	if x.cycleEdges[geo.Seg(v0, v1).Key()] {
		if x.g.Degree(v0) >= 3 {
			x.g.RemoveEdge(geo.Seg(v0, v1))
			v0 = v1
			if x.g.Degree(v0) == 1 {
				v1 = x.g.Neighbors(v0)[0]
			}
		}
		for x.g.Degree(v0) == 1 {
			v1 = x.g.Neighbors(v0)[0]
			if !x.cycleEdges[geo.Seg(v0, v1).Key()] {
				break
			}
			x.g.RemoveVertex(v0)
			v0 = v1
		}
		if x.g.HasVertex(v0) && x.g.Degree(v0) == 0 {
			x.g.RemoveVertex(v0)
		}
		return
	}

	var filament []geo.Point
	if x.g.Degree(v0) >= 3 {
		filament = append(filament, v0)
		x.g.RemoveEdge(geo.Seg(v0, v1))
		v0 = v1
	}
	for x.g.Degree(v0) == 1 {
		filament = append(filament, v0)
		v1 = x.g.Neighbors(v0)[0]
		x.g.RemoveVertex(v0)
		v0 = v1
	}
	filament = append(filament, v0)
	if x.g.HasVertex(v0) && x.g.Degree(v0) == 0 {
		x.g.RemoveVertex(v0)
	}
	x.out.Filaments = append(x.out.Filaments, filament)
}

// clockwiseMost picks the neighbor of vcurr reached by the sharpest
// clockwise turn coming from vprev. Without a predecessor the incoming
// direction is straight down, which is correct for the leftmost vertex.
func (x *extractor) clockwiseMost(vprev geo.Point, hasPrev bool, vcurr geo.Point) (geo.Point, bool) {
	return x.turnMost(vprev, hasPrev, vcurr, true)
}

// counterclockwiseMost picks the neighbor of vcurr reached by the sharpest
// counter-clockwise turn coming from vprev.
func (x *extractor) counterclockwiseMost(vprev, vcurr geo.Point) (geo.Point, bool) {
	return x.turnMost(vprev, true, vcurr, false)
}

func (x *extractor) turnMost(vprev geo.Point, hasPrev bool, vcurr geo.Point, clockwise bool) (geo.Point, bool) {
	dcurr := geo.Pt(0, -1)
	if hasPrev {
		dcurr = vcurr.Sub(vprev)
	}

	var (
		vnext  geo.Point
		dnext  geo.Point
		found  bool
		convex bool
	)
	for _, vadj := range x.g.Neighbors(vcurr) {
		if hasPrev && vadj == vprev {
			continue
		}
		dadj := vadj.Sub(vcurr)
		if !found {
			vnext, dnext, found = vadj, dadj, true
			convex = dnext.Cross(dcurr) <= 0
			continue
		}
		a := dcurr.Cross(dadj)
		b := dnext.Cross(dadj)
		var take bool
		switch {
		case clockwise && convex:
			take = a < 0 || b < 0
		case clockwise:
			take = a < 0 && b < 0
		case convex:
			take = a > 0 && b > 0
		default:
			take = a > 0 || b > 0
		}
		if take {
			vnext, dnext = vadj, dadj
			convex = dnext.Cross(dcurr) <= 0
		}
	}
	return vnext, found
}

func rotateToMin(c []geo.Point) []geo.Point {
	best := 0
	for i, p := range c {
		if p.Less(c[best]) {
			best = i
		}
	}
	out := make([]geo.Point, 0, len(c))
	out = append(out, c[best:]...)
	out = append(out, c[:best]...)
	return out
}

package mesh

import (
	"road_mesh/pkg/geo"
)

// SnapKind is the way a candidate segment terminates.
type SnapKind int

const (
	// NoSnap places a brand-new point; growth continues from it.
	NoSnap SnapKind = iota
	// NodeSnap ends on an existing vertex.
	NodeSnap
	// EdgeSnap ends on an existing edge, which is split at the target.
	EdgeSnap
	// Blocked abandons the branch.
	Blocked
)

func (k SnapKind) String() string {
	switch k {
	case NoSnap:
		return "none"
	case NodeSnap:
		return "node"
	case EdgeSnap:
		return "edge"
	case Blocked:
		return "blocked"
	}
	return "unknown"
}

// SnapOutcome is the resolved end of a candidate segment.
type SnapOutcome struct {
	Kind   SnapKind
	Target geo.Point
	Edge   geo.Segment // edge to split, EdgeSnap only
}

// Terminal reports whether growth stops after this outcome.
func (o SnapOutcome) Terminal() bool { return o.Kind != NoSnap }

// snapper resolves candidate segments against one network.
type snapper struct {
	net    *Network
	radius float64
}

// snap resolves the candidate segment from source to target. Directions
// toward node-snap candidates must lie in sector.
func (s *snapper) snap(source, target geo.Point, sector geo.Sector) SnapOutcome {
	cand := geo.Seg(source, target)
	if cand.Degenerate() {
		return SnapOutcome{Kind: Blocked}
	}
	g := s.net.Graph()

	if g.HasVertex(target) {
		if g.HasEdge(cand) {
			return SnapOutcome{Kind: Blocked}
		}
		return s.validate(source, SnapOutcome{Kind: NodeSnap, Target: target}, nil)
	}

	edges := s.net.Candidates(cand, s.radius)

	node, nodeR, nodeOK := s.nodeSearch(source, cand, sector, edges)
	hit, hitR, hitOK := s.intersectionSearch(source, cand, edges)

	switch {
	case hitOK && (!nodeOK || hitR < nodeR-geo.Epsilon):
		return s.validate(source, s.resolveHit(source, hit, edges), edges)
	case nodeOK:
		return s.validate(source, SnapOutcome{Kind: NodeSnap, Target: node}, edges)
	}

	if out, ok := s.proximitySearch(source, target, edges); ok {
		return s.validate(source, out, edges)
	}
	return s.validate(source, SnapOutcome{Kind: NoSnap, Target: target}, edges)
}

// nodeSearch finds the vertex nearest to source, measured along cand,
// that lies within radius of cand and can be reached without crossing.
func (s *snapper) nodeSearch(source geo.Point, cand geo.Segment, sector geo.Sector, edges []geo.Segment) (geo.Point, float64, bool) {
	g := s.net.Graph()
	var (
		best  geo.Point
		bestR float64
		found bool
	)
	seen := make(map[geo.Point]bool)
	for _, e := range edges {
		for _, v := range [2]geo.Point{e.Start, e.End} {
			if seen[v] {
				continue
			}
			seen[v] = true
			if v == source || g.HasEdge(geo.Seg(source, v)) {
				continue
			}
			r := cand.ProjectionRatio(v)
			if r <= geo.Epsilon || r > 1+geo.Epsilon {
				continue
			}
			if cand.DistanceToLine(v) > s.radius {
				continue
			}
			if found && r >= bestR {
				continue
			}
			if !sector.ContainsVector(v.Sub(source)) {
				continue
			}
			if crossesAny(geo.Seg(source, v), edges, geo.Segment{}) {
				continue
			}
			best, bestR, found = v, r, true
		}
	}
	return best, bestR, found
}

type hit struct {
	point geo.Point
	edge  geo.Segment
}

// intersectionSearch finds the first edge cand runs into.
func (s *snapper) intersectionSearch(source geo.Point, cand geo.Segment, edges []geo.Segment) (hit, float64, bool) {
	var (
		best  hit
		bestR float64
		found bool
	)
	for _, e := range edges {
		if e.HasEndpoint(source) {
			continue
		}
		if cand.StrictlySameSide(e) || e.StrictlySameSide(cand) {
			continue
		}
		p, r, _, ok := cand.Intersection(e)
		if !ok || (found && r >= bestR) {
			continue
		}
		best, bestR, found = hit{point: p, edge: e}, r, true
	}
	return best, bestR, found
}

// resolveHit turns an intersection into a node snap when it lands close to
// an end of the hit edge, and into an edge snap otherwise.
func (s *snapper) resolveHit(source geo.Point, h hit, edges []geo.Segment) SnapOutcome {
	e := h.edge
	end := e.Start
	if h.point.DistanceSq(e.End) < h.point.DistanceSq(e.Start) {
		end = e.End
	}
	if h.point.Near(end) {
		if end == source || s.net.Graph().HasEdge(geo.Seg(source, end)) {
			return SnapOutcome{Kind: Blocked}
		}
		return SnapOutcome{Kind: NodeSnap, Target: end}
	}
	if h.point.Distance(end) <= s.radius && end != source &&
		!s.net.Graph().HasEdge(geo.Seg(source, end)) &&
		!crossesAny(geo.Seg(source, end), edges, geo.Segment{}) {
		return SnapOutcome{Kind: NodeSnap, Target: end}
	}
	return SnapOutcome{Kind: EdgeSnap, Target: h.point, Edge: e}
}

// proximitySearch finds the edge closest to target within radius. When
// the closest point is an end of that edge the result is a node snap.
func (s *snapper) proximitySearch(source, target geo.Point, edges []geo.Segment) (SnapOutcome, bool) {
	var (
		best  SnapOutcome
		bestD float64
		found bool
	)
	for _, e := range edges {
		if e.HasEndpoint(source) || e.DistanceToLine(source) <= geo.Epsilon {
			continue
		}
		d, r := e.PointToSegmentDist(target)
		if d > s.radius || (found && d >= bestD) {
			continue
		}
		p := e.PointAt(r)
		var out SnapOutcome
		switch {
		case p.Near(e.Start):
			out = SnapOutcome{Kind: NodeSnap, Target: e.Start}
		case p.Near(e.End):
			out = SnapOutcome{Kind: NodeSnap, Target: e.End}
		default:
			out = SnapOutcome{Kind: EdgeSnap, Target: p, Edge: e}
		}
		if out.Kind == NodeSnap && s.net.Graph().HasEdge(geo.Seg(source, out.Target)) {
			continue
		}
		best, bestD, found = out, d, true
	}
	return best, found
}

// validate blocks an outcome whose final segment would touch an edge other
// than at its own endpoints, or that would duplicate an existing edge.
func (s *snapper) validate(source geo.Point, out SnapOutcome, edges []geo.Segment) SnapOutcome {
	if out.Kind == Blocked {
		return out
	}
	final := geo.Seg(source, out.Target)
	if final.Degenerate() || s.net.Graph().HasEdge(final) {
		return SnapOutcome{Kind: Blocked}
	}
	if edges == nil {
		edges = s.net.Candidates(final, 0)
	}
	if out.Kind == EdgeSnap && out.Edge.DistanceToLine(source) <= geo.Epsilon {
		return SnapOutcome{Kind: Blocked}
	}
	if crossesAny(final, edges, out.Edge) {
		return SnapOutcome{Kind: Blocked}
	}
	return out
}

// crossesAny reports whether s crosses any of edges other than skip.
func crossesAny(s geo.Segment, edges []geo.Segment, skip geo.Segment) bool {
	for _, e := range edges {
		if e == skip {
			continue
		}
		if s.Crosses(e) {
			return true
		}
	}
	return false
}

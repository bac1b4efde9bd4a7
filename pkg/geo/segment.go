package geo

import (
	"fmt"
	"math"
)

// Segment is a straight edge between two distinct points. Direction matters
// for orientation queries, but equality in graphs goes through Key.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Seg is a shorthand constructor for Segment.
func Seg(a, b Point) Segment {
	return Segment{Start: a, End: b}
}

// Key returns the canonical form of s: the same value for (a,b) and (b,a).
func (s Segment) Key() Segment {
	if s.End.Less(s.Start) {
		return Segment{Start: s.End, End: s.Start}
	}
	return s
}

// Reversed returns s with its endpoints swapped.
func (s Segment) Reversed() Segment {
	return Segment{Start: s.End, End: s.Start}
}

// Degenerate reports whether the endpoints coincide.
func (s Segment) Degenerate() bool {
	return s.Start.Near(s.End)
}

// Length returns the Euclidean length of s.
func (s Segment) Length() float64 { return s.Start.Distance(s.End) }

// Angle returns the direction angle from Start to End.
func (s Segment) Angle() float64 { return s.Start.AngleTo(s.End) }

// Vector returns End - Start.
func (s Segment) Vector() Point { return s.End.Sub(s.Start) }

// Midpoint returns the middle of s.
func (s Segment) Midpoint() Point { return s.Start.Lerp(s.End, 0.5) }

// HasEndpoint reports whether p is exactly one of the endpoints of s.
func (s Segment) HasEndpoint(p Point) bool {
	return s.Start == p || s.End == p
}

// SharesEndpoint reports whether s and o have an endpoint in common.
func (s Segment) SharesEndpoint(o Segment) bool {
	return s.HasEndpoint(o.Start) || s.HasEndpoint(o.End)
}

// Bounds returns the axis-aligned bounding box of s.
func (s Segment) Bounds() (min, max [2]float64) {
	min = [2]float64{math.Min(s.Start.X, s.End.X), math.Min(s.Start.Y, s.End.Y)}
	max = [2]float64{math.Max(s.Start.X, s.End.X), math.Max(s.Start.Y, s.End.Y)}
	return min, max
}

// ProjectionRatio returns the parametric position r of p projected onto the
// infinite line through s: 0 at Start, 1 at End. It is not clamped.
func (s Segment) ProjectionRatio(p Point) float64 {
	d := s.Vector()
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return 0
	}
	return p.Sub(s.Start).Dot(d) / lenSq
}

// PointAt returns the point at parametric position r along s.
func (s Segment) PointAt(r float64) Point {
	return s.Start.Lerp(s.End, r)
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through s.
func (s Segment) DistanceToLine(p Point) float64 {
	d := s.Vector()
	l := d.Length()
	if l == 0 {
		return p.Distance(s.Start)
	}
	return math.Abs(d.Cross(p.Sub(s.Start))) / l
}

// PointToSegmentDist computes the distance from p to the closest point of s
// and returns the projection ratio clamped to [0,1].
func (s Segment) PointToSegmentDist(p Point) (dist float64, ratio float64) {
	if s.Start == s.End {
		return p.Distance(s.Start), 0
	}
	t := s.ProjectionRatio(p)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(s.PointAt(t)), t
}

// Side returns +1 if p is left of the directed line through s, -1 if right
// and 0 if p lies on it (within Epsilon).
func (s Segment) Side(p Point) int {
	c := s.Vector().Cross(p.Sub(s.Start))
	switch {
	case c > Epsilon:
		return 1
	case c < -Epsilon:
		return -1
	}
	return 0
}

// StrictlySameSide is the cheap rejection used before exact intersection:
// when both endpoints of o are strictly on one side of the line through s,
// the two segments cannot intersect.
func (s Segment) StrictlySameSide(o Segment) bool {
	a, b := s.Side(o.Start), s.Side(o.End)
	return a != 0 && a == b
}

// Intersection returns the intersection point of s and o when the two are
// not parallel and the point lies on both (parameters within [-Epsilon,
// 1+Epsilon]). r is the parameter along s, u the parameter along o.
func (s Segment) Intersection(o Segment) (p Point, r, u float64, ok bool) {
	d1 := s.Vector()
	d2 := o.Vector()
	denom := d1.Cross(d2)
	if math.Abs(denom) <= Epsilon*d1.Length()*d2.Length() {
		return Point{}, 0, 0, false
	}
	w := o.Start.Sub(s.Start)
	r = w.Cross(d2) / denom
	u = w.Cross(d1) / denom
	if r < -Epsilon || r > 1+Epsilon || u < -Epsilon || u > 1+Epsilon {
		return Point{}, r, u, false
	}
	return s.PointAt(r), r, u, true
}

// Crosses reports whether s and o touch anywhere other than at a shared
// endpoint. This is the planar-graph violation test: proper crossings,
// T-junctions and collinear overlaps all count.
func (s Segment) Crosses(o Segment) bool {
	if s.Key() == o.Key() {
		return false
	}
	if s.StrictlySameSide(o) || o.StrictlySameSide(s) {
		return false
	}
	if s.Side(o.Start) == 0 && s.Side(o.End) == 0 {
		return collinearOverlap(s, o)
	}
	if s.SharesEndpoint(o) {
		// Two non-collinear lines meet once, and here that is the shared endpoint.
		return false
	}
	_, _, _, ok := s.Intersection(o)
	return ok
}

// collinearOverlap reports whether two collinear segments share more than a
// single endpoint.
func collinearOverlap(s, o Segment) bool {
	r0 := s.ProjectionRatio(o.Start)
	r1 := s.ProjectionRatio(o.End)
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	lo := math.Max(0, r0)
	hi := math.Min(1, r1)
	return hi-lo > Epsilon
}

func (s Segment) String() string {
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}

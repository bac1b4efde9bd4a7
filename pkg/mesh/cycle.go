package mesh

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// OrientedCycle is one minimal loop of the skeleton. Its edges are stored in
// traversal order, so the stored direction of an edge together with the
// loop's winding tells whether that edge runs clockwise. Splits keep the
// stored direction on both halves, which keeps the flags consistent.
type OrientedCycle struct {
	g         *graph.Graph
	first     geo.Point
	clockwise bool
	area      float64
}

// NewOrientedCycle builds the cycle visiting vertices in order; the closing
// edge back to vertices[0] is implicit.
func NewOrientedCycle(vertices []geo.Point) *OrientedCycle {
	g := graph.New()
	for i, v := range vertices {
		g.AddEdge(geo.Seg(v, vertices[(i+1)%len(vertices)]))
	}
	a := signedArea(vertices)
	return &OrientedCycle{
		g:         g,
		first:     vertices[0],
		clockwise: a < 0,
		area:      math.Abs(a),
	}
}

// signedArea is the shoelace area: positive for counter-clockwise order.
func signedArea(ring []geo.Point) float64 {
	var s float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		s += p.Cross(q)
	}
	return s / 2
}

// Graph returns the loop's own graph.
func (c *OrientedCycle) Graph() *graph.Graph { return c.g }

// Area returns the enclosed area.
func (c *OrientedCycle) Area() float64 { return c.area }

// IsClockwise reports the winding of the traversal order.
func (c *OrientedCycle) IsClockwise() bool { return c.clockwise }

// Clockwise reports whether walking e from Start to End goes clockwise
// around the loop. e must be an edge of the loop.
func (c *OrientedCycle) Clockwise(e geo.Segment) bool {
	stored, ok := c.g.Edge(e)
	if !ok {
		return false
	}
	return (stored == e) == c.clockwise
}

// next and prev return the loop neighbours of v in traversal order.
func (c *OrientedCycle) next(v geo.Point) geo.Point {
	for _, n := range c.g.Neighbors(v) {
		if s, _ := c.g.Edge(geo.Seg(v, n)); s.Start == v {
			return n
		}
	}
	return v
}

func (c *OrientedCycle) prev(v geo.Point) geo.Point {
	for _, n := range c.g.Neighbors(v) {
		if s, _ := c.g.Edge(geo.Seg(v, n)); s.End == v {
			return n
		}
	}
	return v
}

// Ring returns the loop's vertices in traversal order, including points
// added by splits.
func (c *OrientedCycle) Ring() []geo.Point {
	ring := make([]geo.Point, 0, c.g.NumVertices())
	v := c.first
	for i := 0; i < c.g.NumVertices(); i++ {
		ring = append(ring, v)
		v = c.next(v)
		if v == c.first {
			break
		}
	}
	return ring
}

// Perimeter returns the total edge length.
func (c *OrientedCycle) Perimeter() float64 {
	var l float64
	for _, e := range c.g.Edges() {
		l += e.Length()
	}
	return l
}

// interiorSector is the angular range at loop vertex v that faces into
// the loop.
func (c *OrientedCycle) interiorSector(v geo.Point) geo.Sector {
	toNext := v.AngleTo(c.next(v))
	toPrev := v.AngleTo(c.prev(v))
	if c.clockwise {
		return geo.NewSector(toPrev, toNext)
	}
	return geo.NewSector(toNext, toPrev)
}

// InwardBisector returns the ray bisecting the interior angle at loop
// vertex v, and the sector a branch leaving v may grow into. With inward
// false both face out of the loop instead.
func (c *OrientedCycle) InwardBisector(v geo.Point, inward bool) (geo.Ray, geo.Sector) {
	in := c.interiorSector(v)
	if !inward {
		in = geo.Sector{From: geo.NormalizeAngle(in.From + in.Sweep), Sweep: 2*math.Pi - in.Sweep}
	}
	dir := geo.NormalizeAngle(in.From + in.Sweep/2)
	return geo.Ray{Start: v, Direction: dir}, in
}

// InwardNormal returns the ray perpendicular to loop edge e at p, and the
// half-plane sector on the same side. Interior lies left of an edge walked
// counter-clockwise; inward false flips the side.
func (c *OrientedCycle) InwardNormal(e geo.Segment, p geo.Point, inward bool) (geo.Ray, geo.Sector) {
	dir := e.Angle()
	if c.Clockwise(e) != inward {
		dir += math.Pi / 2
	} else {
		dir -= math.Pi / 2
	}
	dir = geo.NormalizeAngle(dir)
	return geo.Ray{Start: p, Direction: dir}, geo.NewSector(dir-math.Pi/2, dir+math.Pi/2)
}

// EdgeAt returns the loop edge whose interior contains p.
func (c *OrientedCycle) EdgeAt(p geo.Point) (geo.Segment, bool) {
	for _, e := range c.g.Edges() {
		d, r := e.PointToSegmentDist(p)
		if d < 1e-7 && r > 0 && r < 1 {
			return e, true
		}
	}
	return geo.Segment{}, false
}

// orbRing converts the loop to a closed orb ring.
func (c *OrientedCycle) orbRing() orb.Ring {
	ring := c.Ring()
	out := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		out = append(out, orb.Point{p.X, p.Y})
	}
	return append(out, out[0])
}

// Encloses reports whether o lies inside c: o is smaller and all of its
// vertices and edge midpoints are inside or on c.
func (c *OrientedCycle) Encloses(o *OrientedCycle) bool {
	if o.area >= c.area {
		return false
	}
	ring := c.orbRing()
	for _, e := range o.g.Edges() {
		for _, p := range [2]geo.Point{e.Start, e.Midpoint()} {
			if !planar.RingContains(ring, orb.Point{p.X, p.Y}) {
				return false
			}
		}
	}
	return true
}

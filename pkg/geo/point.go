package geo

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by every geometric comparison in the module.
const Epsilon = 1e-9

// Point is an immutable planar coordinate. Equality is by value, so Points
// are used directly as map keys.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z-component of the 3D cross product of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Length returns the Euclidean length of p seen as a vector.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance from p to q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// DistanceSq returns the squared distance from p to q.
func (p Point) DistanceSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Angle returns the angle of p seen as a vector, from the positive X axis.
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// AngleTo returns the direction angle from p towards q.
func (p Point) AngleTo(q Point) float64 { return q.Sub(p).Angle() }

// Lerp returns the linear interpolation between p and q at t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Moved returns p translated by length in the direction angle.
func (p Point) Moved(angle, length float64) Point {
	return Point{p.X + length*math.Cos(angle), p.Y + length*math.Sin(angle)}
}

// Near reports whether p and q are closer than Epsilon.
func (p Point) Near(q Point) bool {
	return p.DistanceSq(q) < Epsilon*Epsilon
}

// Less orders points lexicographically by X then Y. It is the stable order
// used whenever a processing order must not depend on map iteration.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// NormalizeAngle maps a to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the signed smallest rotation from a to b, in (-π, π].
func AngleDiff(a, b float64) float64 {
	d := NormalizeAngle(b - a)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// EquirectangularDist returns an approximate distance in meters.
// Accurate to well under 1% over city-sized extents.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// degToMeters converts degree-scaled equirectangular distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// Projection maps lat/lon onto a local planar frame in meters, centred on
// an origin. X grows east, Y grows north.
type Projection struct {
	OriginLat float64
	OriginLon float64
	cosLat    float64
}

// NewProjection creates an equirectangular projection around the origin.
func NewProjection(originLat, originLon float64) Projection {
	return Projection{
		OriginLat: originLat,
		OriginLon: originLon,
		cosLat:    math.Cos(originLat * math.Pi / 180),
	}
}

// Forward projects lat/lon to planar meters.
func (p Projection) Forward(lat, lon float64) Point {
	return Point{
		X: (lon - p.OriginLon) * p.cosLat * degToMeters,
		Y: (lat - p.OriginLat) * degToMeters,
	}
}

// Inverse maps planar meters back to lat/lon.
func (p Projection) Inverse(pt Point) (lat, lon float64) {
	lat = p.OriginLat + pt.Y/degToMeters
	if p.cosLat == 0 {
		return lat, p.OriginLon
	}
	lon = p.OriginLon + pt.X/(p.cosLat*degToMeters)
	return lat, lon
}

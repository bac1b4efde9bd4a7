package mesh

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"road_mesh/pkg/geo"
)

// FeatureCollection exports the result as GeoJSON in planar coordinates:
// one LineString per edge (kind "backbone" or "grown") and one Polygon per
// block.
func (r *Result) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range r.Graph.Edges() {
		f := geojson.NewFeature(orb.LineString{toOrb(e.Start), toOrb(e.End)})
		kind := "grown"
		if r.Backbone.HasEdge(e) {
			kind = "backbone"
		}
		f.Properties["kind"] = kind
		fc.Append(f)
	}
	for i, b := range r.Blocks {
		ring := make(orb.Ring, 0, len(b)+1)
		for _, p := range b {
			ring = append(ring, toOrb(p))
		}
		ring = append(ring, ring[0])
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["kind"] = "block"
		f.Properties["block"] = i
		f.Properties["area"] = planar.Area(ring)
		fc.Append(f)
	}
	return fc
}

func toOrb(p geo.Point) orb.Point { return orb.Point{p.X, p.Y} }

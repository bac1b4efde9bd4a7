package osm

import (
	"context"
	"strings"
	"testing"

	"github.com/paulmach/osm"
)

func TestIsSkeletonRoad(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{
			name: "residential road",
			tags: osm.Tags{{Key: "highway", Value: "residential"}},
			want: true,
		},
		{
			name: "primary",
			tags: osm.Tags{{Key: "highway", Value: "primary"}},
			want: true,
		},
		{
			name: "footway",
			tags: osm.Tags{{Key: "highway", Value: "footway"}},
			want: false,
		},
		{
			name: "service road",
			tags: osm.Tags{{Key: "highway", Value: "service"}},
			want: false,
		},
		{
			name: "area=yes (pedestrian plaza)",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "area", Value: "yes"},
			},
			want: false,
		},
		{
			name: "bridge",
			tags: osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "bridge", Value: "yes"},
			},
			want: false,
		},
		{
			name: "bridge=no",
			tags: osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "bridge", Value: "no"},
			},
			want: true,
		},
		{
			name: "tunnel",
			tags: osm.Tags{
				{Key: "highway", Value: "trunk"},
				{Key: "tunnel", Value: "culvert"},
			},
			want: false,
		},
		{
			name: "no highway tag",
			tags: osm.Tags{{Key: "name", Value: "Some Street"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isSkeletonRoad(tt.tags, majorHighways)
			if got != tt.want {
				t.Errorf("isSkeletonRoad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCustomHighways(t *testing.T) {
	hw := ParseOptions{Highways: []string{"service"}}.highways()
	if !isSkeletonRoad(osm.Tags{{Key: "highway", Value: "service"}}, hw) {
		t.Error("service should be kept with custom highways")
	}
	if isSkeletonRoad(osm.Tags{{Key: "highway", Value: "primary"}}, hw) {
		t.Error("primary should be dropped with custom highways")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"city.osm.pbf", FormatPBF},
		{"city.osm", FormatXML},
		{"export.xml", FormatXML},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBBox(t *testing.T) {
	var zero BBox
	if !zero.IsZero() {
		t.Error("zero bbox should report IsZero")
	}
	b := BBox{MinLat: 1, MaxLat: 2, MinLng: 103, MaxLng: 104}
	if b.IsZero() {
		t.Error("non-zero bbox reported IsZero")
	}
	if !b.Contains(1.5, 103.5) {
		t.Error("centre should be inside")
	}
	if !b.Contains(1, 103) {
		t.Error("corner should be inside")
	}
	if b.Contains(0.5, 103.5) {
		t.Error("point south of box should be outside")
	}
}

const squareXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
 <node id="1" lat="1.000" lon="103.000" version="1"/>
 <node id="2" lat="1.000" lon="103.001" version="1"/>
 <node id="3" lat="1.001" lon="103.001" version="1"/>
 <node id="4" lat="1.001" lon="103.000" version="1"/>
 <node id="5" lat="1.0005" lon="103.0005" version="1"/>
 <node id="6" lat="5.000" lon="110.000" version="1"/>
 <way id="10" version="1">
  <nd ref="1"/><nd ref="2"/><nd ref="3"/><nd ref="4"/><nd ref="1"/>
  <tag k="highway" v="primary"/>
 </way>
 <way id="11" version="1">
  <nd ref="2"/><nd ref="1"/>
  <tag k="highway" v="residential"/>
 </way>
 <way id="12" version="1">
  <nd ref="1"/><nd ref="5"/>
  <tag k="highway" v="footway"/>
 </way>
 <way id="13" version="1">
  <nd ref="3"/><nd ref="6"/>
  <tag k="highway" v="secondary"/>
 </way>
</osm>`

func TestParseXML(t *testing.T) {
	res, err := Parse(context.Background(), strings.NewReader(squareXML), ParseOptions{Format: FormatXML})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Square (4) + long secondary edge (1); the reversed duplicate of 1-2
	// and the footway are dropped.
	if len(res.Edges) != 5 {
		t.Fatalf("got %d edges, want 5", len(res.Edges))
	}
	if _, ok := res.NodeLat[5]; ok {
		t.Error("footway-only node should not be collected")
	}
	for _, e := range res.Edges {
		if e.Length <= 0 {
			t.Errorf("edge %d-%d has non-positive length %f", e.FromNodeID, e.ToNodeID, e.Length)
		}
	}
	if res.Edges[0].Highway != "primary" {
		t.Errorf("first edge highway = %q, want primary", res.Edges[0].Highway)
	}
}

func TestParseXMLBBox(t *testing.T) {
	opt := ParseOptions{
		Format: FormatXML,
		BBox:   BBox{MinLat: 0.9, MaxLat: 1.1, MinLng: 102.9, MaxLng: 103.1},
	}
	res, err := Parse(context.Background(), strings.NewReader(squareXML), opt)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Edges) != 4 {
		t.Fatalf("got %d edges, want 4 (edge to node 6 is outside bbox)", len(res.Edges))
	}
}

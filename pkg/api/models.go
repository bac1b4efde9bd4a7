package api

import (
	"github.com/paulmach/orb/geojson"

	"road_mesh/pkg/mesh"
)

// GenerateRequest is the JSON body for POST /api/v1/generate. Config
// fields left out keep their defaults.
type GenerateRequest struct {
	Seed     int64        `json:"seed"`
	Config   *mesh.Config `json:"config,omitempty"`
	Skeleton SkeletonJSON `json:"skeleton"`
}

// SkeletonJSON is a point list plus edges given as index pairs.
type SkeletonJSON struct {
	Points [][2]float64 `json:"points"`
	Edges  [][2]int     `json:"edges"`
}

// GenerateResponse is the JSON response for a successful generation.
type GenerateResponse struct {
	Stats   mesh.Stats                 `json:"stats"`
	GeoJSON *geojson.FeatureCollection `json:"geojson"`
}

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start PointJSON `json:"start"`
	End   PointJSON `json:"end"`
}

// PointJSON represents a planar point in JSON.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	Distance      float64     `json:"distance"`
	Path          []PointJSON `json:"path"`
	StartSnapDist float64     `json:"start_snap_dist"`
	EndSnapDist   float64     `json:"end_snap_dist"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Loaded bool       `json:"loaded"`
	Seed   int64      `json:"seed"`
	Mesh   mesh.Stats `json:"mesh"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

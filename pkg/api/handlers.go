package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
	"road_mesh/pkg/mesh"
	"road_mesh/pkg/routing"
)

const (
	maxGenerateBody = 1 << 20
	maxRouteBody    = 1024
)

// Generator produces a mesh from a skeleton.
type Generator interface {
	Generate(skeleton *graph.Graph, cfg mesh.Config, seed int64) (*mesh.Result, error)
}

// MeshGenerator is the Generator backed by pkg/mesh.
type MeshGenerator struct {
	Log *zap.Logger
}

func (g MeshGenerator) Generate(skeleton *graph.Graph, cfg mesh.Config, seed int64) (*mesh.Result, error) {
	return mesh.Generate(skeleton, cfg, seed, mesh.WithLogger(g.Log))
}

// RouterFactory builds a router over a generated mesh.
type RouterFactory func(g *graph.Graph) routing.Router

// EngineFactory returns a RouterFactory building routing engines with the
// given snap limit.
func EngineFactory(maxSnapDist float64) RouterFactory {
	return func(g *graph.Graph) routing.Router { return routing.NewEngine(g, maxSnapDist) }
}

// Handlers holds the HTTP handlers and their dependencies. Route queries
// run against the most recently generated mesh.
type Handlers struct {
	gen       Generator
	newRouter RouterFactory
	log       *zap.Logger

	mu     sync.RWMutex
	router routing.Router
	stats  StatsResponse
}

// NewHandlers creates handlers with the given generator and router factory.
func NewHandlers(gen Generator, newRouter RouterFactory, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		gen:       gen,
		newRouter: newRouter,
		log:       log,
	}
}

// SetMesh makes res the mesh route queries run against.
func (h *Handlers) SetMesh(res *mesh.Result, seed int64) {
	router := h.newRouter(res.Graph)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.router = router
	h.stats = StatsResponse{Loaded: true, Seed: seed, Mesh: res.Stats}
}

// HandleGenerate handles POST /api/v1/generate.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	def := mesh.DefaultConfig()
	req := GenerateRequest{Config: &def}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGenerateBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	cfg := mesh.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config", "config", err.Error())
		return
	}

	points := make([]geo.Point, len(req.Skeleton.Points))
	for i, p := range req.Skeleton.Points {
		if !finite(p[0]) || !finite(p[1]) {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "skeleton", "")
			return
		}
		points[i] = geo.Pt(p[0], p[1])
	}
	skeleton, _, err := graph.BuildFromIndexed(points, req.Skeleton.Edges)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_skeleton", "skeleton", err.Error())
		return
	}

	res, err := h.gen.Generate(skeleton, cfg, req.Seed)
	if err != nil {
		var ie *mesh.InvariantError
		switch {
		case errors.Is(err, mesh.ErrInvalidConfig):
			writeError(w, http.StatusBadRequest, "invalid_config", "config", err.Error())
		case errors.Is(err, mesh.ErrNoLoops):
			writeError(w, http.StatusUnprocessableEntity, "no_loops", "skeleton", "")
		case errors.Is(err, mesh.ErrSelfIntersecting):
			writeError(w, http.StatusUnprocessableEntity, "self_intersecting", "skeleton", err.Error())
		case errors.As(err, &ie):
			h.log.Error("generation failed", zap.Error(err), zap.Int64("seed", req.Seed))
			writeError(w, http.StatusInternalServerError, "invariant_violation", "", ie.Reason)
		default:
			h.log.Error("generation failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", "", "")
		}
		return
	}

	h.SetMesh(res, req.Seed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GenerateResponse{
		Stats:   res.Stats,
		GeoJSON: res.FeatureCollection(),
	})
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	if !isJSON(r) {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRouteBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	// Validate coordinates.
	if !finite(req.Start.X) || !finite(req.Start.Y) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start", "")
		return
	}
	if !finite(req.End.X) || !finite(req.End.Y) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end", "")
		return
	}

	h.mu.RLock()
	router := h.router
	h.mu.RUnlock()
	if router == nil {
		writeError(w, http.StatusConflict, "no_mesh", "", "generate a mesh first")
		return
	}

	// Route.
	result, err := router.Route(r.Context(), geo.Pt(req.Start.X, req.Start.Y), geo.Pt(req.End.X, req.End.Y))
	if err != nil {
		if errors.Is(err, routing.ErrPointTooFar) {
			writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "", "")
			return
		}
		if errors.Is(err, routing.ErrNoRoute) {
			writeError(w, http.StatusNotFound, "no_route_found", "", "")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "", "")
		return
	}

	// Build response.
	resp := RouteResponse{
		Distance:      result.Distance,
		Path:          make([]PointJSON, len(result.Path)),
		StartSnapDist: result.StartSnap.Dist,
		EndSnapDist:   result.EndSnap.Dist,
	}
	for i, p := range result.Path {
		resp.Path[i] = PointJSON{X: p.X, Y: p.Y}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	stats := h.stats
	h.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func writeError(w http.ResponseWriter, status int, code, field, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field, Detail: detail})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"route-planner/models"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const (
	msgRouteFieldsMissing = "出発地と目的地は必須です"
	msgRouteListFailed    = "ルート履歴の取得に失敗しました"
	msgRouteSaveFailed    = "ルート履歴の保存に失敗しました"

	// Only the newest entries are readable; older history stays in the
	// table but never surfaces.
	recentRouteLimit = 10

	routesCacheKey = "routes:recent"
)

// RoutesHandler handles the global route-search history. History is not
// user-scoped and has no auth requirement, matching the web client.
type RoutesHandler struct {
	db    *sqlx.DB
	cache cache.Cache
}

// NewRoutesHandler creates a new route history handler
func NewRoutesHandler(db *sqlx.DB, cache cache.Cache) *RoutesHandler {
	return &RoutesHandler{
		db:    db,
		cache: cache,
	}
}

// List handles GET /routes - the 10 most recent searches, newest first
func (h *RoutesHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing recent routes")

	// Try cache first
	if cached, err := h.cache.Get(routesCacheKey); err == nil {
		if body, ok := cached.([]byte); ok {
			logRequest(ctx, "debug", "Serving routes from cache")
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	routes := []models.RouteHistory{}
	err := h.db.Select(&routes,
		"SELECT id, origin, destination, distance, duration, created_at FROM route_history ORDER BY created_at DESC, id DESC LIMIT ?",
		recentRouteLimit)
	if err != nil {
		logRequest(ctx, "error", "Failed to query routes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgRouteListFailed)
		return
	}

	response, _ := json.Marshal(map[string]interface{}{"routes": routes})
	h.cache.Set(routesCacheKey, response, 5*time.Minute)

	logRequest(ctx, "info", "Routes retrieved", zap.Int("count", len(routes)))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// Record handles POST /routes - appends a history entry. Distance and
// duration are optional display strings straight from the provider.
func (h *RoutesHandler) Record(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgRouteFieldsMissing)
		return
	}

	if req.Origin == "" || req.Destination == "" {
		logRequest(ctx, "error", "Missing origin or destination")
		writeError(w, http.StatusBadRequest, msgRouteFieldsMissing)
		return
	}

	logRequest(ctx, "info", "Recording route", zap.String("origin", req.Origin), zap.String("destination", req.Destination))

	now := time.Now()
	result, err := h.db.Exec(
		"INSERT INTO route_history (origin, destination, distance, duration, created_at) VALUES (?, ?, ?, ?, ?)",
		req.Origin, req.Destination, req.Distance, req.Duration, now)
	if err != nil {
		logRequest(ctx, "error", "Failed to record route", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgRouteSaveFailed)
		return
	}

	id, _ := result.LastInsertId()

	h.cache.Delete(routesCacheKey)

	route := models.RouteHistory{
		ID:          int(id),
		Origin:      req.Origin,
		Destination: req.Destination,
		Distance:    req.Distance,
		Duration:    req.Duration,
		CreatedAt:   now,
	}

	logRequest(ctx, "info", "Route recorded", zap.Int("route_id", route.ID))

	writeJSON(w, http.StatusCreated, map[string]interface{}{"route": route})
}

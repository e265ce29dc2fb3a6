package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"route-planner/auth"
	"route-planner/models"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const (
	msgFavoriteFieldsMissing = "必要な情報が不足しています"
	msgPlaceIDRequired       = "場所IDが必要です"
	msgPlaceNotFound         = "場所が見つかりません"
	msgFavoriteListFailed    = "お気に入り場所の取得に失敗しました"
	msgFavoriteSaveFailed    = "お気に入り場所の保存に失敗しました"
	msgFavoriteDeleteFailed  = "お気に入り場所の削除に失敗しました"
	msgDeleted               = "削除しました"
)

// FavoritesHandler handles favorite-place operations. Every query filters
// by the session user's id; a favorite is never visible across owners.
type FavoritesHandler struct {
	db     *sqlx.DB
	cache  cache.Cache
	tokens *auth.TokenManager
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(db *sqlx.DB, cache cache.Cache, tokens *auth.TokenManager) *FavoritesHandler {
	return &FavoritesHandler{
		db:     db,
		cache:  cache,
		tokens: tokens,
	}
}

func favoritesCacheKey(userID string) string {
	return "favorites:" + userID
}

// List handles GET /favorites - the session user's places, newest first
func (h *FavoritesHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	session, ok := h.tokens.UserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	logRequest(ctx, "info", "Listing favorites", zap.String("user_id", session.UserID))

	// Try cache first
	cacheKey := favoritesCacheKey(session.UserID)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cached.([]byte); ok {
			logRequest(ctx, "debug", "Serving favorites from cache", zap.String("user_id", session.UserID))
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	places := []models.FavoritePlace{}
	err := h.db.Select(&places,
		"SELECT id, name, address, latitude, longitude, user_id, created_at FROM favorite_places WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		session.UserID)
	if err != nil {
		logRequest(ctx, "error", "Failed to query favorites", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgFavoriteListFailed)
		return
	}

	// Cache the rendered response
	response, _ := json.Marshal(map[string]interface{}{"places": places})
	h.cache.Set(cacheKey, response, 5*time.Minute)

	logRequest(ctx, "info", "Favorites retrieved", zap.Int("count", len(places)))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// Create handles POST /favorites - saves a place for the session user.
// A latitude or longitude of exactly 0 is rejected as missing; this mirrors
// the web client's falsy-check and is pinned by tests.
func (h *FavoritesHandler) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	session, ok := h.tokens.UserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	var req models.CreateFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgFavoriteFieldsMissing)
		return
	}

	if req.Name == "" || req.Address == "" || req.Latitude == 0 || req.Longitude == 0 {
		logRequest(ctx, "error", "Missing required fields", zap.String("name", req.Name))
		writeError(w, http.StatusBadRequest, msgFavoriteFieldsMissing)
		return
	}

	logRequest(ctx, "info", "Creating favorite", zap.String("name", req.Name), zap.String("user_id", session.UserID))

	now := time.Now()
	result, err := h.db.Exec(
		"INSERT INTO favorite_places (name, address, latitude, longitude, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		req.Name, req.Address, req.Latitude, req.Longitude, session.UserID, now)
	if err != nil {
		logRequest(ctx, "error", "Failed to create favorite", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgFavoriteSaveFailed)
		return
	}

	id, _ := result.LastInsertId()

	// Clear the owner's list cache
	h.cache.Delete(favoritesCacheKey(session.UserID))

	place := models.FavoritePlace{
		ID:        int(id),
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		UserID:    session.UserID,
		CreatedAt: now,
	}

	logRequest(ctx, "info", "Favorite created", zap.Int("place_id", place.ID))

	writeJSON(w, http.StatusCreated, map[string]interface{}{"place": place})
}

// Delete handles DELETE /favorites?id= and DELETE /favorites/{id}.
// The lookup filters by both id and owner, so "not yours" and "does not
// exist" are the same 404 - existence of other users' places never leaks.
func (h *FavoritesHandler) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	session, ok := h.tokens.UserFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		idStr = r.URL.Query().Get("id")
	}
	if idStr == "" {
		logRequest(ctx, "error", "Missing place ID")
		writeError(w, http.StatusBadRequest, msgPlaceIDRequired)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid place ID", zap.String("id", idStr))
		writeError(w, http.StatusBadRequest, msgPlaceIDRequired)
		return
	}

	logRequest(ctx, "info", "Deleting favorite", zap.Int("place_id", id), zap.String("user_id", session.UserID))

	// Only places owned by the session user are deletable
	var placeID int
	err = h.db.Get(&placeID, "SELECT id FROM favorite_places WHERE id = ? AND user_id = ?", id, session.UserID)
	if err == sql.ErrNoRows {
		logRequest(ctx, "info", "Favorite not found", zap.Int("place_id", id))
		writeError(w, http.StatusNotFound, msgPlaceNotFound)
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query favorite", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgFavoriteDeleteFailed)
		return
	}

	if _, err := h.db.Exec("DELETE FROM favorite_places WHERE id = ?", placeID); err != nil {
		logRequest(ctx, "error", "Failed to delete favorite", zap.Error(err), zap.Int("place_id", id))
		writeError(w, http.StatusInternalServerError, msgFavoriteDeleteFailed)
		return
	}

	h.cache.Delete(favoritesCacheKey(session.UserID))

	logRequest(ctx, "info", "Favorite deleted", zap.Int("place_id", id))

	writeJSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
}

package handlers

import (
	"net/http"
	"testing"

	"route-planner/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFavorite(t *testing.T, env *testEnv, user models.User, req models.CreateFavoriteRequest) models.FavoritePlace {
	t.Helper()
	w := doJSON(t, env.favoritesHandler.Create, http.MethodPost, "/favorites", req, env.sessionCookie(t, user))
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Place models.FavoritePlace `json:"place"`
	}
	decodeBody(t, w, &body)
	return body.Place
}

func listFavorites(t *testing.T, env *testEnv, user models.User) []models.FavoritePlace {
	t.Helper()
	w := doJSON(t, env.favoritesHandler.List, http.MethodGet, "/favorites", nil, env.sessionCookie(t, user))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Places []models.FavoritePlace `json:"places"`
	}
	decodeBody(t, w, &body)
	return body.Places
}

func TestFavoritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, env.favoritesHandler.List, http.MethodGet, "/favorites", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "認証が必要です"}`, w.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, env.favoritesHandler.Create, http.MethodPost, "/favorites",
			models.CreateFavoriteRequest{Name: "自宅", Address: "東京都", Latitude: 35.68, Longitude: 139.76})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "認証が必要です"}`, w.Body.String())
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, env.favoritesHandler.Delete, http.MethodDelete, "/favorites?id=1", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateFavoriteValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "password123", "Alice")
	cookie := env.sessionCookie(t, user)

	tests := []struct {
		name string
		req  models.CreateFavoriteRequest
	}{
		{"missing name", models.CreateFavoriteRequest{Address: "東京都", Latitude: 35.68, Longitude: 139.76}},
		{"missing address", models.CreateFavoriteRequest{Name: "自宅", Latitude: 35.68, Longitude: 139.76}},
		// Zero coordinates are rejected as missing. A real place at
		// latitude or longitude exactly 0 is therefore unsaveable;
		// known quirk, kept for client compatibility.
		{"zero latitude rejected", models.CreateFavoriteRequest{Name: "赤道", Address: "Equator", Latitude: 0, Longitude: 100}},
		{"zero longitude rejected", models.CreateFavoriteRequest{Name: "子午線", Address: "Greenwich", Latitude: 51.47, Longitude: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, env.favoritesHandler.Create, http.MethodPost, "/favorites", tt.req, cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error": "必要な情報が不足しています"}`, w.Body.String())
		})
	}
}

func TestFavoriteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "password123", "Alice")

	created := createFavorite(t, env, user, models.CreateFavoriteRequest{
		Name:      "東京駅",
		Address:   "東京都千代田区丸の内1丁目",
		Latitude:  35.681236,
		Longitude: 139.767125,
	})
	assert.Equal(t, user.ID, created.UserID)
	assert.NotZero(t, created.ID)

	places := listFavorites(t, env, user)
	require.Len(t, places, 1)
	assert.Equal(t, created.ID, places[0].ID)
	assert.Equal(t, "東京駅", places[0].Name)
	assert.Equal(t, "東京都千代田区丸の内1丁目", places[0].Address)
	assert.Equal(t, 35.681236, places[0].Latitude)
	assert.Equal(t, 139.767125, places[0].Longitude)
}

func TestFavoritesListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "password123", "Alice")

	first := createFavorite(t, env, user, models.CreateFavoriteRequest{Name: "A", Address: "a", Latitude: 1, Longitude: 1})
	second := createFavorite(t, env, user, models.CreateFavoriteRequest{Name: "B", Address: "b", Latitude: 2, Longitude: 2})

	places := listFavorites(t, env, user)
	require.Len(t, places, 2)
	assert.Equal(t, second.ID, places[0].ID)
	assert.Equal(t, first.ID, places[1].ID)
}

func TestFavoritesOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice@b.com", "password123", "Alice")
	bob := env.createUser(t, "bob@b.com", "password123", "Bob")

	place := createFavorite(t, env, alice, models.CreateFavoriteRequest{
		Name: "Alice's spot", Address: "somewhere", Latitude: 10, Longitude: 20,
	})

	// Absent from the other user's list
	assert.Empty(t, listFavorites(t, env, bob))

	// Delete across owners looks identical to "does not exist"
	w := doJSON(t, env.favoritesHandler.Delete, http.MethodDelete, "/favorites?id="+itoa(place.ID), nil, env.sessionCookie(t, bob))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "場所が見つかりません"}`, w.Body.String())

	// Still present for the owner
	require.Len(t, listFavorites(t, env, alice), 1)
}

func TestDeleteFavorite(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "password123", "Alice")
	cookie := env.sessionCookie(t, user)

	t.Run("missing id", func(t *testing.T) {
		w := doJSON(t, env.favoritesHandler.Delete, http.MethodDelete, "/favorites", nil, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "場所IDが必要です"}`, w.Body.String())
	})

	t.Run("nonexistent id", func(t *testing.T) {
		w := doJSON(t, env.favoritesHandler.Delete, http.MethodDelete, "/favorites?id=999", nil, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "場所が見つかりません"}`, w.Body.String())
	})

	t.Run("query param form", func(t *testing.T) {
		place := createFavorite(t, env, user, models.CreateFavoriteRequest{Name: "X", Address: "x", Latitude: 1, Longitude: 1})

		w := doJSON(t, env.favoritesHandler.Delete, http.MethodDelete, "/favorites?id="+itoa(place.ID), nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message": "削除しました"}`, w.Body.String())

		assert.Empty(t, listFavorites(t, env, user))

		// Second delete of the same id: already gone, reported as not found
		w = doJSON(t, env.favoritesHandler.Delete, http.MethodDelete, "/favorites?id="+itoa(place.ID), nil, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("path param form", func(t *testing.T) {
		place := createFavorite(t, env, user, models.CreateFavoriteRequest{Name: "Y", Address: "y", Latitude: 2, Longitude: 2})

		r := doJSONRequest(t, http.MethodDelete, "/favorites/"+itoa(place.ID), nil, cookie)
		r = mux.SetURLVars(r, map[string]string{"id": itoa(place.ID)})
		w := record(env.favoritesHandler.Delete, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

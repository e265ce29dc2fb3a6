package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key")
	require.NoError(t, err)
	c.baseURL = srv.URL
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestRouteSuccess(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origin":      q.Get("origin"),
			"destination": q.Get("destination"),
			"mode":        q.Get("mode"),
			"units":       q.Get("units"),
			"key":         q.Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"summary": "首都高速道路",
				"legs": [{
					"distance": {"text": "12.3 km", "value": 12300},
					"duration": {"text": "25分", "value": 1500},
					"start_address": "東京駅",
					"end_address": "横浜駅"
				}]
			}]
		}`))
	})

	result, err := c.Route(context.Background(), "東京駅", "横浜駅")
	require.NoError(t, err)

	assert.Equal(t, "東京駅", gotQuery["origin"])
	assert.Equal(t, "横浜駅", gotQuery["destination"])
	assert.Equal(t, "driving", gotQuery["mode"])
	assert.Equal(t, "metric", gotQuery["units"])
	assert.Equal(t, "test-key", gotQuery["key"])

	require.Len(t, result.Routes, 1)
	require.Len(t, result.Routes[0].Legs, 1)
	leg := result.Routes[0].Legs[0]
	assert.Equal(t, "12.3 km", leg.Distance.Text)
	assert.Equal(t, "25分", leg.Duration.Text)
}

func TestRouteNonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "NOT_FOUND", "routes": []}`))
	})

	_, err := c.Route(context.Background(), "nowhere", "nothing")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "NOT_FOUND", statusErr.Status)
}

func TestRouteHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Route(context.Background(), "a", "b")
	assert.Error(t, err)
}

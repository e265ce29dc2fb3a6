package routesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIRecorder writes history entries to the route planner backend's
// /routes endpoint, the way the web client's fire-and-forget fetch did.
type APIRecorder struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIRecorder creates a recorder posting to baseURL (e.g.
// "http://localhost:8080").
func NewAPIRecorder(baseURL string) *APIRecorder {
	return &APIRecorder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type recordRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

// Record posts one history entry. The caller treats any error as
// best-effort and swallows it.
func (r *APIRecorder) Record(ctx context.Context, origin, destination, distance, duration string) error {
	body, err := json.Marshal(recordRequest{
		Origin:      origin,
		Destination: destination,
		Distance:    distance,
		Duration:    duration,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/routes", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("routesearch: history write returned status %d", resp.StatusCode)
	}
	return nil
}

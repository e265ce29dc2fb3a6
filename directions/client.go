// Package directions wraps the Google Directions REST API. The rest of the
// code depends on the Provider interface only, so tests and alternative
// providers plug in without touching the search flow.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// Provider resolves a driving route between two free-text addresses.
type Provider interface {
	Route(ctx context.Context, origin, destination string) (*RouteResult, error)
}

// TextValue is a display string paired with its numeric value, as the API
// returns for distances (meters) and durations (seconds).
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// Leg is one segment of a route.
type Leg struct {
	Distance     TextValue `json:"distance"`
	Duration     TextValue `json:"duration"`
	StartAddress string    `json:"start_address"`
	EndAddress   string    `json:"end_address"`
}

// Route is a single routing alternative.
type Route struct {
	Summary string `json:"summary"`
	Legs    []Leg  `json:"legs"`
}

// RouteResult is the successful outcome of a directions lookup.
type RouteResult struct {
	Routes []Route `json:"routes"`
}

// StatusError is returned when the API answers with a non-OK status
// (NOT_FOUND, ZERO_RESULTS, OVER_QUERY_LIMIT, ...).
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Status + ": " + e.Message
	}
	return e.Status
}

// Client calls the Google Directions API over HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directions client. The API key is mandatory; without
// it route search is unavailable and callers should degrade, not crash.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("directions: API key is required")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type directionsResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Routes       []Route `json:"routes"`
}

// Route requests a driving route with metric units, the same parameters the
// web client used.
func (c *Client) Route(ctx context.Context, origin, destination string) (*RouteResult, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", "driving")
	params.Set("units", "metric")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions: unexpected HTTP status %d", resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	if body.Status != "OK" {
		return nil, &StatusError{Status: body.Status, Message: body.ErrorMessage}
	}

	return &RouteResult{Routes: body.Routes}, nil
}

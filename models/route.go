package models

import "time"

// RouteHistory is an append-only record of a completed route search.
// It is global (not user-scoped); distance and duration are display
// strings as returned by the directions provider, not normalized units.
type RouteHistory struct {
	ID          int       `json:"id" db:"id"`
	Origin      string    `json:"origin" db:"origin"`
	Destination string    `json:"destination" db:"destination"`
	Distance    string    `json:"distance" db:"distance"`
	Duration    string    `json:"duration" db:"duration"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CreateRouteRequest for POST /routes
// Distance and duration are optional free-form display strings
type CreateRouteRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

package models

import "time"

// User represents a registered account
// Password is stored hashed (bcrypt); never return plain in JSON responses
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed; omitted from JSON
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserResponse is the public view of a user returned by auth endpoints
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Response converts a User to its client-facing shape
func (u User) Response() UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// RegisterRequest for POST /register
// Name is optional; email and password are mandatory
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` // Plaintext; hashed in handler
	Name     string `json:"name"`
}

// LoginRequest for POST /login (cookie session)
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

package model

import "time"

// User mirrors the `users` table. The password hash never leaves the
// server; the json tag hides it from every response.
type User struct {
	ID             uint64    `json:"id"`              // users.id
	Email          string    `json:"email"`           // users.email (unique, lower-cased)
	Name           *string   `json:"name"`            // users.name (nullable)
	HashedPassword string    `json:"-"`               // users.hashed_password
	Role           string    `json:"role"`            // users.role ("user", "admin")
	CreatedAt      time.Time `json:"created_at"`      // users.created_at
}

// Principal is the resolved identity of the caller for a single request.
// It is derived from a verified bearer token (or, in dev only, from the
// unverified X-Session-User header) and is never persisted.
type Principal struct {
	ID    uint64 `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool { return p != nil && p.Role == "admin" }

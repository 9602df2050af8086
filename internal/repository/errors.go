// Package repository implements data access over the supervised MySQL pool.
// Sentinel errors let handlers translate storage outcomes into HTTP status
// codes without string matching.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup or update matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup, status update or
// ownership check matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmailExists is returned by user creation when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrOverlap is returned when a booking cannot be created because another
// booking for the same room intersects the requested interval. Handlers
// translate this into HTTP 409.
var ErrOverlap = errors.New("booking overlaps an existing booking")

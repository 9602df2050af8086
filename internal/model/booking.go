package model

import "time"

// Booking reserves a room for a half-open interval [StartTime, EndTime).
// Both instants are stored and served in UTC. A booking always fits within
// a single UTC calendar day and never exceeds 24 hours; bookings for the
// same room never overlap. Status is a free-form string ("pending" on
// creation; admins may set any non-empty value).
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	RoomID    uint64    `json:"room_id"`    // bookings.room_id
	UserID    *uint64   `json:"user_id"`    // bookings.user_id (nullable)
	StartTime time.Time `json:"start_time"` // bookings.start_time (UTC)
	EndTime   time.Time `json:"end_time"`   // bookings.end_time (UTC, > start)
	Status    string    `json:"status"`     // bookings.status
	Notes     *string   `json:"notes"`      // bookings.notes (nullable)
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
}

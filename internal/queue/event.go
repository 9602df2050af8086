// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

import (
	"time"

	"github.com/meetspace/room-booking/internal/model"
)

// BookingCreatedEvent is published whenever a booking row is inserted. It
// carries enough for downstream consumers to log or audit without querying
// the primary database.
type BookingCreatedEvent struct {
	BookingID uint64  `json:"booking_id"`
	RoomID    uint64  `json:"room_id"`
	UserID    *uint64 `json:"user_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// NewBookingCreatedEvent builds the event payload from a persisted booking.
func NewBookingCreatedEvent(b model.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime.UTC().Format(time.RFC3339),
		EndTime:   b.EndTime.UTC().Format(time.RFC3339),
		Status:    b.Status,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

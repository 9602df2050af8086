package handler

import (
	"net/http"
	"time"

	"github.com/meetspace/room-booking/internal/model"
)

// createBookingReq is the POST /book payload. Either start_time/end_time
// (RFC3339) or a single date (YYYY-MM-DD, meaning the whole day) must be
// supplied.
type createBookingReq struct {
	RoomID    uint64  `json:"room_id"`
	UserID    *uint64 `json:"user_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Date      string  `json:"date"`
	Notes     *string `json:"notes"`
}

// bookingInput is a validated, normalized booking request ready to
// persist.
type bookingInput struct {
	RoomID uint64
	UserID *uint64
	Start  time.Time
	End    time.Time
	Notes  *string
}

// ruleError carries the HTTP status and message for a rejected request.
type ruleError struct {
	Status  int
	Message string
}

func badRequest(msg string) *ruleError {
	return &ruleError{Status: http.StatusBadRequest, Message: msg}
}

// dayWindow returns the booking window covering a whole day:
// [dayT00:00:00Z, dayT23:59:59Z]. The window ends one second before
// midnight rather than at it; existing clients query availability with the
// same bound, so the final second of each day stays outside every window.
// Keep the boundary as is.
func dayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Second)
}

// sameUTCDay reports whether both instants fall on the same UTC calendar
// day.
func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// normalizeBooking validates a booking request against the creation rules
// and resolves the effective time range and user. Checks run in order and
// the first failure wins:
//
//	room_id present → date/start/end present and well-formed → start < end
//	→ single UTC day, at most 24h → start date not in the past → a plain
//	"user" may only book for themselves (their id is forced when omitted).
//
// Availability is not checked here; the store does that under lock at
// insert time.
func normalizeBooking(req createBookingReq, p *model.Principal, now time.Time) (bookingInput, *ruleError) {
	var in bookingInput
	if req.RoomID == 0 {
		return in, badRequest("room_id required")
	}
	var start, end time.Time
	if req.Date != "" {
		day, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return in, badRequest("invalid date")
		}
		start, end = dayWindow(day)
	} else {
		if req.StartTime == "" || req.EndTime == "" {
			return in, badRequest("start_time and end_time (or date) required")
		}
		var err error
		start, err = time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return in, badRequest("invalid start_time/end_time")
		}
		end, err = time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return in, badRequest("invalid start_time/end_time")
		}
	}
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return in, badRequest("invalid start_time/end_time")
	}
	if !sameUTCDay(start, end) || end.Sub(start) > 24*time.Hour {
		return in, badRequest("reservation must be within one day")
	}
	if start.Format(dateLayout) < now.UTC().Format(dateLayout) {
		return in, badRequest("cannot create booking for past dates")
	}

	in.RoomID = req.RoomID
	in.UserID = req.UserID
	in.Start = start
	in.End = end
	in.Notes = req.Notes
	if p != nil && p.Role == "user" {
		if req.UserID != nil && *req.UserID != p.ID {
			return bookingInput{}, &ruleError{
				Status:  http.StatusForbidden,
				Message: "users may only create bookings for themselves",
			}
		}
		uid := p.ID
		in.UserID = &uid
	}
	return in, nil
}

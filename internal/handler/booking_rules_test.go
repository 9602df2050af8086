package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetspace/room-booking/internal/model"
)

func u64(v uint64) *uint64 { return &v }

func TestDayWindow(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	start, end := dayWindow(day)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC), end)
}

func TestNormalizeBookingRejections(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		req     createBookingReq
		p       *model.Principal
		status  int
		message string
	}{
		{
			name:    "missing room_id",
			req:     createBookingReq{Date: "2026-03-11"},
			status:  http.StatusBadRequest,
			message: "room_id required",
		},
		{
			name:    "malformed date",
			req:     createBookingReq{RoomID: 1, Date: "11-03-2026"},
			status:  http.StatusBadRequest,
			message: "invalid date",
		},
		{
			name:    "no time range at all",
			req:     createBookingReq{RoomID: 1},
			status:  http.StatusBadRequest,
			message: "start_time and end_time (or date) required",
		},
		{
			name: "start after end",
			req: createBookingReq{
				RoomID:    1,
				StartTime: "2026-03-11T14:00:00Z",
				EndTime:   "2026-03-11T13:00:00Z",
			},
			status:  http.StatusBadRequest,
			message: "invalid start_time/end_time",
		},
		{
			name: "start equals end",
			req: createBookingReq{
				RoomID:    1,
				StartTime: "2026-03-11T14:00:00Z",
				EndTime:   "2026-03-11T14:00:00Z",
			},
			status:  http.StatusBadRequest,
			message: "invalid start_time/end_time",
		},
		{
			name: "crosses midnight",
			req: createBookingReq{
				RoomID:    1,
				StartTime: "2026-03-11T23:59:58Z",
				EndTime:   "2026-03-12T00:00:02Z",
			},
			status:  http.StatusBadRequest,
			message: "reservation must be within one day",
		},
		{
			name:    "past date",
			req:     createBookingReq{RoomID: 1, Date: "2026-03-09"},
			status:  http.StatusBadRequest,
			message: "cannot create booking for past dates",
		},
		{
			name: "past explicit range",
			req: createBookingReq{
				RoomID:    1,
				StartTime: "2026-03-09T10:00:00Z",
				EndTime:   "2026-03-09T11:00:00Z",
			},
			status:  http.StatusBadRequest,
			message: "cannot create booking for past dates",
		},
		{
			name:    "user booking for someone else",
			req:     createBookingReq{RoomID: 1, Date: "2026-03-11", UserID: u64(99)},
			p:       &model.Principal{ID: 5, Role: "user"},
			status:  http.StatusForbidden,
			message: "users may only create bookings for themselves",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, rerr := normalizeBooking(tc.req, tc.p, now)
			require.NotNil(t, rerr)
			assert.Equal(t, tc.status, rerr.Status)
			assert.Equal(t, tc.message, rerr.Message)
		})
	}
}

func TestNormalizeBookingDateExpandsToDayWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in, rerr := normalizeBooking(createBookingReq{RoomID: 2, Date: "2026-03-11"}, nil, now)
	require.Nil(t, rerr)
	assert.Equal(t, uint64(2), in.RoomID)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), in.Start)
	assert.Equal(t, time.Date(2026, 3, 11, 23, 59, 59, 0, time.UTC), in.End)
	assert.Nil(t, in.UserID)
}

func TestNormalizeBookingTodayIsAllowed(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	// A booking earlier today is still "today", not a past date.
	_, rerr := normalizeBooking(createBookingReq{
		RoomID:    1,
		StartTime: "2026-03-10T08:00:00Z",
		EndTime:   "2026-03-10T09:00:00Z",
	}, nil, now)
	assert.Nil(t, rerr)
}

func TestNormalizeBookingForcesOwnUserID(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := &model.Principal{ID: 5, Role: "user"}

	in, rerr := normalizeBooking(createBookingReq{RoomID: 1, Date: "2026-03-11"}, p, now)
	require.Nil(t, rerr)
	require.NotNil(t, in.UserID)
	assert.Equal(t, uint64(5), *in.UserID)

	// Explicitly naming yourself is fine too.
	in, rerr = normalizeBooking(createBookingReq{RoomID: 1, Date: "2026-03-11", UserID: u64(5)}, p, now)
	require.Nil(t, rerr)
	assert.Equal(t, uint64(5), *in.UserID)
}

func TestNormalizeBookingAdminBooksForAnyone(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := &model.Principal{ID: 1, Role: "admin"}
	in, rerr := normalizeBooking(createBookingReq{RoomID: 1, Date: "2026-03-11", UserID: u64(42)}, p, now)
	require.Nil(t, rerr)
	require.NotNil(t, in.UserID)
	assert.Equal(t, uint64(42), *in.UserID)

	// Admins may also leave the booking anonymous.
	in, rerr = normalizeBooking(createBookingReq{RoomID: 1, Date: "2026-03-11"}, p, now)
	require.Nil(t, rerr)
	assert.Nil(t, in.UserID)
}

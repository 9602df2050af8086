package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meetspace/room-booking/internal/config"
	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/middleware"
	"github.com/meetspace/room-booking/internal/model"
	"github.com/meetspace/room-booking/internal/queue"
	"github.com/meetspace/room-booking/internal/repository"
	"github.com/meetspace/room-booking/internal/service"
)

// BookingHandler serves everything under /book.
type BookingHandler struct {
	Cfg      config.Config
	Bookings *repository.BookingRepo
	Pool     *database.Pool
}

func NewBookingHandler(cfg config.Config, bookings *repository.BookingRepo, pool *database.Pool) *BookingHandler {
	return &BookingHandler{Cfg: cfg, Bookings: bookings, Pool: pool}
}

// List handles GET /book (admin). Optional filters: user (substring over
// email/name), date_from, date_to (YYYY-MM-DD), status, room_id.
func (h *BookingHandler) List(c echo.Context) error {
	var f repository.BookingFilter
	f.User = c.QueryParam("user")
	f.Status = c.QueryParam("status")
	if v := c.QueryParam("room_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
		}
		f.RoomID = id
	}
	if v := c.QueryParam("date_from"); v != "" {
		day, err := time.Parse(dateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_from"})
		}
		from, _ := dayWindow(day)
		f.DateFrom = &from
	}
	if v := c.QueryParam("date_to"); v != "" {
		day, err := time.Parse(dateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_to"})
		}
		_, to := dayWindow(day)
		f.DateTo = &to
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	out, err := h.Bookings.List(ctx, f)
	if err != nil {
		return dbError(c, h.Pool, err, "failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, out)
}

// My handles GET /book/my: the caller's own bookings.
func (h *BookingHandler) My(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	out, err := h.Bookings.ListByUser(ctx, p.ID)
	if err != nil {
		return dbError(c, h.Pool, err, "failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /book/:id. Readable by anyone.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return dbError(c, h.Pool, err, "failed to fetch booking")
	}
	return c.JSON(http.StatusOK, b)
}

// Availability handles GET /book/availability?room_id=&date=. It answers
// whether the room's whole-day window is free of bookings. This is a
// snapshot read: creation re-checks under lock, so a true here can still
// lose the race against a concurrent create.
func (h *BookingHandler) Availability(c echo.Context) error {
	roomStr, dateStr := c.QueryParam("room_id"), c.QueryParam("date")
	if roomStr == "" || dateStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and date required"})
	}
	roomID, err := strconv.ParseUint(roomStr, 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
	}
	day, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	start, end := dayWindow(day)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	overlap, err := h.Bookings.HasOverlap(ctx, roomID, start, end)
	if err != nil {
		return dbError(c, h.Pool, err, "availability check failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"available": !overlap})
}

// Create handles POST /book. Identity is optional here: anonymous and
// admin callers may book for any (or no) user, while a plain "user" is
// pinned to their own id by the validation rules. Overlaps answer 409.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p := middleware.CurrentPrincipal(c)
	in, rerr := normalizeBooking(req, p, time.Now().UTC())
	if rerr != nil {
		return c.JSON(rerr.Status, echo.Map{"error": rerr.Message})
	}

	b := model.Booking{
		RoomID:    in.RoomID,
		UserID:    in.UserID,
		StartTime: in.Start,
		EndTime:   in.End,
		Notes:     in.Notes,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	if err := h.Bookings.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room unavailable for selected date/time"})
		}
		return dbError(c, h.Pool, err, "failed to create booking")
	}

	// Fire-and-forget audit event; publish failures are logged by the
	// publisher and never affect the response.
	go func(ev queue.BookingCreatedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.PublishBookingCreated(ctx, ev)
	}(queue.NewBookingCreatedEvent(b))

	return c.JSON(http.StatusCreated, b)
}

// UpdateStatus handles PATCH /book/:id/status (admin). Any non-empty
// status string is accepted.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	d, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return dbError(c, h.Pool, err, "failed to update booking status")
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /book/:id. Only the booking's owner or an admin
// may delete it.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p := middleware.CurrentPrincipal(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	owner, err := h.Bookings.OwnerOf(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return dbError(c, h.Pool, err, "failed to delete booking")
	}
	if !p.IsAdmin() && (owner == nil || *owner != p.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Bookings.Delete(ctx, id); err != nil {
		return dbError(c, h.Pool, err, "failed to delete booking")
	}
	return c.NoContent(http.StatusNoContent)
}

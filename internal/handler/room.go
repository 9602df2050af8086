package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meetspace/room-booking/internal/config"
	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/model"
	"github.com/meetspace/room-booking/internal/repository"
)

// RoomHandler serves the room catalog under /products.
type RoomHandler struct {
	Cfg   config.Config
	Rooms *repository.RoomRepo
	Pool  *database.Pool
}

func NewRoomHandler(cfg config.Config, rooms *repository.RoomRepo, pool *database.Pool) *RoomHandler {
	return &RoomHandler{Cfg: cfg, Rooms: rooms, Pool: pool}
}

// List handles GET /products. With ?date=YYYY-MM-DD only rooms free for
// that whole day are returned; otherwise the full catalog.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()

	if v := c.QueryParam("date"); v != "" {
		day, err := time.Parse(dateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		start, end := dayWindow(day)
		rooms, err := h.Rooms.ListAvailableOn(ctx, start, end)
		if err != nil {
			return dbError(c, h.Pool, err, "failed to fetch rooms")
		}
		return c.JSON(http.StatusOK, rooms)
	}

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return dbError(c, h.Pool, err, "failed to fetch rooms")
	}
	return c.JSON(http.StatusOK, rooms)
}

// Get handles GET /products/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return dbError(c, h.Pool, err, "failed to fetch room")
	}
	return c.JSON(http.StatusOK, room)
}

type createRoomReq struct {
	Name        string  `json:"name"`
	Capacity    *uint32 `json:"capacity"`
	Description *string `json:"description"`
}

// Create handles POST /products (admin). Capacity defaults to 1 when
// omitted and must be at least 1.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	capacity := uint32(1)
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
		}
		capacity = *req.Capacity
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	room := model.Room{Name: req.Name, Capacity: capacity, Description: req.Description}
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return dbError(c, h.Pool, err, "failed to create room")
	}
	return c.JSON(http.StatusCreated, room)
}

type updateRoomReq struct {
	Name        *string `json:"name"`
	Capacity    *uint32 `json:"capacity"`
	Description *string `json:"description"`
}

// Update handles PUT /products/:id. Fields left out of the body keep
// their current values.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		req.Name = &trimmed
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	room, err := h.Rooms.Update(ctx, id, req.Name, req.Capacity, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return dbError(c, h.Pool, err, "failed to update room")
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /products/:id (admin). Deleting an absent room
// still answers 204; the end state is the same either way.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.QueryTimeout)
	defer cancel()
	if err := h.Rooms.Delete(ctx, id); err != nil {
		return dbError(c, h.Pool, err, "failed to delete room")
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meetspace/room-booking/internal/database"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	Pool     *database.Pool
	Backend  string
	Frontend string
}

func NewHealthHandler(pool *database.Pool, backend, frontend string) *HealthHandler {
	return &HealthHandler{Pool: pool, Backend: backend, Frontend: frontend}
}

// Health handles GET /health. The endpoint itself always answers 200;
// the db field carries the pool's view: ok, down, unconfigured or error.
func (h *HealthHandler) Health(c echo.Context) error {
	db := "ok"
	switch h.Pool.State() {
	case database.StateUnconfigured:
		db = "unconfigured"
	case database.StateReconnecting, database.StateFailed:
		db = "down"
	default:
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.Pool.Ping(ctx); err != nil {
			h.Pool.ReportError(err)
			db = "error"
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":         "ok",
		"db":             db,
		"backend_image":  h.Backend,
		"frontend_image": h.Frontend,
	})
}

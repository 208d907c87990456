// Package main is the entry point for the kandypack-dispatch service.
//
// @title           KandyPack Dispatch API
// @version         1.0.0
// @description     Allocates customer orders to rail and truck trips within transport capacity,
// @description     assigns crews to truck trips and reconciles allocations when capacity or schedules change.
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/kandypack-dispatch
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 Operator API key. Required when API_KEY_HASHES is set.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 HS256 JWT as "Bearer <token>". Required when JWT_SECRET_KEY is set.
//
// @tag.name        Orders
// @tag.description Order intake, allocation, cancellation and dispatch readiness
//
// @tag.name        Catalog
// @tag.description Products and transport units
//
// @tag.name        Schedules
// @tag.description Route schedules and trip previews
//
// @tag.name        Trips
// @tag.description Trip details, crew assignment and reconciliation
//
// @tag.name        Personnel
// @tag.description Drivers and assistants
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/guttosm/kandypack-dispatch/docs" // swagger docs

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/app"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const closeTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine; the environment wins either way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg := config.Load()

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server)

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := server.Run(signalCtx)
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown incomplete")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}

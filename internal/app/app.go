// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/http"
	"github.com/rs/zerolog/log"
)

// App is the wired dispatch service.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Audit    *AuditComponents

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			log.Error().Err(err).Str("resource", c.name).Msg("Failed to close resource")
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *App {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	app := &App{}

	dbComponents := InitializeDatabase(cfg.Database)
	if dbComponents != nil {
		app.onClose("mongodb", dbComponents.DB.Close)
	}

	redisClient := InitializeRedis(cfg.Redis)
	if redisClient != nil {
		app.onClose("redis", func(context.Context) error { return redisClient.Close() })
	}

	publisher := InitializePublisher(cfg.Kafka)
	app.onClose("publisher", func(context.Context) error { return publisher.Close() })

	// Initialize dispatch services and start the reconciliation workers
	app.Services = InitializeServices(cfg, dbComponents, redisClient, publisher)
	app.Services.Pool.Start(app.Services.Reconciler.Handle)
	app.onClose("reconcile-workers", func(context.Context) error {
		app.Services.Pool.Stop()
		return nil
	})

	app.Audit = InitializeAudit(cfg.Audit, dbComponents)
	if app.Audit != nil {
		app.onClose("audit-writer", func(context.Context) error {
			app.Audit.Writer.Stop()
			return nil
		})
	}

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(app.Services, dbComponents, redisClient, app.Audit, cfg)
	app.Router = http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)

	return app
}

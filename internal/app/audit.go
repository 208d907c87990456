package app

import (
	"context"
	"time"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/guttosm/kandypack-dispatch/internal/service"
	"github.com/rs/zerolog/log"
)

const auditSetupTimeout = 10 * time.Second

// AuditComponents holds the operator audit trail.
type AuditComponents struct {
	Service *service.AuditServiceImpl
	Writer  *middleware.AuditWriter
}

// InitializeAudit wires the audit trail on MongoDB when available, otherwise in memory.
// Returns nil when auditing is disabled. The writer is started and must be stopped.
func InitializeAudit(cfg config.AuditConfig, db *DatabaseComponents) *AuditComponents {
	if !cfg.Enabled {
		return nil
	}

	var repo repository.AuditRepositoryInterface
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), auditSetupTimeout)
		if err := db.DB.SetAuditTTL(ctx, cfg.TTL); err != nil {
			log.Warn().Err(err).Dur("ttl", cfg.TTL).Msg("Failed to set audit TTL index")
		}
		cancel()
		repo = repository.NewMongoAuditRepository(db.DB)
		log.Info().Dur("ttl", cfg.TTL).Msg("Persisting audit trail to MongoDB")
	} else {
		repo = repository.NewMemoryAuditRepository(cfg.MemoryLimit)
		log.Info().Int("limit", cfg.MemoryLimit).Msg("Keeping audit trail in memory")
	}

	svc := service.NewAuditService(repo)
	writer := middleware.NewAuditWriter(svc, middleware.AuditWriterConfig{
		BufferSize:   cfg.BufferSize,
		NumWorkers:   cfg.Workers,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &AuditComponents{Service: svc, Writer: writer}
}

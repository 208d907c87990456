// Package app provides service initialization.
package app

import (
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/guttosm/kandypack-dispatch/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds the dispatch services and their shared storage.
type ServiceComponents struct {
	Store      repository.Store
	Ledger     ledger.Ledger
	Publisher  events.Publisher
	Resolver   *service.ScheduleResolverImpl
	Engine     *service.AllocationEngineImpl
	Personnel  *service.PersonnelServiceImpl
	Reconciler *service.ReconcilerImpl
	Catalog    *service.CatalogServiceImpl
	Pool       *service.WorkerPool
}

// InitializeServices wires the allocation engine, personnel, reconciliation and catalog services.
// The worker pool is returned unstarted.
func InitializeServices(cfg config.Config, db *DatabaseComponents, redisClient redis.UniversalClient, publisher events.Publisher) *ServiceComponents {
	var store repository.Store
	if db != nil {
		store = db.Store
	} else {
		log.Warn().Msg("MongoDB disabled - using in-memory store")
		store = repository.NewMemoryStore()
	}

	capacity := selectLedger(cfg.Engine.LedgerBackend, db, redisClient, cfg.Redis.LedgerPrefix)
	loc := cfg.Engine.Location()

	resolver := service.NewScheduleResolver(store, capacity,
		service.WithLocation(loc),
		service.WithScheduleCache(cfg.Engine.ScheduleCacheSize, cfg.Engine.ScheduleCacheTTL),
	)
	personnel := service.NewPersonnelService(store, publisher,
		service.WithPersonnelLocation(loc),
		service.WithReleaseWindow(cfg.Personnel.ReleaseWindow),
	)
	tripLocks := service.NewTripLocks()
	engine := service.NewAllocationEngine(store, capacity, resolver,
		service.WithTripLocks(tripLocks),
		service.WithHorizonDays(cfg.Engine.HorizonDays),
		service.WithHandlingBuffer(cfg.Engine.HandlingBuffer),
		service.WithPersonnel(personnel),
		service.WithPublisher(publisher),
	)

	pool := service.NewWorkerPool(service.WorkerPoolConfig{
		BufferSize: cfg.Reconciliation.QueueSize,
		NumWorkers: cfg.Reconciliation.Workers,
		JobTimeout: cfg.Reconciliation.JobTimeout,
	})
	reconciler := service.NewReconciler(store, capacity, resolver, engine, personnel,
		service.WithReconcilerTripLocks(tripLocks),
		service.WithReconcilerHandlingBuffer(cfg.Engine.HandlingBuffer),
		service.WithQueue(pool),
		service.WithFanOut(cfg.Reconciliation.FanOut),
		service.WithReconcilerPublisher(publisher),
	)

	return &ServiceComponents{
		Store:      store,
		Ledger:     capacity,
		Publisher:  publisher,
		Resolver:   resolver,
		Engine:     engine,
		Personnel:  personnel,
		Reconciler: reconciler,
		Catalog:    service.NewCatalogService(store, capacity, resolver),
		Pool:       pool,
	}
}

// selectLedger picks the capacity ledger for backend, falling back to memory
// when the backing client is unavailable.
func selectLedger(backend string, db *DatabaseComponents, redisClient redis.UniversalClient, prefix string) ledger.Ledger {
	switch backend {
	case config.LedgerRedis:
		if redisClient != nil {
			log.Info().Str("backend", backend).Msg("Using Redis capacity ledger")
			return ledger.NewRedisLedger(redisClient, prefix)
		}
		log.Warn().Msg("Redis ledger requested but Redis is unavailable - using in-memory ledger")
	case config.LedgerMongo:
		if db != nil {
			log.Info().Str("backend", backend).Msg("Using MongoDB capacity ledger")
			return ledger.NewMongoLedger(db.DB.Ledger)
		}
		log.Warn().Msg("MongoDB ledger requested but MongoDB is unavailable - using in-memory ledger")
	case config.LedgerMemory, "":
	default:
		log.Warn().Str("backend", backend).Msg("Unknown ledger backend - using in-memory ledger")
	}
	return ledger.NewMemoryLedger()
}

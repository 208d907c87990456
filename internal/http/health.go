package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
)

const readinessTimeout = 2 * time.Second

// HealthChecker is a dependency that can be probed for readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler serves the liveness and readiness probes. Readiness fails
// while any registered dependency check fails or any registered breaker is
// open.
type HealthHandler struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: make(map[string]HealthChecker),
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// RegisterChecker adds a dependency probed by /readyz under name.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// RegisterCircuitBreaker reports cb's state under name+"_circuit".
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.breakers[name] = cb
}

func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving requests.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK when the store, the capacity ledger and every circuit breaker are healthy.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	h.mu.RLock()
	checks, ready := h.probe(ctx)
	for name, cb := range h.breakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats.State
		ready = ready && stats.IsHealthy
	}
	h.mu.RUnlock()

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	status, label := http.StatusOK, "ok"
	if !ready {
		status, label = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(status, gin.H{"status": label, "checks": checks})
}

// probe runs every checker concurrently so one slow dependency costs at most
// readinessTimeout in total. Callers hold h.mu.
func (h *HealthHandler) probe(ctx context.Context) (map[string]string, bool) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		ready  = true
		checks = make(map[string]string, len(h.checkers)+len(h.breakers))
	)
	for name, checker := range h.checkers {
		wg.Go(func() {
			err := checker.HealthCheck(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log := logger.WithContext(ctx)
				log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
				checks[name] = err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		})
	}
	wg.Wait()
	return checks, ready
}

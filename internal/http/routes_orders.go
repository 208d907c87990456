package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
)

// OrderRoutes handles order route registration.
type OrderRoutes struct {
	handler *Handler
}

// NewOrderRoutes creates a new OrderRoutes instance.
func NewOrderRoutes(handler *Handler) *OrderRoutes {
	return &OrderRoutes{handler: handler}
}

// RegisterRoutes registers the order intake and order lifecycle routes.
// Order submission replays the stored response for a repeated Idempotency-Key.
func (r *OrderRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	orders := rg.Group("/orders")

	submit := []gin.HandlerFunc{r.handler.SubmitOrder}
	if cfg.EnableIdempotency {
		idempotencyCfg := middleware.DefaultIdempotencyConfig()
		if cfg.IdempotencyStore != nil {
			idempotencyCfg.Cache = cfg.IdempotencyStore
		}
		submit = append([]gin.HandlerFunc{middleware.Idempotency(idempotencyCfg)}, submit...)
	}

	orders.POST("", submit...)
	orders.GET("/:id", r.handler.GetOrder)
	orders.POST("/:id/allocate", r.handler.AllocateOrder)
	orders.POST("/:id/cancel", r.handler.CancelOrder)
	orders.GET("/:id/dispatch", r.handler.DispatchStatus)
}

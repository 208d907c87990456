package http

import (
	"github.com/gin-gonic/gin"
)

// TripRoutes handles trip instance routes.
type TripRoutes struct {
	handler *Handler
}

// NewTripRoutes creates a new TripRoutes instance.
func NewTripRoutes(handler *Handler) *TripRoutes {
	return &TripRoutes{handler: handler}
}

// RegisterRoutes registers trip inspection, staffing and reconciliation routes.
func (r *TripRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	trips := rg.Group("/trips")
	trips.GET("/:id", r.handler.GetTrip)
	trips.POST("/:id/personnel", r.handler.AssignPersonnel)
	trips.POST("/:id/reconcile", r.handler.ReconcileTrip)
}

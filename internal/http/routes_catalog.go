package http

import (
	"github.com/gin-gonic/gin"
)

// CatalogRoutes handles product, transport unit, schedule and staff routes.
type CatalogRoutes struct {
	handler *Handler
}

// NewCatalogRoutes creates a new CatalogRoutes instance.
func NewCatalogRoutes(handler *Handler) *CatalogRoutes {
	return &CatalogRoutes{handler: handler}
}

// RegisterRoutes registers the catalog maintenance routes.
func (r *CatalogRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.PUT("/products/:id", r.handler.SaveProduct)

	units := rg.Group("/transport-units")
	units.PUT("/:id", r.handler.SaveTransportUnit)
	units.PUT("/:id/capacity", r.handler.ChangeCapacity)

	schedules := rg.Group("/schedules")
	schedules.PUT("/:id", r.handler.SaveSchedule)
	schedules.GET("/:id/trips", r.handler.PreviewSchedule)

	staff := rg.Group("/staff")
	staff.PUT("/:id", r.handler.SaveStaff)
	staff.POST("/:id/unavailable", r.handler.StaffUnavailable)
}

package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// apiRouteGroups returns every business route group served under /api.
func apiRouteGroups(handler *Handler) []RouteGroup {
	return []RouteGroup{
		NewOrderRoutes(handler),
		NewCatalogRoutes(handler),
		NewTripRoutes(handler),
		NewAuditRoutes(handler),
	}
}

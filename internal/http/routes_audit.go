package http

import (
	"github.com/gin-gonic/gin"
)

// AuditRoutes serves the operator audit trail.
type AuditRoutes struct {
	handler *Handler
}

// NewAuditRoutes creates a new AuditRoutes instance.
func NewAuditRoutes(handler *Handler) *AuditRoutes {
	return &AuditRoutes{handler: handler}
}

// RegisterRoutes registers GET /audit when the handler has an audit service.
func (r *AuditRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	if r.handler.audit == nil {
		return
	}
	rg.GET("/audit", r.handler.ListAudit)
}

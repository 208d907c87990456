package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/service"
)

// ListAudit handles GET /api/audit requests.
//
// @Summary      Query the operator audit trail
// @Description  Lists recorded operator mutations newest first. Since is inclusive and until is exclusive.
// @Tags         Audit
// @Produce      json
// @Param        action query string false "Action, e.g. order.submit"
// @Param        operator_id query string false "Operator id"
// @Param        request_id query string false "Request id"
// @Param        outcome query string false "success or failure"
// @Param        since query string false "Window start (RFC3339)"
// @Param        until query string false "Window end (RFC3339)"
// @Param        limit query int false "Page size (1-500, default 50)"
// @Param        skip query int false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=dto.AuditPage}
// @Failure      400 {object} dto.ErrorResponse "Invalid query"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/audit [get]
func (h *Handler) ListAudit(c *gin.Context) {
	var req dto.AuditQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	q := req.ToModel()

	entries, err := h.audit.Query(ctx, q)
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}
	total, err := h.audit.Count(ctx, q)
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}

	if entries == nil {
		entries = []model.AuditEntry{}
	}
	limit := q.Limit
	if limit == 0 {
		limit = service.DefaultAuditLimit
	}

	NewResponseBuilder(c).SuccessOK(dto.AuditPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Skip:    q.Skip,
	})
}

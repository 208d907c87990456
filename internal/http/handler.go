package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
	"github.com/guttosm/kandypack-dispatch/internal/service"
)

const defaultPreviewDays = 7

// Handler provides HTTP handlers for the dispatch API.
type Handler struct {
	engine      service.AllocationEngine
	catalog     service.CatalogService
	personnel   service.PersonnelService
	reconciler  service.Reconciler
	queue       service.JobQueue
	audit       service.AuditService
	now         func() time.Time
	previewDays int
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerClock overrides the clock used for default timestamps.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithPreviewDays sets the default number of days listed by GET /api/schedules/:id/trips.
func WithPreviewDays(days int) HandlerOption {
	return func(h *Handler) {
		if days > 0 {
			h.previewDays = days
		}
	}
}

// WithAuditLog enables GET /api/audit on svc.
func WithAuditLog(svc service.AuditService) HandlerOption {
	return func(h *Handler) {
		h.audit = svc
	}
}

// NewHandler creates a new Handler instance.
// Background jobs (capacity changes, staff loss) are submitted to queue.
func NewHandler(
	engine service.AllocationEngine,
	catalog service.CatalogService,
	personnel service.PersonnelService,
	reconciler service.Reconciler,
	queue service.JobQueue,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		engine:      engine,
		catalog:     catalog,
		personnel:   personnel,
		reconciler:  reconciler,
		queue:       queue,
		now:         time.Now,
		previewDays: defaultPreviewDays,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// fail audits a failed mutation and answers with the domain error.
func (h *Handler) fail(c *gin.Context, action string, err error, fields map[string]interface{}) {
	if action != "" {
		middleware.AuditError(c, action, err, fields)
	}
	NewResponseBuilder(c).DomainError(err)
}

// badRequest answers bind failures as malformed bodies and rule failures as validation errors.
func (h *Handler) badRequest(c *gin.Context, err error) {
	if errors.Is(err, model.ErrValidation) {
		NewResponseBuilder(c).DomainError(err)
		return
	}
	NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

// submit queues job and answers 202, or 503 when the queue is full.
func (h *Handler) submit(c *gin.Context, job service.Job, subject string) {
	builder := NewResponseBuilder(c)
	if h.queue == nil || !h.queue.Submit(job) {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyQueueFull, nil)
		return
	}
	builder.SuccessAccepted(dto.JobAccepted{Job: string(job.Kind), Subject: subject})
}

// SubmitOrder handles POST /api/orders requests.
//
// @Summary      Submit an order
// @Description  Validates and stores the order, then allocates every item to the earliest train trip on its train route and the earliest truck trip that departs after the train arrives plus the handling buffer. Items that cannot be placed within the horizon are reported as unschedulable. Supports idempotency via Idempotency-Key header.
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.SubmitOrderRequest true "Order"
// @Success      201 {object} dto.SuccessResponse{data=model.AllocationResult} "Order stored and allocated"
// @Failure      400 {object} dto.ErrorResponse "VALIDATION_ERROR - nothing was stored or reserved"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      409 {object} dto.ErrorResponse "Order id already used"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/orders [post]
func (h *Handler) SubmitOrder(c *gin.Context) {
	req, err := BuildRequest[dto.SubmitOrderRequest](c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	fields := map[string]interface{}{"order_id": req.ID, "items": len(req.Items)}
	result, err := h.engine.SubmitOrder(c.Request.Context(), req.ToModel())
	if err != nil {
		h.fail(c, middleware.ActionSubmitOrder, err, fields)
		return
	}

	fields["status"] = string(result.Status)
	middleware.Audit(c, middleware.ActionSubmitOrder, fields)
	NewResponseBuilder(c).SuccessCreated(result)
}

// GetOrder handles GET /api/orders/:id requests.
//
// @Summary      Get an order
// @Tags         Orders
// @Produce      json
// @Param        id path string true "Order id"
// @Success      200 {object} dto.SuccessResponse{data=model.Order}
// @Failure      404 {object} dto.ErrorResponse "Order not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.engine.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}
	NewResponseBuilder(c).SuccessOK(order)
}

// AllocateOrder handles POST /api/orders/:id/allocate requests.
//
// @Summary      Re-run allocation for an order
// @Description  Allocates every item still missing a leg. Items holding both legs are kept, so the call is idempotent.
// @Tags         Orders
// @Produce      json
// @Param        id path string true "Order id"
// @Success      200 {object} dto.SuccessResponse{data=model.AllocationResult}
// @Failure      404 {object} dto.ErrorResponse "Order not found"
// @Failure      409 {object} dto.ErrorResponse "ORDER_CANCELLED or CONCURRENT_CONFLICT"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/orders/{id}/allocate [post]
func (h *Handler) AllocateOrder(c *gin.Context) {
	orderID := c.Param("id")
	result, err := h.engine.AllocateOrder(c.Request.Context(), orderID)
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}
	NewResponseBuilder(c).SuccessOK(result)
}

// CancelOrder handles POST /api/orders/:id/cancel requests.
//
// @Summary      Cancel an order
// @Description  Cancels the order and releases every active allocation exactly once. Cancelling twice is a no-op.
// @Tags         Orders
// @Produce      json
// @Param        id path string true "Order id"
// @Success      200 {object} dto.SuccessResponse{data=model.Order}
// @Failure      404 {object} dto.ErrorResponse "Order not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/orders/{id}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID := c.Param("id")
	fields := map[string]interface{}{"order_id": orderID}

	order, err := h.engine.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		h.fail(c, middleware.ActionCancelOrder, err, fields)
		return
	}

	middleware.Audit(c, middleware.ActionCancelOrder, fields)
	NewResponseBuilder(c).SuccessOK(order)
}

// DispatchStatus handles GET /api/orders/:id/dispatch requests.
//
// @Summary      Dispatch readiness of an order
// @Description  An order is ready when every item holds a train and a truck allocation and every truck trip has a driver.
// @Tags         Orders
// @Produce      json
// @Param        id path string true "Order id"
// @Success      200 {object} dto.SuccessResponse{data=model.DispatchStatus}
// @Failure      404 {object} dto.ErrorResponse "Order not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/orders/{id}/dispatch [get]
func (h *Handler) DispatchStatus(c *gin.Context) {
	status, err := h.engine.DispatchStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}
	NewResponseBuilder(c).SuccessOK(status)
}

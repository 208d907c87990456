package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
	"github.com/guttosm/kandypack-dispatch/internal/service"
)

const maxPreviewDays = 31

// SaveProduct handles PUT /api/products/:id requests.
//
// @Summary      Create or update a product
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Product id"
// @Param        request body dto.ProductRequest true "Product"
// @Success      200 {object} dto.SuccessResponse{data=model.Product}
// @Failure      400 {object} dto.ErrorResponse "VALIDATION_ERROR"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/products/{id} [put]
func (h *Handler) SaveProduct(c *gin.Context) {
	req, err := BuildRequest[dto.ProductRequest](c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	product := req.ToModel(c.Param("id"))
	fields := map[string]interface{}{"product_id": product.ID}
	if err := h.catalog.SaveProduct(c.Request.Context(), product); err != nil {
		h.fail(c, middleware.ActionSaveProduct, err, fields)
		return
	}

	middleware.Audit(c, middleware.ActionSaveProduct, fields)
	NewResponseBuilder(c).SuccessOK(product)
}

// SaveTransportUnit handles PUT /api/transport-units/:id requests.
//
// @Summary      Create or update a transport unit
// @Description  A capacity that differs from the stored one is not written directly. It is queued as a capacity change so affected trips are reconciled, and the response is 202.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Transport unit id"
// @Param        request body dto.TransportUnitRequest true "Transport unit"
// @Success      200 {object} dto.SuccessResponse{data=dto.TransportUnitSaved}
// @Success      202 {object} dto.SuccessResponse{data=dto.TransportUnitSaved} "Capacity change queued"
// @Failure      400 {object} dto.ErrorResponse "VALIDATION_ERROR"
// @Failure      503 {object} dto.ErrorResponse "Reconciliation queue full"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/transport-units/{id} [put]
func (h *Handler) SaveTransportUnit(c *gin.Context) {
	req, err := BuildRequest[dto.TransportUnitRequest](c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	unit := req.ToModel(c.Param("id"))
	fields := map[string]interface{}{"unit_id": unit.ID, "kind": string(unit.Kind)}
	changed, err := h.catalog.SaveTransportUnit(c.Request.Context(), unit)
	if err != nil {
		h.fail(c, middleware.ActionSaveTransportUnit, err, fields)
		return
	}

	fields["capacity_changed"] = changed
	middleware.Audit(c, middleware.ActionSaveTransportUnit, fields)

	saved := dto.TransportUnitSaved{Unit: unit, CapacityChanged: changed}
	if !changed {
		NewResponseBuilder(c).SuccessOK(saved)
		return
	}

	job := service.Job{Kind: service.JobCapacityChanged, UnitID: unit.ID, Capacity: unit.Capacity}
	if h.queue == nil || !h.queue.Submit(job) {
		NewResponseBuilder(c).Error(http.StatusServiceUnavailable, i18n.ErrKeyQueueFull, nil)
		return
	}
	NewResponseBuilder(c).SuccessAccepted(saved)
}

// ChangeCapacity handles PUT /api/transport-units/:id/capacity requests.
//
// @Summary      Change the capacity of a transport unit
// @Description  Queues the change. Every future trip of the unit is then reconciled and allocations that no longer fit are evicted newest first and re-allocated.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Transport unit id"
// @Param        request body dto.CapacityRequest true "New capacity"
// @Success      202 {object} dto.SuccessResponse{data=dto.JobAccepted}
// @Failure      400 {object} dto.ErrorResponse "VALIDATION_ERROR"
// @Failure      503 {object} dto.ErrorResponse "Reconciliation queue full"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/transport-units/{id}/capacity [put]
func (h *Handler) ChangeCapacity(c *gin.Context) {
	req, err := BuildRequestAndValidate[dto.CapacityRequest](c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	unitID := c.Param("id")
	middleware.Audit(c, middleware.ActionChangeCapacity, map[string]interface{}{
		"unit_id":  unitID,
		"capacity": req.Capacity.String(),
	})
	h.submit(c, service.Job{Kind: service.JobCapacityChanged, UnitID: unitID, Capacity: *req.Capacity}, unitID)
}

// SaveSchedule handles PUT /api/schedules/:id requests.
//
// @Summary      Create or replace a route schedule
// @Description  Stores the schedule as a new version and reconciles its future trips. Trips the new version no longer produces are cancelled and their allocations re-allocated.
// @Tags         Schedules
// @Accept       json
// @Produce      json
// @Param        id path string true "Schedule id"
// @Param        request body dto.ScheduleRequest true "Schedule"
// @Success      200 {object} dto.SuccessResponse{data=[]model.ReconcileReport}
// @Failure      400 {object} dto.ErrorResponse "INVALID_SCHEDULE"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/schedules/{id} [put]
func (h *Handler) SaveSchedule(c *gin.Context) {
	req, err := BuildRequest[dto.ScheduleRequest](c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	schedule := req.ToModel(c.Param("id"))
	fields := map[string]interface{}{"schedule_id": schedule.ID, "route_id": schedule.RouteID}
	reports, err := h.reconciler.ScheduleChanged(c.Request.Context(), schedule)
	if err != nil {
		h.fail(c, middleware.ActionSaveSchedule, err, fields)
		return
	}

	fields["trips_reconciled"] = len(reports)
	middleware.Audit(c, middleware.ActionSaveSchedule, fields)
	if reports == nil {
		reports = []model.ReconcileReport{}
	}
	NewResponseBuilder(c).SuccessOK(reports)
}

// PreviewSchedule handles GET /api/schedules/:id/trips requests.
//
// @Summary      List the trips a schedule produces
// @Tags         Schedules
// @Produce      json
// @Param        id path string true "Schedule id"
// @Param        from query string false "Start of the window (RFC3339), defaults to now"
// @Param        days query int false "Number of days to list (1-31)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.TripInstance}
// @Failure      400 {object} dto.ErrorResponse "Invalid query"
// @Failure      404 {object} dto.ErrorResponse "Schedule not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/schedules/{id}/trips [get]
func (h *Handler) PreviewSchedule(c *gin.Context) {
	from := h.now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		from = parsed
	}

	days := h.previewDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPreviewDays {
			h.badRequest(c, model.Invalid("days", "must be between 1 and 31"))
			return
		}
		days = n
	}

	trips, err := h.catalog.PreviewSchedule(c.Request.Context(), c.Param("id"), from, days)
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}
	if trips == nil {
		trips = []model.TripInstance{}
	}
	NewResponseBuilder(c).SuccessOK(trips)
}

// SaveStaff handles PUT /api/staff/:id requests.
//
// @Summary      Create or update a staff member
// @Tags         Personnel
// @Accept       json
// @Produce      json
// @Param        id path string true "Staff id"
// @Param        request body dto.StaffRequest true "Staff member"
// @Success      200 {object} dto.SuccessResponse{data=model.Staff}
// @Failure      400 {object} dto.ErrorResponse "VALIDATION_ERROR"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/staff/{id} [put]
func (h *Handler) SaveStaff(c *gin.Context) {
	req, err := BuildRequest[dto.StaffRequest](c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	staff := req.ToModel(c.Param("id"))
	fields := map[string]interface{}{"staff_id": staff.ID, "role": string(staff.Role)}
	if err := h.catalog.SaveStaff(c.Request.Context(), staff); err != nil {
		h.fail(c, middleware.ActionSaveStaff, err, fields)
		return
	}

	middleware.Audit(c, middleware.ActionSaveStaff, fields)
	NewResponseBuilder(c).SuccessOK(staff)
}

// StaffUnavailable handles POST /api/staff/:id/unavailable requests.
//
// @Summary      Take a staff member off duty
// @Description  Queues the release of every assignment of the staff member from the given instant. Trips left without a driver are re-staffed in the background.
// @Tags         Personnel
// @Accept       json
// @Produce      json
// @Param        id path string true "Staff id"
// @Param        request body dto.StaffUnavailableRequest false "Off-duty start"
// @Success      202 {object} dto.SuccessResponse{data=dto.JobAccepted}
// @Failure      503 {object} dto.ErrorResponse "Reconciliation queue full"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/staff/{id}/unavailable [post]
func (h *Handler) StaffUnavailable(c *gin.Context) {
	var req dto.StaffUnavailableRequest
	if c.Request.ContentLength > 0 {
		if err := NewRequestBuilder(c).Bind(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	staffID := c.Param("id")
	from := req.FromOr(h.now())
	middleware.Audit(c, middleware.ActionStaffUnavailable, map[string]interface{}{
		"staff_id": staffID,
		"from":     from.UTC().Format(time.RFC3339),
	})
	h.submit(c, service.Job{Kind: service.JobStaffUnavailable, StaffID: staffID, From: from}, staffID)
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
)

// GetTrip handles GET /api/trips/:id requests.
//
// @Summary      Get a trip with its allocations and crew
// @Tags         Trips
// @Produce      json
// @Param        id path string true "Trip instance id"
// @Success      200 {object} dto.SuccessResponse{data=model.TripDetails}
// @Failure      404 {object} dto.ErrorResponse "Trip not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/trips/{id} [get]
func (h *Handler) GetTrip(c *gin.Context) {
	details, err := h.catalog.TripDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "", err, nil)
		return
	}
	NewResponseBuilder(c).SuccessOK(details)
}

// AssignPersonnel handles POST /api/trips/:id/personnel requests.
//
// @Summary      Assign a crew to a truck trip
// @Description  Picks the eligible driver, and assistant when available, with the fewest minutes booked that day. A trip without an eligible driver is reported as NEEDS_STAFFING.
// @Tags         Trips
// @Produce      json
// @Param        id path string true "Trip instance id"
// @Success      200 {object} dto.SuccessResponse{data=model.StaffingResult}
// @Failure      400 {object} dto.ErrorResponse "Trip is not a truck trip"
// @Failure      404 {object} dto.ErrorResponse "Trip not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/trips/{id}/personnel [post]
func (h *Handler) AssignPersonnel(c *gin.Context) {
	tripID := c.Param("id")
	fields := map[string]interface{}{"trip_id": tripID}

	result, err := h.personnel.AssignPersonnel(c.Request.Context(), tripID)
	if err != nil {
		h.fail(c, middleware.ActionAssignPersonnel, err, fields)
		return
	}

	fields["status"] = string(result.Status)
	middleware.Audit(c, middleware.ActionAssignPersonnel, fields)
	NewResponseBuilder(c).SuccessOK(result)
}

// ReconcileTrip handles POST /api/trips/:id/reconcile requests.
//
// @Summary      Reconcile a trip against its capacity
// @Description  Evicts the newest allocations until the trip fits its capacity and re-allocates the evicted items.
// @Tags         Trips
// @Produce      json
// @Param        id path string true "Trip instance id"
// @Success      200 {object} dto.SuccessResponse{data=model.ReconcileReport}
// @Failure      404 {object} dto.ErrorResponse "Trip not found"
// @Failure      500 {object} dto.ErrorResponse "INVARIANT_VIOLATION"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/trips/{id}/reconcile [post]
func (h *Handler) ReconcileTrip(c *gin.Context) {
	tripID := c.Param("id")
	fields := map[string]interface{}{"trip_id": tripID}

	report, err := h.reconciler.Reconcile(c.Request.Context(), tripID)
	if err != nil {
		h.fail(c, middleware.ActionReconcileTrip, err, fields)
		return
	}

	fields["evicted"] = len(report.Evicted)
	middleware.Audit(c, middleware.ActionReconcileTrip, fields)
	NewResponseBuilder(c).SuccessOK(report)
}

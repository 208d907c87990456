package middleware

import (
	"maps"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/rs/zerolog"
)

// Audit actions recorded for operator mutations.
const (
	ActionSubmitOrder       = "order.submit"
	ActionCancelOrder       = "order.cancel"
	ActionSaveProduct       = "product.save"
	ActionSaveTransportUnit = "transport_unit.save"
	ActionChangeCapacity    = "transport_unit.capacity"
	ActionSaveSchedule      = "schedule.save"
	ActionSaveStaff         = "staff.save"
	ActionStaffUnavailable  = "staff.unavailable"
	ActionReconcileTrip     = "trip.reconcile"
	ActionAssignPersonnel   = "trip.assign_personnel"
)

const auditWriterKey = "audit_writer"

// AuditTrail makes writer available to Audit and AuditError for the rest of the chain.
// With a nil writer audit records only go to the log.
func AuditTrail(writer *AuditWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if writer != nil {
			c.Set(auditWriterKey, writer)
		}
		c.Next()
	}
}

func auditWriter(c *gin.Context) *AuditWriter {
	if v, ok := c.Get(auditWriterKey); ok {
		if w, ok := v.(*AuditWriter); ok {
			return w
		}
	}
	return nil
}

func newAuditEntry(c *gin.Context, action, outcome string, fields map[string]interface{}) *model.AuditEntry {
	return &model.AuditEntry{
		Action:     action,
		Outcome:    outcome,
		OperatorID: GetOperatorID(c),
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		Fields:     maps.Clone(fields),
	}
}

func auditEvent(c *gin.Context, level zerolog.Level, entry *model.AuditEntry) *zerolog.Event {
	log := logger.WithContext(c.Request.Context())
	return log.WithLevel(level).
		Bool("audit", true).
		Str("action", entry.Action).
		Str("operator_id", entry.OperatorID).
		Str("method", entry.Method).
		Str("path", entry.Path).
		Str("ip", entry.IP).
		Fields(entry.Fields)
}

func persist(c *gin.Context, entry *model.AuditEntry) {
	if w := auditWriter(c); w != nil && !w.Log(entry) {
		log := logger.WithContext(c.Request.Context())
		log.Warn().Str("action", entry.Action).Msg("Audit buffer full - entry not persisted")
	}
}

// Audit records a successful operator action.
func Audit(c *gin.Context, action string, fields map[string]interface{}) {
	entry := newAuditEntry(c, action, model.AuditSuccess, fields)
	auditEvent(c, zerolog.InfoLevel, entry).Msg("audit")
	persist(c, entry)
}

// AuditError records a failed operator action along with its domain error code.
func AuditError(c *gin.Context, action string, err error, fields map[string]interface{}) {
	entry := newAuditEntry(c, action, model.AuditFailure, fields)
	entry.Code = model.Code(err)
	if err != nil {
		entry.Error = err.Error()
	}
	auditEvent(c, zerolog.WarnLevel, entry).
		Str("code", entry.Code).
		Err(err).
		Msg("audit")
	persist(c, entry)
}

package model

import (
	"time"
)

// Audit outcomes.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEntry records one operator mutation.
// Fields carries action-specific context such as order or trip ids.
//
// @Description Operator action recorded in the audit trail
type AuditEntry struct {
	ID         string                 `json:"id" example:"4f1c2a9e-8d7b-4e1f-9a3c-2b6d5e7f8a90"`
	Timestamp  time.Time              `json:"timestamp" example:"2026-01-05T06:00:00Z"`
	Action     string                 `json:"action" example:"order.submit"`
	Outcome    string                 `json:"outcome" example:"success"`
	OperatorID string                 `json:"operator_id,omitempty" example:"dispatcher-1"`
	RequestID  string                 `json:"request_id,omitempty"`
	Method     string                 `json:"method,omitempty" example:"POST"`
	Path       string                 `json:"path,omitempty" example:"/api/orders"`
	IP         string                 `json:"ip,omitempty"`
	Code       string                 `json:"code,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty" swaggertype:"object"`
} // @name AuditEntry

// WithField adds a field, initializing Fields if needed.
func (e *AuditEntry) WithField(key string, value interface{}) *AuditEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into the entry.
func (e *AuditEntry) WithFields(fields map[string]interface{}) *AuditEntry {
	if len(fields) == 0 {
		return e
	}
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// AuditQuery filters the audit trail. Empty fields match everything.
// Since is inclusive and Until is exclusive.
type AuditQuery struct {
	Action     string
	OperatorID string
	RequestID  string
	Outcome    string
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Skip       int
}

// Validate checks the query window and paging.
func (q AuditQuery) Validate() error {
	if q.Outcome != "" && q.Outcome != AuditSuccess && q.Outcome != AuditFailure {
		return Invalid("outcome", "must be success or failure")
	}
	if q.Since != nil && q.Until != nil && !q.Since.Before(*q.Until) {
		return Invalid("since", "must be before until")
	}
	if q.Limit < 0 {
		return Invalid("limit", "must not be negative")
	}
	if q.Skip < 0 {
		return Invalid("skip", "must not be negative")
	}
	return nil
}

// Matches reports whether e passes every filter in q. Paging is ignored.
func (q AuditQuery) Matches(e AuditEntry) bool {
	switch {
	case q.Action != "" && e.Action != q.Action:
		return false
	case q.OperatorID != "" && e.OperatorID != q.OperatorID:
		return false
	case q.RequestID != "" && e.RequestID != q.RequestID:
		return false
	case q.Outcome != "" && e.Outcome != q.Outcome:
		return false
	case q.Since != nil && e.Timestamp.Before(*q.Since):
		return false
	case q.Until != nil && !e.Timestamp.Before(*q.Until):
		return false
	}
	return true
}

// Package i18n provides internationalization support for the dispatch service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyValidation indicates a domain validation failure.
	ErrKeyValidation = "error.validation"
	// ErrKeyInvalidSchedule indicates a malformed route schedule.
	ErrKeyInvalidSchedule = "error.invalid_schedule"
	// ErrKeyOrderCancelled indicates the order was cancelled.
	ErrKeyOrderCancelled = "error.order_cancelled"
	// ErrKeyConcurrentConflict indicates a lost optimistic update.
	ErrKeyConcurrentConflict = "error.concurrent_conflict"
	// ErrKeyInvariantViolation indicates the capacity ledger is inconsistent.
	ErrKeyInvariantViolation = "error.invariant_violation"
	// ErrKeyQueueFull indicates the reconciliation queue rejected a job.
	ErrKeyQueueFull = "error.queue_full"
	// ErrKeyAlreadyExists indicates an id is already taken.
	ErrKeyAlreadyExists = "error.already_exists"
	// ErrKeyNoCapacity indicates no trip had room for the item.
	ErrKeyNoCapacity = "error.no_capacity"
	// ErrKeyUnschedulable indicates no trip exists within the planning horizon.
	ErrKeyUnschedulable = "error.unschedulable"
	// ErrKeyNeedsStaffing indicates a truck trip still lacks a driver or assistant.
	ErrKeyNeedsStaffing = "error.needs_staffing"
	// ErrKeyIdempotencyKeyReused indicates an Idempotency-Key replayed with a different payload.
	ErrKeyIdempotencyKeyReused = "error.idempotency_key_reused"
	// ErrKeyUnavailable indicates a backend is failing and calls are short-circuited.
	ErrKeyUnavailable = "error.unavailable"
)

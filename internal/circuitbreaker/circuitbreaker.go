// Package circuitbreaker guards the persistence backends of the dispatch service.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed means the circuit is closed and requests pass through normally.
	StateClosed State = iota
	// StateOpen means the circuit is open and requests are rejected immediately.
	StateOpen
	// StateHalfOpen means one probe at a time is let through.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive probe successes needed to close it again.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before a probe is allowed.
	Timeout time.Duration
	// Name identifies the breaker in logs, metrics and health output.
	Name string
	// Ignore reports errors that are returned to the caller without counting as failures.
	Ignore func(error) bool
	// OnStateChange, when set, is called after every transition, outside the breaker lock.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// CircuitBreaker counts consecutive backend failures and short-circuits calls
// while the backend looks down. Caller cancellations and errors accepted by
// Config.Ignore (domain outcomes such as not found) never count.
type CircuitBreaker struct {
	config          Config
	state           State
	failureCount    int
	successCount    int
	probing         bool
	lastFailureTime time.Time
	mu              sync.RWMutex
	now             func() time.Time
}

// New creates a new circuit breaker with the given configuration.
// Non-positive thresholds are treated as 1.
func New(config Config) *CircuitBreaker {
	config.FailureThreshold = max(config.FailureThreshold, 1)
	config.SuccessThreshold = max(config.SuccessThreshold, 1)
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

type transition struct {
	from, to State
}

// Execute runs fn unless the circuit is open. A call whose context is already
// done is refused with the context error and does not touch the counters.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	probe, changed, err := cb.admit()
	cb.notify(changed)
	if err != nil {
		return err
	}

	err = fn()

	cb.notify(cb.record(err, probe))
	return err
}

// admit decides whether a call may run. In half-open only one probe is in flight.
func (cb *CircuitBreaker) admit() (probe bool, changed []transition, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.config.Timeout {
			return false, nil, ErrCircuitOpen
		}
		changed = append(changed, cb.setState(StateHalfOpen))
		cb.successCount = 0
		fallthrough
	case StateHalfOpen:
		if cb.probing {
			return false, changed, ErrCircuitOpen
		}
		cb.probing = true
		return true, changed, nil
	default:
		return false, nil, nil
	}
}

func (cb *CircuitBreaker) record(err error, probe bool) []transition {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if probe {
		cb.probing = false
	}
	if err == nil || errors.Is(err, context.Canceled) || (cb.config.Ignore != nil && cb.config.Ignore(err)) {
		return cb.onSuccess()
	}
	return cb.onFailure()
}

func (cb *CircuitBreaker) onFailure() []transition {
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			return []transition{cb.setState(StateOpen)}
		}
	case StateHalfOpen:
		cb.failureCount = cb.config.FailureThreshold
		return []transition{cb.setState(StateOpen)}
	}
	return nil
}

func (cb *CircuitBreaker) onSuccess() []transition {
	cb.failureCount = 0

	if cb.state != StateHalfOpen {
		cb.successCount = 0
		return nil
	}
	cb.successCount++
	if cb.successCount < cb.config.SuccessThreshold {
		return nil
	}
	cb.successCount = 0
	return []transition{cb.setState(StateClosed)}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to State) transition {
	from := cb.state
	cb.state = to

	event := log.Info()
	if to == StateOpen {
		event = log.Warn().Int("failure_count", cb.failureCount)
	}
	event.
		Str("circuit_breaker", cb.config.Name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Circuit breaker state changed")
	return transition{from: from, to: to}
}

func (cb *CircuitBreaker) notify(changed []transition) {
	if cb.config.OnStateChange == nil {
		return
	}
	for _, t := range changed {
		cb.config.OnStateChange(cb.config.Name, t.from, t.to)
	}
}

// Call runs fn through cb and returns its value.
func Call[T any](ctx context.Context, cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var callErr error
		result, callErr = fn()
		return callErr
	})
	return result, err
}

// Name returns the configured breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen returns true if the circuit breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a point-in-time view of a breaker for health reporting.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns current circuit breaker statistics.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return Stats{
		State:        cb.state.String(),
		FailureCount: cb.failureCount,
		SuccessCount: cb.successCount,
		LastFailure:  cb.lastFailureTime,
		IsHealthy:    cb.state == StateClosed,
	}
}

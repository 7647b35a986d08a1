package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// HealthChecker is anything that can report gateway health
type HealthChecker interface {
	Health(ctx context.Context) (*Health, error)
}

// ProbeResult is the outcome of one probe
type ProbeResult struct {
	Online bool
	Health *Health
	// Skipped is true when the breaker was open and no request was made.
	Skipped bool
	Err     error
}

// Probe repeatedly checks gateway health behind a circuit breaker so a
// dead gateway is not contacted on every watch tick.
type Probe struct {
	checker HealthChecker
	cb      *gobreaker.CircuitBreaker
}

// ProbeOption configures a Probe
type ProbeOption func(*gobreaker.Settings)

// WithCooldown sets how long the breaker stays open before retrying
func WithCooldown(d time.Duration) ProbeOption {
	return func(s *gobreaker.Settings) {
		s.Timeout = d
	}
}

// WithFailureThreshold sets the consecutive failures that open the breaker
func WithFailureThreshold(n uint32) ProbeOption {
	return func(s *gobreaker.Settings) {
		s.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= n
		}
	}
}

// NewProbe wraps checker in a circuit breaker
func NewProbe(checker HealthChecker, opts ...ProbeOption) *Probe {
	settings := gobreaker.Settings{
		Name:        "gateway-health",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}

	return &Probe{
		checker: checker,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// Check performs one health probe
func (p *Probe) Check(ctx context.Context) ProbeResult {
	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.checker.Health(ctx)
	})
	if err != nil {
		skipped := errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
		return ProbeResult{Online: false, Skipped: skipped, Err: err}
	}

	health, _ := result.(*Health)
	return ProbeResult{Online: true, Health: health}
}

// State reports the breaker state ("closed", "open" or "half-open")
func (p *Probe) State() string {
	return p.cb.State().String()
}

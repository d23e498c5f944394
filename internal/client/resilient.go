package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"
)

// idempotentPaths lists server calls that only read state and may be retried.
// Everything else (shares, broadcasts, grades) is sent at most once.
var idempotentPaths = map[string]bool{
	"test":                  true,
	"ask":                   true,
	"teacher_gets_passcode": true,
	"student_gets":          true,
	"student_gets_report":   true,
}

// ResilienceConfig holds configuration for the request guards
type ResilienceConfig struct {
	// EnableCircuitBreaker stops hammering a server that keeps failing
	EnableCircuitBreaker bool

	// EnableRetry retries idempotent reads with backoff
	EnableRetry bool

	// EnableRateLimit caps requests per second
	EnableRateLimit bool

	// RetryInitialDelay is the first backoff (default: 500ms)
	RetryInitialDelay time.Duration

	// RatePerSecond for rate limiting (default: 5)
	RatePerSecond int
}

// DefaultResilienceConfig returns defaults for classroom use
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		EnableCircuitBreaker: true,
		EnableRetry:          true,
		EnableRateLimit:      true,
		RetryInitialDelay:    500 * time.Millisecond,
		RatePerSecond:        5,
	}
}

type resilience struct {
	circuitBreaker circuitbreaker.CircuitBreaker[string]
	retrier        retry.Retry[string]
	rateLimit      ratelimit.RateLimiter
	logger         *slog.Logger
}

func newResilience(cfg ResilienceConfig, logger *slog.Logger) *resilience {
	r := &resilience{logger: logger}

	if cfg.EnableCircuitBreaker {
		r.circuitBreaker = circuitbreaker.New[string](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				if r.logger != nil {
					r.logger.Warn("circuit breaker state change",
						"from", from.String(),
						"to", to.String())
				}
			},
		})
	}

	if cfg.EnableRetry {
		delay := cfg.RetryInitialDelay
		if delay <= 0 {
			delay = 500 * time.Millisecond
		}
		r.retrier = retry.New[string](retry.Config{
			MaxAttempts:   3,
			InitialDelay:  delay,
			MaxDelay:      4 * delay,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isRetryable,
		})
	}

	if cfg.EnableRateLimit {
		rate := cfg.RatePerSecond
		if rate <= 0 {
			rate = 5
		}
		r.rateLimit = ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    rate * 2,
			Interval: time.Second,
		})
	}

	return r
}

// do runs a request under the configured guards. Only idempotent paths are retried.
func (r *resilience) do(ctx context.Context, path string, op func(context.Context) (string, error)) (string, error) {
	if r.rateLimit != nil && !r.rateLimit.Allow(ctx, "gem") {
		return "", fmt.Errorf("rate limit exceeded for %s", path)
	}

	operation := op
	if r.retrier != nil && idempotentPaths[path] {
		operation = func(ctx context.Context) (string, error) {
			return r.retrier.Do(ctx, op)
		}
	}

	if r.circuitBreaker != nil {
		return r.circuitBreaker.Execute(ctx, operation)
	}
	return operation(ctx)
}

// Close releases resources held by the guards
func (r *resilience) Close() error {
	if r.rateLimit != nil {
		return r.rateLimit.Close()
	}
	return nil
}

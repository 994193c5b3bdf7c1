package generator

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/verdant/landplan/internal/persistence"
	"github.com/verdant/landplan/internal/schedule"
)

// RetryConfig configures exponential backoff retry behavior for store writes.
type RetryConfig struct {
	InitialInterval     time.Duration // Initial retry interval (default 100ms)
	MaxInterval         time.Duration // Maximum retry interval (default 5s)
	MaxElapsedTime      time.Duration // Maximum total retry time (default 30s)
	Multiplier          float64       // Backoff multiplier (default 2.0)
	RandomizationFactor float64       // Jitter factor (default 0.5)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval:     100 * time.Millisecond,
		MaxInterval:         5 * time.Second,
		MaxElapsedTime:      30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.5,
	}
}

// newStoreBreaker creates a circuit breaker guarding one schedule store.
// A local sqlite file and a remote schedule service fail differently, but
// both produce transient errors (SQLITE_BUSY, 5xx, connection resets) that
// warrant the same trip-and-recover treatment.
func newStoreBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3, // Allow 3 test requests in half-open state
		Interval:    0, // Don't clear counts automatically
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %q: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Don't count user cancellation as a store failure
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			// A missing row is an answer, not an outage
			if errors.Is(err, persistence.ErrNotFound) {
				return true
			}
			return false
		},
	})
}

// saveWithRetry persists a schedule with exponential backoff retry and
// circuit breaker protection. Returns the durable id assigned by the store.
func saveWithRetry(ctx context.Context, store persistence.Store, sched *schedule.Schedule, cb *gobreaker.CircuitBreaker, retryCfg RetryConfig) (string, error) {
	var id string

	operation := func() error {
		// Check context first - fail fast if cancelled
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		// Execute through circuit breaker
		result, err := cb.Execute(func() (interface{}, error) {
			return store.SaveSchedule(ctx, sched)
		})

		if err != nil {
			// Circuit is open - don't retry
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}

			// Context cancelled - stop retrying
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}

			// Other errors will be retried
			return err
		}

		id = result.(string)
		return nil
	}

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = retryCfg.InitialInterval
	backoffPolicy.MaxInterval = retryCfg.MaxInterval
	backoffPolicy.MaxElapsedTime = retryCfg.MaxElapsedTime
	backoffPolicy.Multiplier = retryCfg.Multiplier
	backoffPolicy.RandomizationFactor = retryCfg.RandomizationFactor

	backoffWithContext := backoff.WithContext(backoffPolicy, ctx)

	err := backoff.Retry(operation, backoffWithContext)
	return id, err
}

package api

import (
	"context"
	"math"
	"time"

	"bazaarku/internal/config"

	"github.com/avast/retry-go/v4"
)

// RetryPolicy defines bounded backoff for transient network failures.
// Only NetworkError is retried; every other error is final.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NoRetry performs a single attempt.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// DetailRetryPolicy is used by the event detail page: two attempts with a
// fixed delay in between.
func DetailRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, InitialDelay: time.Second, BackoffFactor: 1}
}

type retryPolicyKey struct{}

// WithRetryPolicy makes GET requests issued under ctx use p instead of the
// client's own policy. Callers that retry on their own pass NoRetry.
func WithRetryPolicy(ctx context.Context, p RetryPolicy) context.Context {
	return context.WithValue(ctx, retryPolicyKey{}, p)
}

func retryPolicyFrom(ctx context.Context, fallback RetryPolicy) RetryPolicy {
	if p, ok := ctx.Value(retryPolicyKey{}).(RetryPolicy); ok {
		return p
	}
	return fallback
}

func PolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      cfg.MaxDelay,
		BackoffFactor: cfg.BackoffFactor,
	}
}

// NextDelay returns delay for a given attempt (1-based) with clamping.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}

func (r RetryPolicy) attempts() uint {
	if r.MaxAttempts < 1 {
		return 1
	}
	return uint(r.MaxAttempts)
}

// Retry runs fn under policy. The error of the last attempt is returned
// as-is so callers can keep matching on the typed errors.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)

	err := retry.Do(
		func() error {
			v, err := fn(ctx)
			lastErr = err
			if err == nil {
				result = v
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(policy.attempts()),
		retry.RetryIf(IsNetworkError),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return policy.NextDelay(int(n) + 1)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var zero T
		if lastErr != nil {
			return zero, lastErr
		}
		return zero, err
	}
	return result, nil
}

package api

import (
	"context"
	"sync"

	"bazaarku/internal/config"
	"bazaarku/internal/metrics"

	"golang.org/x/time/rate"
)

// rateLimiter throttles outgoing requests per endpoint template so one
// chatty listing cannot starve the rest of the client.
type rateLimiter struct {
	limiters sync.Map
	cfg      config.APIRateLimitConfig
}

func newRateLimiter(cfg config.APIRateLimitConfig) *rateLimiter {
	if cfg.RPS <= 0 {
		return nil
	}
	return &rateLimiter{cfg: cfg}
}

// Wait blocks until path may be requested. A nil limiter never blocks.
func (l *rateLimiter) Wait(ctx context.Context, path string) error {
	if l == nil {
		return nil
	}
	return l.getLimiter(metrics.EndpointTemplate(path)).Wait(ctx)
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

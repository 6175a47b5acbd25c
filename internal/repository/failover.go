package repository

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"bazaarku/internal/domain"

	"github.com/rs/zerolog"
)

const failoverRecheckInterval = time.Minute

// FailoverSessionStore uses primary until it errors, then serves from
// fallback and retries primary once per recheck interval. Keys written or
// cleared while primary is down are replayed onto it before it is used
// again.
type FailoverSessionStore struct {
	primary  domain.SessionStore
	fallback domain.SessionStore
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
	dirty     map[string]struct{}
}

func NewFailoverSessionStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverSessionStore {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FailoverSessionStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		dirty:    make(map[string]struct{}),
	}
}

func (r *FailoverSessionStore) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session store failed, falling back to secondary store")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverSessionStore) shouldRecheck() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) <= failoverRecheckInterval {
		return false
	}
	r.lastCheck = time.Now()
	return true
}

func (r *FailoverSessionStore) markDirty(keys ...string) {
	r.mu.Lock()
	for _, k := range keys {
		r.dirty[k] = struct{}{}
	}
	r.mu.Unlock()
}

func (r *FailoverSessionStore) dirtyKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.dirty))
	for k := range r.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resync copies the fallback's view of every dirty key onto primary.
// Primary stays marked down unless every key was replayed.
func (r *FailoverSessionStore) resync(ctx context.Context) error {
	keys := r.dirtyKeys()
	for _, key := range keys {
		val, ok, err := r.fallback.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			err = r.primary.Set(ctx, key, val)
		} else {
			err = r.primary.Clear(ctx, key)
		}
		if err != nil {
			return err
		}
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.fallback.Clear(ctx, keys...); err != nil {
		r.logger.Warn().Err(err).Msg("Drop replayed keys from secondary store")
	}
	r.mu.Lock()
	for _, k := range keys {
		delete(r.dirty, k)
	}
	r.mu.Unlock()
	r.logger.Info().Int("keys", len(keys)).Msg("Replayed session changes onto primary store")
	return nil
}

func (r *FailoverSessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	if !r.isDown.Load() {
		val, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			return val, ok, nil
		}
		r.markDown(err)
	} else if r.shouldRecheck() {
		if err := r.resync(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("Primary session store still unavailable")
			return r.fallback.Get(ctx, key)
		}
		val, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			r.isDown.Store(false)
			return val, ok, nil
		}
	}

	return r.fallback.Get(ctx, key)
}

func (r *FailoverSessionStore) Set(ctx context.Context, key, value string) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, key, value)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	r.markDirty(key)
	return r.fallback.Set(ctx, key, value)
}

// Clear always clears the fallback too, so a session written while the
// primary was down cannot outlive a logout. A clear primary missed is
// replayed on recovery.
func (r *FailoverSessionStore) Clear(ctx context.Context, keys ...string) error {
	fallbackErr := r.fallback.Clear(ctx, keys...)
	if !r.isDown.Load() {
		err := r.primary.Clear(ctx, keys...)
		if err == nil {
			return fallbackErr
		}
		r.markDown(err)
	}

	r.markDirty(keys...)
	return fallbackErr
}

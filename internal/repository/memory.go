package repository

import (
	"context"
	"sync"
)

// MemorySessionStore keeps the session in process memory. It backs tests,
// one-shot CLI runs and the failover path when redis is unreachable.
type MemorySessionStore struct {
	values sync.Map
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (r *MemorySessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := r.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return val.(string), true, nil
}

func (r *MemorySessionStore) Set(ctx context.Context, key, value string) error {
	r.values.Store(key, value)
	return nil
}

func (r *MemorySessionStore) Clear(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		r.values.Delete(key)
	}
	return nil
}

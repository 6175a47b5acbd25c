package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bazaarku/internal/events"
	"bazaarku/internal/models"
	"bazaarku/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	calls atomic.Int32
	title string
}

func (n *countingNotifier) Notify(_ context.Context, title, _ string) error {
	n.calls.Add(1)
	n.title = title
	return nil
}

func seedSession(t *testing.T, store *repository.MemorySessionStore) {
	t.Helper()
	require.NoError(t, Save(context.Background(), store, &models.Session{
		Token: "tok",
		User:  &models.UserProfile{ID: 11, Email: "vendor@example.com"},
	}))
}

func TestExpiryFlowRunsOnce(t *testing.T) {
	store := repository.NewMemorySessionStore()
	seedSession(t, store)

	notifier := &countingNotifier{}
	nav := NewRouteTracker("/events/5")
	bus := events.NewEventBus()

	var published []events.SessionEventPayload
	bus.Subscribe(events.EventSessionExpired, func(e *events.Event) error {
		var p events.SessionEventPayload
		assert.NoError(t, e.Decode(&p))
		published = append(published, p)
		return nil
	})

	flow := NewExpiryFlow(ExpiryOptions{
		Store:     store,
		Notifier:  notifier,
		Navigator: nav,
		Publisher: bus,
		Delay:     5 * time.Millisecond,
	})
	assert.Equal(t, StateActive, flow.State())

	var wg sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if flow.Expire(context.Background(), "http_401") {
				ran.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, int32(1), notifier.calls.Load())
	assert.Equal(t, ExpiredTitle, notifier.title)
	assert.Equal(t, StateExpired, flow.State())
	assert.Equal(t, "/", nav.Current())
	assert.Equal(t, []string{"/"}, nav.Replacements())

	for _, key := range Keys {
		_, ok, _ := store.Get(context.Background(), key)
		assert.False(t, ok, key)
	}

	require.Len(t, published, 1)
	assert.Equal(t, int64(11), published[0].UserID)
	assert.Equal(t, "http_401", published[0].Reason)
}

func TestExpiryFlowWaitsBeforeClearing(t *testing.T) {
	store := repository.NewMemorySessionStore()
	seedSession(t, store)

	var slept time.Duration
	flow := NewExpiryFlow(ExpiryOptions{Store: store, Delay: 1500 * time.Millisecond, Route: "/login"})
	flow.sleep = func(_ context.Context, d time.Duration) {
		slept = d
		_, ok, _ := store.Get(context.Background(), models.StorageKeyToken)
		assert.True(t, ok, "token must survive until the delay elapsed")
	}

	nav := NewRouteTracker("/admin")
	flow.navigator = nav

	assert.True(t, flow.Expire(context.Background(), "http_402"))
	assert.Equal(t, 1500*time.Millisecond, slept)
	assert.Equal(t, "/login", nav.Current())
}

func TestExpiryFlowCancelledContextStillClears(t *testing.T) {
	store := repository.NewMemorySessionStore()
	seedSession(t, store)

	flow := NewExpiryFlow(ExpiryOptions{Store: store, Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		flow.Expire(ctx, "http_401")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expire blocked on a cancelled context")
	}

	_, ok, _ := store.Get(context.Background(), models.StorageKeyToken)
	assert.False(t, ok)
}

func TestExpiryFlowRearm(t *testing.T) {
	store := repository.NewMemorySessionStore()
	flow := NewExpiryFlow(ExpiryOptions{Store: store})

	assert.True(t, flow.Expire(context.Background(), "http_401"))
	assert.False(t, flow.Expire(context.Background(), "http_401"))

	flow.Rearm()
	assert.Equal(t, StateActive, flow.State())
	assert.True(t, flow.Expire(context.Background(), "http_401"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "expired", StateExpired.String())
}

func TestExpiryFlowLateCallersWaitForSequence(t *testing.T) {
	store := repository.NewMemorySessionStore()
	seedSession(t, store)

	entered := make(chan struct{})
	release := make(chan struct{})
	flow := NewExpiryFlow(ExpiryOptions{Store: store, Delay: time.Second})
	flow.sleep = func(context.Context, time.Duration) {
		close(entered)
		<-release
	}

	go flow.Expire(context.Background(), "http_401")
	<-entered

	late := make(chan bool, 1)
	go func() { late <- flow.Expire(context.Background(), "http_401") }()

	select {
	case <-late:
		t.Fatal("late caller returned while the notice was still showing")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case ran := <-late:
		assert.False(t, ran)
	case <-time.After(2 * time.Second):
		t.Fatal("late caller never returned")
	}
	_, ok, _ := store.Get(context.Background(), models.StorageKeyToken)
	assert.False(t, ok)
}

func TestExpiryFlowLateCallerHonoursOwnContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	entered := make(chan struct{})
	flow := NewExpiryFlow(ExpiryOptions{Store: repository.NewMemorySessionStore(), Delay: time.Second})
	flow.sleep = func(context.Context, time.Duration) {
		close(entered)
		<-release
	}

	go flow.Expire(context.Background(), "http_401")
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, flow.Expire(ctx, "http_402"))
}

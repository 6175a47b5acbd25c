package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"bazaarku/internal/domain"
	"bazaarku/internal/events"
	"bazaarku/internal/metrics"
	"bazaarku/internal/models"

	"github.com/rs/zerolog"
)

type State int32

const (
	StateActive State = iota
	StateExpired
)

func (s State) String() string {
	if s == StateExpired {
		return "expired"
	}
	return "active"
}

const (
	ExpiredTitle   = "Session expired"
	ExpiredMessage = "Your session has expired. Please sign in again."
)

// ExpiryFlow is the two-state ACTIVE -> EXPIRED machine behind a forced
// logout. Only the first Expire call of a session runs the sequence.
type ExpiryFlow struct {
	store     domain.SessionStore
	notifier  domain.Notifier
	navigator domain.Navigator
	publisher domain.EventPublisher
	logger    zerolog.Logger

	delay time.Duration
	route string
	sleep func(ctx context.Context, d time.Duration)

	state atomic.Int32

	mu   sync.Mutex
	done chan struct{}
}

type ExpiryOptions struct {
	Store     domain.SessionStore
	Notifier  domain.Notifier
	Navigator domain.Navigator
	Publisher domain.EventPublisher
	Logger    *zerolog.Logger
	// Delay keeps the notice visible before the session is torn down.
	Delay time.Duration
	Route string
}

func NewExpiryFlow(opts ExpiryOptions) *ExpiryFlow {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "session-expiry").Logger()
	}
	route := opts.Route
	if route == "" {
		route = models.DefaultRedirectRoute
	}
	return &ExpiryFlow{
		store:     opts.Store,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		publisher: opts.Publisher,
		logger:    logger,
		delay:     opts.Delay,
		route:     route,
		sleep:     sleepContext,
		done:      make(chan struct{}),
	}
}

func (f *ExpiryFlow) State() State {
	return State(f.state.Load())
}

// Rearm returns the machine to ACTIVE for a freshly issued session.
func (f *ExpiryFlow) Rearm() {
	f.mu.Lock()
	f.done = make(chan struct{})
	f.state.Store(int32(StateActive))
	f.mu.Unlock()
}

// Expire runs notice, delay, clear and redirect. It reports whether this
// call performed the sequence; concurrent and later calls return false
// once the running sequence has finished or their own ctx is done.
func (f *ExpiryFlow) Expire(ctx context.Context, reason string) bool {
	f.mu.Lock()
	done := f.done
	won := f.state.CompareAndSwap(int32(StateActive), int32(StateExpired))
	f.mu.Unlock()

	if !won {
		select {
		case <-done:
		case <-ctx.Done():
		}
		return false
	}
	defer close(done)

	metrics.IncSessionExpired(reason)

	// Teardown must finish even when the triggering request was cancelled;
	// only the notice delay is cut short by ctx.
	teardown := context.WithoutCancel(ctx)

	payload := events.SessionEventPayload{Reason: reason, Route: f.route}
	if s, err := Load(teardown, f.store); err == nil && s != nil && s.User != nil {
		payload.UserID = s.User.ID
		payload.Email = s.User.Email
	}

	f.logger.Warn().Str("reason", reason).Int64("user_id", payload.UserID).Msg("session expired, forcing logout")

	if f.notifier != nil {
		if err := f.notifier.Notify(teardown, ExpiredTitle, ExpiredMessage); err != nil {
			f.logger.Error().Err(err).Msg("show expiry notice")
		}
	}

	if f.delay > 0 {
		f.sleep(ctx, f.delay)
	}

	if err := Clear(teardown, f.store); err != nil {
		f.logger.Error().Err(err).Msg("clear expired session")
	}

	if f.publisher != nil {
		if err := f.publisher.PublishJSON(events.EventSessionExpired, payload); err != nil {
			f.logger.Error().Err(err).Msg("publish session expired")
		}
	}

	if f.navigator != nil {
		if err := f.navigator.Replace(teardown, f.route); err != nil {
			f.logger.Error().Err(err).Str("route", f.route).Msg("redirect after expiry")
		}
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package service

import (
	"context"
	"testing"

	"bazaarku/internal/api"
	"bazaarku/internal/events"
	"bazaarku/internal/models"
	"bazaarku/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionServiceLogin(t *testing.T) {
	ctx := context.Background()
	auth := new(mockAuthAPI)
	store := repository.NewMemorySessionStore()
	rearm := &rearmCounter{}
	bus := events.NewEventBus()

	var started []events.SessionEventPayload
	bus.Subscribe(events.EventSessionStarted, func(e *events.Event) error {
		var p events.SessionEventPayload
		assert.NoError(t, e.Decode(&p))
		started = append(started, p)
		return nil
	})

	svc := NewSessionService(auth, store, rearm, bus, nil)

	auth.On("Login", mock.Anything, models.LoginRequest{Email: "sari@example.com", Password: "pw"}).
		Return(&models.AuthResponse{Token: "tok", User: &models.UserProfile{ID: 5, Email: "sari@example.com"}}, nil).Once()

	sess, err := svc.Login(ctx, "sari@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, 1, rearm.calls)
	require.Len(t, started, 1)
	assert.Equal(t, int64(5), started[0].UserID)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sari@example.com", current.User.Email)
	auth.AssertExpectations(t)
}

func TestSessionServiceLoginFetchesMissingProfile(t *testing.T) {
	ctx := context.Background()
	auth := new(mockAuthAPI)
	store := repository.NewMemorySessionStore()
	svc := NewSessionService(auth, store, nil, nil, nil)

	auth.On("Login", mock.Anything, mock.Anything).Return(&models.AuthResponse{Token: "tok"}, nil).Once()
	auth.On("Profile", mock.Anything).Return(&models.UserProfile{ID: 8, FirstName: "Ayu"}, nil).Once()

	sess, err := svc.Login(ctx, "ayu@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, sess.User)
	assert.Equal(t, int64(8), sess.User.ID)

	raw, ok, err := store.Get(ctx, models.StorageKeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, `"first_name":"Ayu"`)
}

func TestSessionServiceLoginWithoutToken(t *testing.T) {
	auth := new(mockAuthAPI)
	svc := NewSessionService(auth, repository.NewMemorySessionStore(), nil, nil, nil)

	auth.On("Login", mock.Anything, mock.Anything).Return(&models.AuthResponse{Success: true}, nil).Once()
	_, err := svc.Login(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSessionServiceSignupWithoutSession(t *testing.T) {
	auth := new(mockAuthAPI)
	store := repository.NewMemorySessionStore()
	svc := NewSessionService(auth, store, nil, nil, nil)

	auth.On("Signup", mock.Anything, mock.Anything).Return(&models.AuthResponse{Success: true, Message: "created"}, nil).Once()
	sess, err := svc.Signup(context.Background(), models.SignupRequest{FirstName: "Dewi", Email: "d@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, err = svc.Current(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSessionServiceLogout(t *testing.T) {
	ctx := context.Background()
	auth := new(mockAuthAPI)
	store := repository.NewMemorySessionStore()
	bus := events.NewEventBus()
	cleared := 0
	bus.Subscribe(events.EventSessionCleared, func(*events.Event) error {
		cleared++
		return nil
	})
	svc := NewSessionService(auth, store, nil, bus, nil)

	t.Run("NoSession", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx))
		auth.AssertNotCalled(t, "Logout", mock.Anything)
	})

	t.Run("BackendFailureStillClears", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, models.StorageKeyToken, "tok"))
		auth.On("Logout", mock.Anything).Return(&api.HTTPError{StatusCode: 500}).Once()

		require.NoError(t, svc.Logout(ctx))
		_, ok, err := store.Get(ctx, models.StorageKeyToken)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, cleared)
	})
}

func TestSessionServiceRefreshProfile(t *testing.T) {
	ctx := context.Background()
	auth := new(mockAuthAPI)
	store := repository.NewMemorySessionStore()
	svc := NewSessionService(auth, store, nil, nil, nil)

	_, err := svc.RefreshProfile(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	require.NoError(t, store.Set(ctx, models.StorageKeyToken, "tok"))
	auth.On("Profile", mock.Anything).Return(&models.UserProfile{ID: 2, Role: models.RoleAdmin}, nil).Once()

	profile, err := svc.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin())

	sess, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, sess.User.IsAdmin())
}

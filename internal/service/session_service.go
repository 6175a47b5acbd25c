package service

import (
	"context"
	"errors"
	"fmt"

	"bazaarku/internal/api"
	"bazaarku/internal/domain"
	"bazaarku/internal/events"
	"bazaarku/internal/models"
	"bazaarku/internal/session"

	"github.com/rs/zerolog"
)

var (
	ErrNoToken     = errors.New("backend did not issue a session token")
	ErrNotSignedIn = errors.New("not signed in")
)

// SessionService owns login, signup and logout of the local session.
type SessionService struct {
	auth     domain.AuthAPI
	store    domain.SessionStore
	expiry   domain.ExpiryRearmer
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewSessionService(auth domain.AuthAPI, store domain.SessionStore, expiry domain.ExpiryRearmer, eventBus domain.EventPublisher, logger *zerolog.Logger) *SessionService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SessionService{
		auth:     auth,
		store:    store,
		expiry:   expiry,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	sess := resp.Session()
	if !sess.Valid() {
		return nil, ErrNoToken
	}
	return s.start(ctx, sess)
}

// Signup registers an account. Backends that do not sign the new user in
// return no token; the session is then nil and the caller must log in.
func (s *SessionService) Signup(ctx context.Context, req models.SignupRequest) (*models.Session, error) {
	resp, err := s.auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	sess := resp.Session()
	if !sess.Valid() {
		s.logger.Info().Str("email", req.Email).Msg("account created without session")
		return nil, nil
	}
	return s.start(ctx, sess)
}

func (s *SessionService) start(ctx context.Context, sess *models.Session) (*models.Session, error) {
	if err := session.Save(ctx, s.store, sess); err != nil {
		return nil, err
	}
	if s.expiry != nil {
		s.expiry.Rearm()
	}

	if sess.User == nil {
		profile, err := s.auth.Profile(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("fetch profile after login")
		} else {
			sess.User = profile
			if err := session.SaveProfile(ctx, s.store, profile); err != nil {
				return nil, err
			}
		}
	}

	payload := events.SessionEventPayload{}
	if sess.User != nil {
		payload.UserID = sess.User.ID
		payload.Email = sess.User.Email
	}
	s.publish(events.EventSessionStarted, payload)

	s.logger.Info().Int64("user_id", payload.UserID).Msg("session started")
	return sess, nil
}

// Current returns the stored session or ErrNotSignedIn.
func (s *SessionService) Current(ctx context.Context) (*models.Session, error) {
	sess, err := session.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, ErrNotSignedIn
	}
	return sess, nil
}

// RefreshProfile reloads the profile from the backend and caches it.
func (s *SessionService) RefreshProfile(ctx context.Context) (*models.UserProfile, error) {
	if _, err := s.Current(ctx); err != nil {
		return nil, err
	}
	profile, err := s.auth.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := session.SaveProfile(ctx, s.store, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Logout tells the backend best-effort and always clears the local session.
func (s *SessionService) Logout(ctx context.Context) error {
	sess, err := session.Load(ctx, s.store)
	if err != nil {
		return err
	}
	if !sess.Valid() {
		return nil
	}

	if err := s.auth.Logout(ctx); err != nil && !api.IsSessionExpired(err) {
		s.logger.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
	}

	if err := session.Clear(ctx, s.store); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	payload := events.SessionEventPayload{Reason: "logout"}
	if sess.User != nil {
		payload.UserID = sess.User.ID
		payload.Email = sess.User.Email
	}
	s.publish(events.EventSessionCleared, payload)
	return nil
}

func (s *SessionService) publish(eventType string, payload any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish event")
	}
}

// Package session persists the client session in a domain.SessionStore and
// runs the forced-logout sequence when the backend rejects it.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"bazaarku/internal/domain"
	"bazaarku/internal/models"
)

// Keys lists every storage key that belongs to the session.
var Keys = []string{models.StorageKeyToken, models.StorageKeyUser}

// Load returns the stored session, or nil when no token is stored.
// A corrupt profile is dropped rather than failing the whole session.
func Load(ctx context.Context, store domain.SessionStore) (*models.Session, error) {
	token, ok, err := store.Get(ctx, models.StorageKeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if !ok || token == "" {
		return nil, nil
	}

	s := &models.Session{Token: token}
	if exp, ok := TokenExpiry(token); ok {
		s.ExpiresAt = exp
	}

	raw, ok, err := store.Get(ctx, models.StorageKeyUser)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if ok && raw != "" {
		var profile models.UserProfile
		if json.Unmarshal([]byte(raw), &profile) == nil {
			s.User = &profile
		}
	}
	return s, nil
}

// Token returns the stored bearer token, "" when absent.
func Token(ctx context.Context, store domain.SessionStore) (string, error) {
	token, _, err := store.Get(ctx, models.StorageKeyToken)
	return token, err
}

// Save writes token and profile. The profile key is removed when s.User is nil
// so a stale profile never pairs with a new token.
func Save(ctx context.Context, store domain.SessionStore, s *models.Session) error {
	if !s.Valid() {
		return fmt.Errorf("save session: empty token")
	}
	if err := store.Set(ctx, models.StorageKeyToken, s.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if s.User == nil {
		return store.Clear(ctx, models.StorageKeyUser)
	}
	return SaveProfile(ctx, store, s.User)
}

func SaveProfile(ctx context.Context, store domain.SessionStore, profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := store.Set(ctx, models.StorageKeyUser, string(raw)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Clear removes every session key.
func Clear(ctx context.Context, store domain.SessionStore) error {
	if err := store.Clear(ctx, Keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

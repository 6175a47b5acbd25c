package domain

import (
	"context"

	"bazaarku/internal/models"
)

// SessionStore is the durable key/value storage holding the client session.
// Get reports ok=false for a missing key.
type SessionStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Navigator moves the user to another route, replacing history.
type Navigator interface {
	Replace(ctx context.Context, route string) error
}

// ExpiryTrigger runs the forced-logout sequence for the current session.
type ExpiryTrigger interface {
	Expire(ctx context.Context, reason string) bool
}

// ExpiryRearmer returns the forced-logout machine to ACTIVE after a new
// session is issued.
type ExpiryRearmer interface {
	Rearm()
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// EventsAPI is the subset of backend calls the event detail page needs.
type EventsAPI interface {
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEventRatings(ctx context.Context, eventID int64) ([]models.Rating, error)
	ListUserBooths(ctx context.Context, userID int64) ([]models.Booth, error)
}

type RatingsAPI interface {
	CreateRating(ctx context.Context, in models.RatingInput) (*models.Rating, error)
}

type BoothsAPI interface {
	CreateBooth(ctx context.Context, in models.BoothInput) (*models.Booth, error)
	UpdateBoothStatus(ctx context.Context, id int64, status string) (*models.Booth, error)
}

// AdminAPI lists the admin tables page by page.
type AdminAPI interface {
	ListEvents(ctx context.Context, p models.ListParams) ([]models.Event, *models.Pagination, error)
	ListRatings(ctx context.Context, p models.ListParams) ([]models.Rating, *models.Pagination, error)
	ListUsers(ctx context.Context, p models.ListParams) ([]models.AdminUser, *models.Pagination, error)
	ListBooths(ctx context.Context, p models.ListParams) ([]models.Booth, *models.Pagination, error)
}

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context) (*models.UserProfile, error)
	Logout(ctx context.Context) error
}

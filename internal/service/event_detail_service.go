package service

import (
	"context"
	"fmt"
	"time"

	"bazaarku/internal/api"
	"bazaarku/internal/domain"
	"bazaarku/internal/eligibility"
	"bazaarku/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// EventDetail is everything the event page shows, derived from one round of
// fetches.
type EventDetail struct {
	Event           models.Event
	Ratings         []models.Rating
	UserBooths      []models.Booth
	AcceptedBooths  int
	AvailableBooths int
	AverageRating   float64
	Review          eligibility.Result
	RemainingLabel  string
}

type EventDetailService struct {
	api    domain.EventsAPI
	retry  api.RetryPolicy
	now    func() time.Time
	logger *zerolog.Logger
}

func NewEventDetailService(eventsAPI domain.EventsAPI, logger *zerolog.Logger) *EventDetailService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EventDetailService{
		api:    eventsAPI,
		retry:  api.DetailRetryPolicy(),
		now:    time.Now,
		logger: logger,
	}
}

// WithRetryPolicy replaces the default two-attempt policy.
func (s *EventDetailService) WithRetryPolicy(p api.RetryPolicy) *EventDetailService {
	s.retry = p
	return s
}

// Load fetches the event, its ratings and (for a signed-in user) the user's
// booths concurrently and waits for all of them. user may be nil.
func (s *EventDetailService) Load(ctx context.Context, eventID int64, user *models.UserProfile) (*EventDetail, error) {
	var (
		event   *models.Event
		ratings []models.Rating
		booths  []models.Booth
	)

	g, gctx := errgroup.WithContext(ctx)
	// The detail policy is the only retry layer for these calls.
	gctx = api.WithRetryPolicy(gctx, api.NoRetry)
	g.Go(func() error {
		var err error
		event, err = api.Retry(gctx, s.retry, func(ctx context.Context) (*models.Event, error) {
			return s.api.GetEvent(ctx, eventID)
		})
		if err != nil {
			return fmt.Errorf("load event %d: %w", eventID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ratings, err = api.Retry(gctx, s.retry, func(ctx context.Context) ([]models.Rating, error) {
			return s.api.ListEventRatings(ctx, eventID)
		})
		if err != nil {
			return fmt.Errorf("load ratings of event %d: %w", eventID, err)
		}
		return nil
	})
	if user != nil {
		g.Go(func() error {
			var err error
			booths, err = api.Retry(gctx, s.retry, func(ctx context.Context) ([]models.Booth, error) {
				return s.api.ListUserBooths(ctx, user.ID)
			})
			if err != nil {
				return fmt.Errorf("load booths of user %d: %w", user.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Int64("event_id", eventID).Msg("event detail fetch failed")
		return nil, err
	}

	return s.derive(*event, ratings, booths, user), nil
}

func (s *EventDetailService) derive(event models.Event, ratings []models.Rating, booths []models.Booth, user *models.UserProfile) *EventDetail {
	accepted := eligibility.AcceptedBooths(event.ID, event.Booths)
	d := &EventDetail{
		Event:           event,
		Ratings:         ratings,
		UserBooths:      booths,
		AcceptedBooths:  accepted,
		AvailableBooths: eligibility.AvailableBooths(event.Slot, accepted),
		AverageRating:   eligibility.AverageRating(ratings),
	}
	if user != nil {
		d.Review = eligibility.CanReview(user.ID, event, booths, ratings, s.now())
	}
	d.RemainingLabel = eligibility.RemainingLabel(d.Review.Remaining)
	return d
}

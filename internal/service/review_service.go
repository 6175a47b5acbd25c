package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaarku/internal/api"
	"bazaarku/internal/domain"
	"bazaarku/internal/eligibility"
	"bazaarku/internal/events"
	"bazaarku/internal/models"
	"bazaarku/internal/session"

	"github.com/rs/zerolog"
)

var ErrReviewNotAllowed = errors.New("review not allowed")

type ReviewService struct {
	details  *EventDetailService
	ratings  domain.RatingsAPI
	store    domain.SessionStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReviewService(details *EventDetailService, ratings domain.RatingsAPI, store domain.SessionStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReviewService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ReviewService{
		details:  details,
		ratings:  ratings,
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Submit posts a review after re-checking eligibility against freshly
// fetched booths and ratings.
func (s *ReviewService) Submit(ctx context.Context, in models.RatingInput) (*models.Rating, error) {
	if err := api.ValidateRating(in); err != nil {
		return nil, err
	}

	sess, err := session.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() || sess.User == nil {
		return nil, ErrNotSignedIn
	}

	detail, err := s.details.Load(ctx, in.EventID, sess.User)
	if err != nil {
		return nil, err
	}
	if !detail.Review.Eligible {
		return nil, notAllowedReason(detail, s.details.now())
	}

	if in.Name == "" {
		in.Name = sess.User.FullName()
	}

	rating, err := s.ratings.CreateRating(ctx, in)
	if err != nil {
		return nil, err
	}

	remaining := detail.Review.Remaining - 1
	if s.eventBus != nil {
		payload := events.ReviewEventPayload{
			EventID:    in.EventID,
			UserID:     sess.User.ID,
			RatingID:   rating.ID,
			RatingStar: in.RatingStar,
			Remaining:  remaining,
		}
		if err := s.eventBus.PublishJSON(events.EventReviewPosted, payload); err != nil {
			s.logger.Error().Err(err).Msg("publish review posted")
		}
	}

	s.logger.Info().
		Int64("event_id", in.EventID).
		Int64("user_id", sess.User.ID).
		Int("rating_star", in.RatingStar).
		Int("remaining", remaining).
		Msg("review posted")
	return rating, nil
}

func notAllowedReason(d *EventDetail, now time.Time) error {
	if d.Review.Remaining == 0 {
		return fmt.Errorf("%w: no approved booth left to review", ErrReviewNotAllowed)
	}
	end, err := eligibility.ParseEventTime(d.Event.EndDate)
	if err != nil {
		return fmt.Errorf("%w: event end date unknown", ErrReviewNotAllowed)
	}
	if !now.After(end) {
		return fmt.Errorf("%w: event has not ended yet", ErrReviewNotAllowed)
	}
	return ErrReviewNotAllowed
}

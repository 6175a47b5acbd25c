package service

import (
	"context"
	"errors"
	"fmt"

	"bazaarku/internal/domain"
	"bazaarku/internal/eligibility"
	"bazaarku/internal/events"
	"bazaarku/internal/models"

	"github.com/rs/zerolog"
)

var ErrNoBoothsAvailable = errors.New("no booths available")

type BoothService struct {
	events   domain.EventsAPI
	booths   domain.BoothsAPI
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBoothService(eventsAPI domain.EventsAPI, booths domain.BoothsAPI, eventBus domain.EventPublisher, logger *zerolog.Logger) *BoothService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BoothService{
		events:   eventsAPI,
		booths:   booths,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Apply files a booth application. A full event is refused locally; the
// backend stays authoritative for everything else.
func (s *BoothService) Apply(ctx context.Context, in models.BoothInput) (*models.Booth, error) {
	event, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	available := eligibility.AvailableBooths(event.Slot, eligibility.AcceptedBooths(event.ID, event.Booths))
	if available == 0 {
		return nil, fmt.Errorf("%w for event %d", ErrNoBoothsAvailable, in.EventID)
	}

	booth, err := s.booths.CreateBooth(ctx, in)
	if err != nil {
		return nil, err
	}

	s.publish(events.BoothEventPayload{
		BoothID:   booth.ID,
		EventID:   in.EventID,
		UserID:    booth.UserID,
		Status:    booth.Status,
		Available: available,
	}, events.EventBoothApplied)
	return booth, nil
}

// Approve marks a booth APPROVED.
func (s *BoothService) Approve(ctx context.Context, id int64) (*models.Booth, error) {
	return s.decide(ctx, id, models.BoothApproved)
}

// Reject marks a booth REJECTED.
func (s *BoothService) Reject(ctx context.Context, id int64) (*models.Booth, error) {
	return s.decide(ctx, id, models.BoothRejected)
}

func (s *BoothService) decide(ctx context.Context, id int64, status string) (*models.Booth, error) {
	booth, err := s.booths.UpdateBoothStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("booth_id", id).Str("status", status).Msg("booth decided")
	s.publish(events.BoothEventPayload{BoothID: id, EventID: booth.EventID, UserID: booth.UserID, Status: status}, events.EventBoothReviewed)
	return booth, nil
}

func (s *BoothService) publish(payload events.BoothEventPayload, eventType string) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish booth event")
	}
}

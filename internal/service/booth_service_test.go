package service

import (
	"context"
	"testing"

	"bazaarku/internal/events"
	"bazaarku/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBoothApply(t *testing.T) {
	eventsAPI := new(mockEventsAPI)
	boothsAPI := new(mockBoothsAPI)
	bus := events.NewEventBus()
	applied := 0
	bus.Subscribe(events.EventBoothApplied, func(*events.Event) error {
		applied++
		return nil
	})
	svc := NewBoothService(eventsAPI, boothsAPI, bus, nil)
	in := models.BoothInput{EventID: 7, VendorID: 2}

	eventsAPI.On("GetEvent", mock.Anything, int64(7)).Return(endedEvent(), nil).Once()
	boothsAPI.On("CreateBooth", mock.Anything, in).Return(&models.Booth{ID: 40, EventID: 7, UserID: 3, Status: models.BoothPending}, nil).Once()

	booth, err := svc.Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.BoothPending, booth.Status)
	assert.Equal(t, 1, applied)
	boothsAPI.AssertExpectations(t)
}

func TestBoothApplyFullEvent(t *testing.T) {
	eventsAPI := new(mockEventsAPI)
	boothsAPI := new(mockBoothsAPI)
	svc := NewBoothService(eventsAPI, boothsAPI, nil, nil)

	full := endedEvent()
	full.Slot = 2
	eventsAPI.On("GetEvent", mock.Anything, int64(7)).Return(full, nil).Once()

	_, err := svc.Apply(context.Background(), models.BoothInput{EventID: 7})
	assert.ErrorIs(t, err, ErrNoBoothsAvailable)
	boothsAPI.AssertNotCalled(t, "CreateBooth", mock.Anything, mock.Anything)
}

func TestBoothDecide(t *testing.T) {
	boothsAPI := new(mockBoothsAPI)
	svc := NewBoothService(new(mockEventsAPI), boothsAPI, nil, nil)

	boothsAPI.On("UpdateBoothStatus", mock.Anything, int64(5), models.BoothApproved).Return(&models.Booth{ID: 5, Status: models.BoothApproved}, nil).Once()
	boothsAPI.On("UpdateBoothStatus", mock.Anything, int64(6), models.BoothRejected).Return(&models.Booth{ID: 6, Status: models.BoothRejected}, nil).Once()

	b, err := svc.Approve(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, b.Approved())

	b, err = svc.Reject(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, models.BoothRejected, b.Status)
	boothsAPI.AssertExpectations(t)
}

package service

import (
	"context"

	"bazaarku/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockEventsAPI struct {
	mock.Mock
}

func (m *mockEventsAPI) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventsAPI) ListEventRatings(ctx context.Context, eventID int64) ([]models.Rating, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *mockEventsAPI) ListUserBooths(ctx context.Context, userID int64) ([]models.Booth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booth), args.Error(1)
}

type mockRatingsAPI struct {
	mock.Mock
}

func (m *mockRatingsAPI) CreateRating(ctx context.Context, in models.RatingInput) (*models.Rating, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

type mockBoothsAPI struct {
	mock.Mock
}

func (m *mockBoothsAPI) CreateBooth(ctx context.Context, in models.BoothInput) (*models.Booth, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booth), args.Error(1)
}

func (m *mockBoothsAPI) UpdateBoothStatus(ctx context.Context, id int64, status string) (*models.Booth, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booth), args.Error(1)
}

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *mockAuthAPI) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *mockAuthAPI) Profile(ctx context.Context) (*models.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *mockAuthAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockAdminAPI struct {
	mock.Mock
}

func (m *mockAdminAPI) ListEvents(ctx context.Context, p models.ListParams) ([]models.Event, *models.Pagination, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.Event), args.Get(1).(*models.Pagination), args.Error(2)
}

func (m *mockAdminAPI) ListRatings(ctx context.Context, p models.ListParams) ([]models.Rating, *models.Pagination, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.Rating), args.Get(1).(*models.Pagination), args.Error(2)
}

func (m *mockAdminAPI) ListUsers(ctx context.Context, p models.ListParams) ([]models.AdminUser, *models.Pagination, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.AdminUser), args.Get(1).(*models.Pagination), args.Error(2)
}

func (m *mockAdminAPI) ListBooths(ctx context.Context, p models.ListParams) ([]models.Booth, *models.Pagination, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.Booth), args.Get(1).(*models.Pagination), args.Error(2)
}

type rearmCounter struct {
	calls int
}

func (r *rearmCounter) Rearm() { r.calls++ }

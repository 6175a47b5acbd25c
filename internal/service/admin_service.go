package service

import (
	"context"
	"fmt"

	"bazaarku/internal/api"
	"bazaarku/internal/domain"
	"bazaarku/internal/models"

	"github.com/rs/zerolog"
)

// AdminService reads whole admin tables for export.
type AdminService struct {
	api      domain.AdminAPI
	pageSize int
	logger   *zerolog.Logger
}

func NewAdminService(adminAPI domain.AdminAPI, pageSize int, logger *zerolog.Logger) *AdminService {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AdminService{api: adminAPI, pageSize: pageSize, logger: logger}
}

func (s *AdminService) AllEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := api.ListAll(ctx, s.api.ListEvents, s.pageSize)
	return rows, s.wrap("events", len(rows), err)
}

func (s *AdminService) AllRatings(ctx context.Context) ([]models.Rating, error) {
	rows, err := api.ListAll(ctx, s.api.ListRatings, s.pageSize)
	return rows, s.wrap("ratings", len(rows), err)
}

func (s *AdminService) AllUsers(ctx context.Context) ([]models.AdminUser, error) {
	rows, err := api.ListAll(ctx, s.api.ListUsers, s.pageSize)
	return rows, s.wrap("users", len(rows), err)
}

func (s *AdminService) AllBooths(ctx context.Context) ([]models.Booth, error) {
	rows, err := api.ListAll(ctx, s.api.ListBooths, s.pageSize)
	return rows, s.wrap("booths", len(rows), err)
}

func (s *AdminService) wrap(table string, rows int, err error) error {
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	s.logger.Debug().Str("table", table).Int("rows", rows).Msg("admin table loaded")
	return nil
}

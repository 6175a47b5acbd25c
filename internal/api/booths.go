package api

import (
	"context"
	"fmt"
	"net/http"

	"bazaarku/internal/models"
)

const boothsPath = "/booths"

func (c *Client) ListBooths(ctx context.Context, p models.ListParams) ([]models.Booth, *models.Pagination, error) {
	return getList[models.Booth](ctx, c, boothsPath, p.Values())
}

// ListUserBooths returns every booth application of userID across events.
func (c *Client) ListUserBooths(ctx context.Context, userID int64) ([]models.Booth, error) {
	if err := validID("user_id", userID); err != nil {
		return nil, err
	}
	items, _, err := getList[models.Booth](ctx, c, fmt.Sprintf("%s/user/%d", boothsPath, userID), nil)
	return items, err
}

func (c *Client) CreateBooth(ctx context.Context, in models.BoothInput) (*models.Booth, error) {
	if err := validID("event_id", in.EventID); err != nil {
		return nil, err
	}
	return sendRecord[models.Booth](ctx, c, http.MethodPost, boothsPath, in)
}

// UpdateBoothStatus is the admin approval action.
func (c *Client) UpdateBoothStatus(ctx context.Context, id int64, status string) (*models.Booth, error) {
	path, err := idPath(boothsPath, id)
	if err != nil {
		return nil, err
	}
	if err := validBoothStatus(status); err != nil {
		return nil, err
	}
	return sendRecord[models.Booth](ctx, c, http.MethodPut, path+"/status", models.BoothStatusUpdate{Status: status})
}

func (c *Client) DeleteBooth(ctx context.Context, id int64) error {
	path, err := idPath(boothsPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const ratingsPath = "/rating"

func (c *Client) ListRatings(ctx context.Context, p models.ListParams) ([]models.Rating, *models.Pagination, error) {
	return getList[models.Rating](ctx, c, ratingsPath, p.Values())
}

// ListEventRatings returns every review posted for eventID.
func (c *Client) ListEventRatings(ctx context.Context, eventID int64) ([]models.Rating, error) {
	path, err := idPath(ratingsPath+"/event", eventID)
	if err != nil {
		return nil, err
	}
	items, _, err := getList[models.Rating](ctx, c, path, nil)
	return items, err
}

// CreateRating submits a review. Out-of-range stars never reach the backend.
func (c *Client) CreateRating(ctx context.Context, in models.RatingInput) (*models.Rating, error) {
	if err := ValidateRating(in); err != nil {
		return nil, err
	}
	return sendRecord[models.Rating](ctx, c, http.MethodPost, ratingsPath, in)
}

func (c *Client) UpdateRating(ctx context.Context, id int64, in models.RatingInput) (*models.Rating, error) {
	path, err := idPath(ratingsPath, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateRating(in); err != nil {
		return nil, err
	}
	return sendRecord[models.Rating](ctx, c, http.MethodPut, path, in)
}

func (c *Client) DeleteRating(ctx context.Context, id int64) error {
	path, err := idPath(ratingsPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

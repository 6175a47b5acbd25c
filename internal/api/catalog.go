package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const (
	categoriesPath = "/event-categories"
	areasPath      = "/areas"
)

func (c *Client) ListEventCategories(ctx context.Context, p models.ListParams) ([]models.EventCategory, *models.Pagination, error) {
	return getList[models.EventCategory](ctx, c, categoriesPath, p.Values())
}

func (c *Client) CreateEventCategory(ctx context.Context, in models.EventCategoryInput) (*models.EventCategory, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	return sendRecord[models.EventCategory](ctx, c, http.MethodPost, categoriesPath, in)
}

func (c *Client) UpdateEventCategory(ctx context.Context, id int64, in models.EventCategoryInput) (*models.EventCategory, error) {
	path, err := idPath(categoriesPath, id)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.EventCategory](ctx, c, http.MethodPut, path, in)
}

func (c *Client) DeleteEventCategory(ctx context.Context, id int64) error {
	path, err := idPath(categoriesPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

func (c *Client) ListAreas(ctx context.Context, p models.ListParams) ([]models.Area, *models.Pagination, error) {
	return getList[models.Area](ctx, c, areasPath, p.Values())
}

func (c *Client) CreateArea(ctx context.Context, in models.AreaInput) (*models.Area, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	return sendRecord[models.Area](ctx, c, http.MethodPost, areasPath, in)
}

func (c *Client) UpdateArea(ctx context.Context, id int64, in models.AreaInput) (*models.Area, error) {
	path, err := idPath(areasPath, id)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Area](ctx, c, http.MethodPut, path, in)
}

func (c *Client) DeleteArea(ctx context.Context, id int64) error {
	path, err := idPath(areasPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

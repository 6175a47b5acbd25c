package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const eventsPath = "/events"

func (c *Client) ListEvents(ctx context.Context, p models.ListParams) ([]models.Event, *models.Pagination, error) {
	return getList[models.Event](ctx, c, eventsPath, p.Values())
}

// ListMyEvents returns the events of the signed-in organizer.
func (c *Client) ListMyEvents(ctx context.Context) ([]models.Event, error) {
	items, _, err := getList[models.Event](ctx, c, eventsPath+"/user", nil)
	return items, err
}

func (c *Client) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	path, err := idPath(eventsPath, id)
	if err != nil {
		return nil, err
	}
	return getRecord[models.Event](ctx, c, path, nil)
}

func validateEvent(in models.EventInput) error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if err := required("start_date", in.StartDate); err != nil {
		return err
	}
	if err := required("end_date", in.EndDate); err != nil {
		return err
	}
	if in.Slot < 0 {
		return &ValidationError{Field: "slot", Message: "must not be negative"}
	}
	return nil
}

func (c *Client) CreateEvent(ctx context.Context, in models.EventInput, image *FormFile) (*models.Event, error) {
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	body, err := withImage(in, image)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Event](ctx, c, http.MethodPost, eventsPath, body)
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, in models.EventInput, image *FormFile) (*models.Event, error) {
	path, err := idPath(eventsPath, id)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	body, err := withImage(in, image)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Event](ctx, c, http.MethodPut, path, body)
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	path, err := idPath(eventsPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

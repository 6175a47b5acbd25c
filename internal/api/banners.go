package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const bannersPath = "/banners"

func (c *Client) ListBanners(ctx context.Context, p models.ListParams) ([]models.Banner, *models.Pagination, error) {
	return getList[models.Banner](ctx, c, bannersPath, p.Values())
}

// ListActiveBanners returns the banners shown on the public landing page.
func (c *Client) ListActiveBanners(ctx context.Context) ([]models.Banner, error) {
	items, _, err := getList[models.Banner](ctx, c, bannersPath+"/active", nil)
	return items, err
}

// CreateBanner uploads image as the banner picture when it is not nil.
func (c *Client) CreateBanner(ctx context.Context, in models.BannerInput, image *FormFile) (*models.Banner, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	body, err := withImage(in, image)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Banner](ctx, c, http.MethodPost, bannersPath, body)
}

func (c *Client) UpdateBanner(ctx context.Context, id int64, in models.BannerInput, image *FormFile) (*models.Banner, error) {
	path, err := idPath(bannersPath, id)
	if err != nil {
		return nil, err
	}
	body, err := withImage(in, image)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Banner](ctx, c, http.MethodPut, path, body)
}

func (c *Client) DeleteBanner(ctx context.Context, id int64) error {
	path, err := idPath(bannersPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

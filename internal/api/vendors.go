package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const vendorsPath = "/vendors"

func (c *Client) ListVendors(ctx context.Context, p models.ListParams) ([]models.Vendor, *models.Pagination, error) {
	return getList[models.Vendor](ctx, c, vendorsPath, p.Values())
}

// ListVendorUsers returns the accounts that may own a vendor profile.
func (c *Client) ListVendorUsers(ctx context.Context) ([]models.UserProfile, error) {
	items, _, err := getList[models.UserProfile](ctx, c, vendorsPath+"/users", nil)
	return items, err
}

func (c *Client) GetVendor(ctx context.Context, id int64) (*models.Vendor, error) {
	path, err := idPath(vendorsPath, id)
	if err != nil {
		return nil, err
	}
	return getRecord[models.Vendor](ctx, c, path, nil)
}

func (c *Client) CreateVendor(ctx context.Context, in models.VendorInput, logo *FormFile) (*models.Vendor, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	body, err := withImage(in, logo)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Vendor](ctx, c, http.MethodPost, vendorsPath, body)
}

func (c *Client) UpdateVendor(ctx context.Context, id int64, in models.VendorInput, logo *FormFile) (*models.Vendor, error) {
	path, err := idPath(vendorsPath, id)
	if err != nil {
		return nil, err
	}
	body, err := withImage(in, logo)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Vendor](ctx, c, http.MethodPut, path, body)
}

func (c *Client) DeleteVendor(ctx context.Context, id int64) error {
	path, err := idPath(vendorsPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

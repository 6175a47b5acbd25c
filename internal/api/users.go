package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const adminUsersPath = "/admin/users"

func (c *Client) ListUsers(ctx context.Context, p models.ListParams) ([]models.AdminUser, *models.Pagination, error) {
	return getList[models.AdminUser](ctx, c, adminUsersPath, p.Values())
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in models.AdminUserUpdate) (*models.AdminUser, error) {
	path, err := idPath(adminUsersPath, id)
	if err != nil {
		return nil, err
	}
	if in.Email != "" {
		if err := validEmail(in.Email); err != nil {
			return nil, err
		}
	}
	return sendRecord[models.AdminUser](ctx, c, http.MethodPut, path, in)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	path, err := idPath(adminUsersPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

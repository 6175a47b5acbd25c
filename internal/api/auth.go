package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := validEmail(req.Email); err != nil {
		return nil, err
	}
	if err := required("password", req.Password); err != nil {
		return nil, err
	}
	var resp models.AuthResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/login", Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	if err := required("first_name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validEmail(req.Email); err != nil {
		return nil, err
	}
	if err := required("password", req.Password); err != nil {
		return nil, err
	}
	var resp models.AuthResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/signup", Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the profile of the token holder.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	return getRecord[models.UserProfile](ctx, c, "/profile", nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/logout"}, nil)
}

package api

import (
	"context"
	"net/http"

	"bazaarku/internal/models"
)

const (
	rentalsPath        = "/rentals"
	rentalProductsPath = "/rental-products"
)

func (c *Client) ListRentals(ctx context.Context, p models.ListParams) ([]models.Rental, *models.Pagination, error) {
	return getList[models.Rental](ctx, c, rentalsPath, p.Values())
}

// ListRentalsWithProducts returns rental categories with their products inlined.
func (c *Client) ListRentalsWithProducts(ctx context.Context) ([]models.Rental, error) {
	items, _, err := getList[models.Rental](ctx, c, rentalsPath+"/with-products", nil)
	return items, err
}

func (c *Client) CreateRental(ctx context.Context, in models.RentalInput) (*models.Rental, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	return sendRecord[models.Rental](ctx, c, http.MethodPost, rentalsPath, in)
}

func (c *Client) UpdateRental(ctx context.Context, id int64, in models.RentalInput) (*models.Rental, error) {
	path, err := idPath(rentalsPath, id)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.Rental](ctx, c, http.MethodPut, path, in)
}

func (c *Client) DeleteRental(ctx context.Context, id int64) error {
	path, err := idPath(rentalsPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

func (c *Client) ListRentalProducts(ctx context.Context, p models.ListParams) ([]models.RentalProduct, *models.Pagination, error) {
	return getList[models.RentalProduct](ctx, c, rentalProductsPath, p.Values())
}

func validateRentalProduct(in models.RentalProductInput) error {
	if err := validID("rental_id", in.RentalID); err != nil {
		return err
	}
	if err := required("name", in.Name); err != nil {
		return err
	}
	if in.Price < 0 {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	if in.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return nil
}

func (c *Client) CreateRentalProduct(ctx context.Context, in models.RentalProductInput, image *FormFile) (*models.RentalProduct, error) {
	if err := validateRentalProduct(in); err != nil {
		return nil, err
	}
	body, err := withImage(in, image)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.RentalProduct](ctx, c, http.MethodPost, rentalProductsPath, body)
}

func (c *Client) UpdateRentalProduct(ctx context.Context, id int64, in models.RentalProductInput, image *FormFile) (*models.RentalProduct, error) {
	path, err := idPath(rentalProductsPath, id)
	if err != nil {
		return nil, err
	}
	if err := validateRentalProduct(in); err != nil {
		return nil, err
	}
	body, err := withImage(in, image)
	if err != nil {
		return nil, err
	}
	return sendRecord[models.RentalProduct](ctx, c, http.MethodPut, path, body)
}

func (c *Client) DeleteRentalProduct(ctx context.Context, id int64) error {
	path, err := idPath(rentalProductsPath, id)
	if err != nil {
		return err
	}
	return c.deletePath(ctx, path)
}

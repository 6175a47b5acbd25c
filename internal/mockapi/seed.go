package mockapi

import (
	"errors"
	"fmt"
	"time"

	"bazaarku/internal/config"
	"bazaarku/internal/models"
)

const (
	seedDateLayout = time.RFC3339
	// SeedVendorEmail is the demo vendor created by Seed. It shares the
	// admin password.
	SeedVendorEmail = "vendor@bazaarku.local"
)

// Seed creates the admin account and, when cfg.Seed is set, a small demo
// catalogue: one finished event the demo vendor may review, one upcoming
// event with free slots, a banner and a rental.
func Seed(store *Store, cfg config.MockConfig, now time.Time) error {
	if cfg.AdminPassword == "" {
		return errors.New("mock admin_password is required")
	}
	if _, err := store.CreateAccount(models.UserProfile{
		FirstName: "Admin",
		LastName:  "BazaarKu",
		Email:     cfg.AdminEmail,
		Role:      models.RoleAdmin,
	}, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !cfg.Seed {
		return nil
	}

	vendor, err := store.CreateAccount(models.UserProfile{
		FirstName: "Sari",
		LastName:  "Dewi",
		Email:     SeedVendorEmail,
		Role:      models.RoleVendor,
		Phone:     "081234567890",
	}, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed vendor: %w", err)
	}

	rows := []struct {
		table  string
		fields Record
	}{
		{Categories, Record{"name": "Kuliner", "description": "Food and drinks"}},
		{Categories, Record{"name": "Fashion", "description": "Clothing and accessories"}},
		{Areas, Record{"name": "Jakarta Selatan", "city": "Jakarta"}},
		{Areas, Record{"name": "Dago", "city": "Bandung"}},
		{Banners, Record{"title": "Festival season is here", "image_url": "/uploads/banner-festival.png", "is_active": true, "sort_order": 1}},
		{Vendors, Record{"user_id": vendor.ID, "name": "Dapur Sari", "category": "Kuliner", "phone": vendor.Phone}},
		{Rentals, Record{"name": "Tenda", "description": "Tents and canopies"}},
		{RentalProducts, Record{"rental_id": int64(1), "name": "Tenda 3x3", "price": 250000, "stock": 12}},
		{Events, Record{
			"name":        "Bazaar Ramadhan",
			"description": "Evening market before iftar",
			"location":    "Blok M Square",
			"area_id":     int64(1),
			"category_id": int64(1),
			"start_date":  now.AddDate(0, 0, -30).UTC().Format(seedDateLayout),
			"end_date":    now.AddDate(0, 0, -28).UTC().Format(seedDateLayout),
			"price":       150000,
			"contact":     "events@bazaarku.local",
			"slot":        3,
			"status":      models.EventCompleted,
		}},
		{Events, Record{
			"name":        "Festival Kuliner Nusantara",
			"description": "Regional food from across the archipelago",
			"location":    "Lapangan Gasibu",
			"area_id":     int64(2),
			"category_id": int64(1),
			"start_date":  now.AddDate(0, 0, 14).UTC().Format(seedDateLayout),
			"end_date":    now.AddDate(0, 0, 16).UTC().Format(seedDateLayout),
			"price":       200000,
			"contact":     "events@bazaarku.local",
			"slot":        10,
			"status":      models.EventUpcoming,
		}},
		{Booths, Record{"user_id": vendor.ID, "event_id": int64(1), "status": models.BoothApproved}},
	}
	for _, row := range rows {
		if _, err := store.Create(row.table, row.fields); err != nil {
			return fmt.Errorf("seed %s: %w", row.table, err)
		}
	}
	return nil
}

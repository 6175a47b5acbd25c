package models

type Banner struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	Link      string `json:"link,omitempty"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type Vendor struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Rental is a rental category grouping rentable products.
type Rental struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Products    []RentalProduct `json:"products,omitempty"`
}

type RentalProduct struct {
	ID       int64   `json:"id"`
	RentalID int64   `json:"rental_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url,omitempty"`
}

type BannerInput struct {
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type EventCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AreaInput struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

type VendorInput struct {
	UserID      int64  `json:"user_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Category    string `json:"category,omitempty"`
}

type RentalInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type RentalProductInput struct {
	RentalID int64   `json:"rental_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

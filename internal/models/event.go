package models

// Event mirrors the backend event record. StartDate and EndDate are kept
// as wire strings; callers parse them where a decision depends on them.
type Event struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	AreaID      int64          `json:"area_id,omitempty"`
	Area        *Area          `json:"area,omitempty"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Price       float64        `json:"price"`
	Contact     string         `json:"contact"`
	ImageURL    string         `json:"image_url,omitempty"`
	Slot        int            `json:"slot"`
	Booths      []Booth        `json:"booths,omitempty"`
	CategoryID  int64          `json:"category_id,omitempty"`
	Category    *EventCategory `json:"category,omitempty"`
	VendorID    int64          `json:"vendor_id,omitempty"`
	Status      string         `json:"status,omitempty"`
}

// EventInput is the writable subset of Event sent on create/update.
type EventInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	AreaID      int64   `json:"area_id,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Price       float64 `json:"price"`
	Contact     string  `json:"contact,omitempty"`
	Slot        int     `json:"slot"`
	CategoryID  int64   `json:"category_id,omitempty"`
	VendorID    int64   `json:"vendor_id,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// Booth is a vendor's application for a slot at an event.
type Booth struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	EventID  int64  `json:"event_id"`
	VendorID int64  `json:"vendor_id,omitempty"`
	Status   string `json:"status"`
	Note     string `json:"note,omitempty"`
}

func (b Booth) Approved() bool {
	return b.Status == BoothApproved
}

type BoothInput struct {
	EventID  int64  `json:"event_id"`
	VendorID int64  `json:"vendor_id,omitempty"`
	Note     string `json:"note,omitempty"`
}

type BoothStatusUpdate struct {
	Status string `json:"status"`
}

type EventCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Area struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

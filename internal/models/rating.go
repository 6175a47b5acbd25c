package models

// Rating is a star review left by a vendor for an event.
type Rating struct {
	ID         int64  `json:"id"`
	EventID    int64  `json:"event_id"`
	UserID     int64  `json:"user_id"`
	RatingStar int    `json:"rating_star"`
	Review     string `json:"review"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type RatingInput struct {
	EventID    int64  `json:"event_id"`
	RatingStar int    `json:"rating_star"`
	Review     string `json:"review"`
	Name       string `json:"name,omitempty"`
}

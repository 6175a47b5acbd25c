package api

import (
	"fmt"
	"net/mail"
	"strings"

	"bazaarku/internal/models"
)

// Client-side checks run before any request is sent.

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func validID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Message: "must be a positive id"}
	}
	return nil
}

func idPath(prefix string, id int64) (string, error) {
	if err := validID("id", id); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d", prefix, id), nil
}

func validEmail(email string) error {
	if err := required("email", email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}

// ValidateStar rejects ratings outside [1,5].
func ValidateStar(star int) error {
	if star < models.MinRatingStar || star > models.MaxRatingStar {
		return &ValidationError{
			Field:   "rating_star",
			Message: fmt.Sprintf("must be between %d and %d", models.MinRatingStar, models.MaxRatingStar),
		}
	}
	return nil
}

// ValidateRating checks a review before submission.
func ValidateRating(in models.RatingInput) error {
	if err := validID("event_id", in.EventID); err != nil {
		return err
	}
	if err := ValidateStar(in.RatingStar); err != nil {
		return err
	}
	return required("review", in.Review)
}

func validBoothStatus(status string) error {
	switch status {
	case models.BoothPending, models.BoothApproved, models.BoothRejected:
		return nil
	}
	return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown booth status %q", status)}
}

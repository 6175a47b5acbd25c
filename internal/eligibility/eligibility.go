// Package eligibility derives display state from fetched event, booth and
// rating data: free booth slots, review quota and the average rating.
// Everything here is pure; callers recompute after every fetch.
package eligibility

import (
	"fmt"
	"strings"
	"time"

	"bazaarku/internal/models"
)

// Result is the outcome of CanReview.
type Result struct {
	Eligible  bool
	Remaining int
}

// AvailableBooths is slot minus accepted, floored at zero.
func AvailableBooths(slot, accepted int) int {
	if n := slot - accepted; n > 0 {
		return n
	}
	return 0
}

// embeddedIn reports whether b, taken from the event record itself, is a
// booth of the event. Embedded booths often omit event_id; they count for
// the event they came with.
func embeddedIn(b models.Booth, eventID int64) bool {
	return b.EventID == eventID || b.EventID == 0
}

// AcceptedBooths counts APPROVED booths of the event. booths is the list
// embedded in the event record.
func AcceptedBooths(eventID int64, booths []models.Booth) int {
	n := 0
	for _, b := range booths {
		if embeddedIn(b, eventID) && b.Approved() {
			n++
		}
	}
	return n
}

// ApprovedBoothsFor counts userID's APPROVED booths for the event. booths
// spans events, so a booth without event_id belongs to none of them.
func ApprovedBoothsFor(userID, eventID int64, booths []models.Booth) int {
	n := 0
	for _, b := range booths {
		if b.UserID == userID && b.EventID == eventID && b.Approved() {
			n++
		}
	}
	return n
}

// ReviewsBy counts reviews userID already posted for the event. reviews is
// the per-event list, so a missing event_id counts for the event.
func ReviewsBy(userID, eventID int64, reviews []models.Rating) int {
	n := 0
	for _, r := range reviews {
		if r.UserID == userID && (r.EventID == eventID || r.EventID == 0) {
			n++
		}
	}
	return n
}

// Remaining is the review allowance left: approved minus reviewed, never
// negative.
func Remaining(approved, reviewed int) int {
	if n := approved - reviewed; n > 0 {
		return n
	}
	return 0
}

// CanReview decides whether userID may post another review for event.
// One review is allowed per approved booth, and only once the event has
// ended. An unparsable end date is never eligible.
func CanReview(userID int64, event models.Event, booths []models.Booth, reviews []models.Rating, now time.Time) Result {
	approved := ApprovedBoothsFor(userID, event.ID, booths)
	reviewed := ReviewsBy(userID, event.ID, reviews)
	remaining := Remaining(approved, reviewed)

	end, err := ParseEventTime(event.EndDate)
	if err != nil {
		return Result{Remaining: remaining}
	}
	return Result{
		Eligible:  remaining > 0 && now.After(end),
		Remaining: remaining,
	}
}

// AverageRating is the plain mean of rating_star, 0 for no reviews.
func AverageRating(reviews []models.Rating) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.RatingStar
	}
	return float64(sum) / float64(len(reviews))
}

var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseEventTime accepts the date formats the backend emits. Values
// without a zone are read as UTC.
func ParseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty event time")
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event time %q", s)
}

// RemainingLabel is the quota text shown next to the review action.
func RemainingLabel(remaining int) string {
	return fmt.Sprintf("%d remaining", remaining)
}

package models

// Durable storage keys holding the client session.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

// Booth approval states as reported by the backend.
const (
	BoothPending  = "PENDING"
	BoothApproved = "APPROVED"
	BoothRejected = "REJECTED"
)

// Event status values. Informational only, the backend owns transitions.
const (
	EventUpcoming  = "upcoming"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
)

const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
	RoleUser   = "user"
)

const (
	MinRatingStar = 1
	MaxRatingStar = 5

	// DefaultRedirectRoute is where the client lands after a forced logout.
	DefaultRedirectRoute = "/"

	// DefaultPageSize is used when a list call does not set a limit.
	DefaultPageSize = 20
)

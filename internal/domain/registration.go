package domain

import "time"

// RegistrationStatus enumerates lifecycle states for registrations.
type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationStatusCancelled RegistrationStatus = "CANCELLED"
	// RegistrationStatusWaitlisted is reserved in the data model; current
	// lifecycle logic never produces it.
	RegistrationStatusWaitlisted RegistrationStatus = "WAITLISTED"
)

// Registration links one user to one event. At most one row exists per
// (user, event) pair; cancellation flips the status rather than deleting,
// and re-registration revives the cancelled row.
type Registration struct {
	ID               string
	UserID           string
	EventID          string
	Status           RegistrationStatus
	RegistrationTime time.Time
}

// IsConfirmed reports whether the registration currently occupies a spot.
func (r *Registration) IsConfirmed() bool {
	return r.Status == RegistrationStatusConfirmed
}

package domain

import "time"

// Event is the aggregate organizers publish and users register against.
// The organizer is immutable after creation; capacity accounting is derived
// from confirmed registrations, never stored on the row itself.
type Event struct {
	ID          string
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Category    string
	Capacity    int
	Published   bool
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStarted reports whether the event start time has been reached.
func (e *Event) HasStarted(now time.Time) bool {
	return !e.StartTime.After(now)
}

// AvailableSpots returns remaining capacity given the number of confirmed
// registrations. Never negative under correct lifecycle enforcement.
func (e *Event) AvailableSpots(confirmed int) int {
	return e.Capacity - confirmed
}

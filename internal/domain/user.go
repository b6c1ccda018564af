package domain

import "time"

// Role labels a capability granted to a user. A user may hold several.
type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// User is the domain model for registered accounts. Users organize events
// (ORGANIZER role) and register for events published by other organizers.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role label.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for the ADMIN role check.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

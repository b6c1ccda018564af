package auth

import (
	"context"

	"github.com/spec-kit/event-registration-service/internal/repository"
)

// Authorizer answers ownership questions for protected resources. It runs as
// a pre-check at the HTTP boundary; lifecycle services never consult it. A
// missing resource yields deny, not an error, so authorization failures never
// surface as internal errors.
type Authorizer struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
}

// NewAuthorizer constructs the authorizer.
func NewAuthorizer(events repository.EventRepository, registrations repository.RegistrationRepository) *Authorizer {
	return &Authorizer{events: events, registrations: registrations}
}

// CanActAsUser allows admins and the user themselves.
func (a *Authorizer) CanActAsUser(principal *Principal, userID string) bool {
	if principal == nil || principal.User == nil {
		return false
	}
	if principal.User.IsAdmin() {
		return true
	}
	return principal.User.ID == userID
}

// CanManageEvent allows admins and the organizer of the event.
func (a *Authorizer) CanManageEvent(ctx context.Context, principal *Principal, eventID string) bool {
	if principal == nil || principal.User == nil {
		return false
	}
	if principal.User.IsAdmin() {
		return true
	}
	event, err := a.events.GetByID(ctx, eventID)
	if err != nil {
		return false
	}
	return event.OrganizerID == principal.User.ID
}

// CanViewRegistration allows admins, the registered user, and the organizer
// of the event the registration belongs to.
func (a *Authorizer) CanViewRegistration(ctx context.Context, principal *Principal, registrationID string) bool {
	if principal == nil || principal.User == nil {
		return false
	}
	if principal.User.IsAdmin() {
		return true
	}
	reg, err := a.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return false
	}
	if reg.UserID == principal.User.ID {
		return true
	}
	return a.CanManageEvent(ctx, principal, reg.EventID)
}

package dto

import (
	"time"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// RegistrationResponse mirrors the registration row.
type RegistrationResponse struct {
	ID               string                    `json:"id"`
	UserID           string                    `json:"user_id"`
	EventID          string                    `json:"event_id"`
	Status           domain.RegistrationStatus `json:"status"`
	RegistrationTime time.Time                 `json:"registration_time"`
}

// NewRegistrationResponse maps a domain registration.
func NewRegistrationResponse(reg *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:               reg.ID,
		UserID:           reg.UserID,
		EventID:          reg.EventID,
		Status:           reg.Status,
		RegistrationTime: reg.RegistrationTime,
	}
}

// NewRegistrationResponses maps a list of registrations.
func NewRegistrationResponses(list []domain.Registration) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewRegistrationResponse(&list[i]))
	}
	return out
}

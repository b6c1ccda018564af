package events

import (
	"time"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationCreated   EventType = "registration_created"
	EventRegistrationCancelled EventType = "registration_cancelled"
	EventEventPublished        EventType = "event_published"
	EventEventUnpublished      EventType = "event_unpublished"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RegistrationCreatedPayload payload.
type RegistrationCreatedPayload struct {
	RegistrationID string `json:"registration_id"`
	UserID         string `json:"user_id"`
	EventID        string `json:"event_id"`
	AvailableSpots int    `json:"available_spots"`
}

// RegistrationCancelledPayload payload.
type RegistrationCancelledPayload struct {
	RegistrationID string                    `json:"registration_id"`
	UserID         string                    `json:"user_id"`
	EventID        string                    `json:"event_id"`
	Status         domain.RegistrationStatus `json:"status"`
}

// EventPublicationPayload payload for publish/unpublish events.
type EventPublicationPayload struct {
	EventID   string `json:"event_id"`
	Name      string `json:"name"`
	Published bool   `json:"published"`
}

package dto

import (
	"time"

	"github.com/spec-kit/event-registration-service/internal/service"
)

// CreateEventRequest payload. Published is deliberately absent: new events
// always start unpublished.
type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"omitempty,max=1000"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Location    string    `json:"location" validate:"omitempty,max=200"`
	Category    string    `json:"category" validate:"omitempty,max=100"`
	Capacity    int       `json:"capacity" validate:"required,min=1"`
	OrganizerID string    `json:"organizer_id" validate:"required,uuid"`
}

// UpdateEventRequest payload; the organizer cannot be changed.
type UpdateEventRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"omitempty,max=1000"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Location    string    `json:"location" validate:"omitempty,max=200"`
	Category    string    `json:"category" validate:"omitempty,max=100"`
	Capacity    int       `json:"capacity" validate:"required,min=1"`
}

// EventResponse includes derived spot accounting.
type EventResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Location          string    `json:"location"`
	Category          string    `json:"category"`
	Capacity          int       `json:"capacity"`
	Published         bool      `json:"published"`
	OrganizerID       string    `json:"organizer_id"`
	RegistrationCount int       `json:"registration_count"`
	AvailableSpots    int       `json:"available_spots"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewEventResponse maps event details.
func NewEventResponse(details *service.EventDetails) EventResponse {
	event := details.Event
	return EventResponse{
		ID:                event.ID,
		Name:              event.Name,
		Description:       event.Description,
		StartTime:         event.StartTime,
		EndTime:           event.EndTime,
		Location:          event.Location,
		Category:          event.Category,
		Capacity:          event.Capacity,
		Published:         event.Published,
		OrganizerID:       event.OrganizerID,
		RegistrationCount: details.RegistrationCount,
		AvailableSpots:    details.AvailableSpots(),
		CreatedAt:         event.CreatedAt,
		UpdatedAt:         event.UpdatedAt,
	}
}

// NewEventResponses maps a list of event details.
func NewEventResponses(list []service.EventDetails) []EventResponse {
	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, NewEventResponse(&list[i]))
	}
	return out
}

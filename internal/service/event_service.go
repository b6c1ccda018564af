package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/event-registration-service/internal/clock"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// EventService owns event validation and the publication guard. New events
// are always created unpublished; publishing is a separate explicit action.
type EventService struct {
	events        repository.EventRepository
	users         repository.UserRepository
	registrations repository.RegistrationRepository
	cache         *EventCache
	dispatcher    events.Dispatcher
	clock         clock.Clock
}

// EventDependencies bundles collaborators for the event service.
type EventDependencies struct {
	EventRepo        repository.EventRepository
	UserRepo         repository.UserRepository
	RegistrationRepo repository.RegistrationRepository
	Cache            *EventCache
	Dispatcher       events.Dispatcher
	Clock            clock.Clock
}

// EventCreateInput describes event creation payload. Any caller-supplied
// published flag is ignored.
type EventCreateInput struct {
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Category    string
	Capacity    int
	OrganizerID string
}

// EventUpdateInput describes mutable event fields. The organizer is
// immutable after creation.
type EventUpdateInput struct {
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Category    string
	Capacity    int
}

// EventDetails pairs an event with its confirmed registration count.
type EventDetails struct {
	Event             domain.Event
	RegistrationCount int
}

// AvailableSpots returns remaining capacity.
func (d EventDetails) AvailableSpots() int {
	return d.Event.AvailableSpots(d.RegistrationCount)
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	c := deps.Clock
	if c == nil {
		c = clock.System()
	}
	return &EventService{
		events:        deps.EventRepo,
		users:         deps.UserRepo,
		registrations: deps.RegistrationRepo,
		cache:         deps.Cache,
		dispatcher:    deps.Dispatcher,
		clock:         c,
	}
}

// Create validates and persists a new, unpublished event.
func (s *EventService) Create(ctx context.Context, input EventCreateInput) (*EventDetails, error) {
	if err := s.validateTimes(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	if input.Capacity < 1 {
		return nil, apperrors.NewInvalidState("event capacity must be at least 1")
	}
	if _, err := s.users.GetByID(ctx, input.OrganizerID); err != nil {
		return nil, notFoundOn(err, "User")
	}

	event := &domain.Event{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Category:    input.Category,
		Capacity:    input.Capacity,
		Published:   false,
		OrganizerID: input.OrganizerID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return &EventDetails{Event: *event}, nil
}

// Update validates and persists changes to an existing event.
func (s *EventService) Update(ctx context.Context, id string, input EventUpdateInput) (*EventDetails, error) {
	if err := s.validateTimes(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	if input.Capacity < 1 {
		return nil, apperrors.NewInvalidState("event capacity must be at least 1")
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOn(err, "Event")
	}

	event.Name = strings.TrimSpace(input.Name)
	event.Description = strings.TrimSpace(input.Description)
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	event.Location = input.Location
	event.Category = input.Category
	event.Capacity = input.Capacity

	if err := s.events.Update(ctx, event); err != nil {
		return nil, notFoundOn(err, "Event")
	}
	s.cache.Invalidate(ctx)
	return s.withCount(ctx, event)
}

// Delete removes an event and, through the schema, its registrations.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		return notFoundOn(err, "Event")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return notFoundOn(err, "Event")
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Get returns a single event with its registration count.
func (s *EventService) Get(ctx context.Context, id string) (*EventDetails, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOn(err, "Event")
	}
	return s.withCount(ctx, event)
}

// List returns all events, or only published ones.
func (s *EventService) List(ctx context.Context, publishedOnly bool) ([]EventDetails, error) {
	if publishedOnly {
		if cached, ok := s.cache.GetPublished(ctx); ok {
			return s.decorate(ctx, cached)
		}
		list, err := s.events.ListPublished(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.SetPublished(ctx, list)
		return s.decorate(ctx, list)
	}

	list, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, list)
}

// Search returns published events matching the filter.
func (s *EventService) Search(ctx context.Context, filter repository.EventSearchFilter) ([]EventDetails, error) {
	list, err := s.events.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, list)
}

// ListByOrganizer returns events owned by the given organizer.
func (s *EventService) ListByOrganizer(ctx context.Context, organizerID string) ([]EventDetails, error) {
	if _, err := s.users.GetByID(ctx, organizerID); err != nil {
		return nil, notFoundOn(err, "User")
	}
	list, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, list)
}

// Publish flips an event to published. Publishing twice is rejected.
func (s *EventService) Publish(ctx context.Context, id string) (*EventDetails, error) {
	return s.setPublished(ctx, id, true)
}

// Unpublish flips an event back to unpublished. Existing registrations are
// untouched; only new registration attempts are gated on the flag.
func (s *EventService) Unpublish(ctx context.Context, id string) (*EventDetails, error) {
	return s.setPublished(ctx, id, false)
}

func (s *EventService) setPublished(ctx context.Context, id string, published bool) (*EventDetails, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOn(err, "Event")
	}
	if event.Published == published {
		if published {
			return nil, apperrors.NewInvalidState("event is already published")
		}
		return nil, apperrors.NewInvalidState("event is already unpublished")
	}

	event.Published = published
	if err := s.events.Update(ctx, event); err != nil {
		return nil, notFoundOn(err, "Event")
	}
	s.cache.Invalidate(ctx)

	eventType := events.EventEventPublished
	if !published {
		eventType = events.EventEventUnpublished
	}
	s.publishEvent(ctx, events.Event{
		Type:    eventType,
		ActorID: event.OrganizerID,
		Payload: events.EventPublicationPayload{
			EventID:   event.ID,
			Name:      event.Name,
			Published: event.Published,
		},
	})
	return s.withCount(ctx, event)
}

func (s *EventService) validateTimes(start, end time.Time) error {
	now := s.clock.Now()
	if !start.After(now) {
		return apperrors.NewInvalidState("event start time must be in the future")
	}
	if end.Before(start) {
		return apperrors.NewInvalidState("event end time must be after start time")
	}
	return nil
}

func (s *EventService) withCount(ctx context.Context, event *domain.Event) (*EventDetails, error) {
	count, err := s.registrations.CountConfirmedByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	return &EventDetails{Event: *event, RegistrationCount: count}, nil
}

func (s *EventService) decorate(ctx context.Context, list []domain.Event) ([]EventDetails, error) {
	ids := make([]string, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	counts, err := s.registrations.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]EventDetails, 0, len(list))
	for i := range list {
		details = append(details, EventDetails{
			Event:             list[i],
			RegistrationCount: counts[list[i].ID],
		})
	}
	return details, nil
}

func (s *EventService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

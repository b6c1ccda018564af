package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-registration-service/internal/clock"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// RegistrationService mediates every registration state change while
// preserving the event capacity invariant and the one-registration-per-user-
// per-event invariant. Register and Cancel execute inside a single database
// transaction with the event row locked, so the existence checks, the
// capacity count and the write are observed atomically by concurrent calls.
type RegistrationService struct {
	uow        repository.UnitOfWork
	stores     repository.Stores
	dispatcher events.Dispatcher
	clock      clock.Clock
}

// RegistrationDependencies bundles collaborators for the service.
type RegistrationDependencies struct {
	UnitOfWork repository.UnitOfWork
	Stores     repository.Stores
	Dispatcher events.Dispatcher
	Clock      clock.Clock
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	c := deps.Clock
	if c == nil {
		c = clock.System()
	}
	return &RegistrationService{
		uow:        deps.UnitOfWork,
		stores:     deps.Stores,
		dispatcher: deps.Dispatcher,
		clock:      c,
	}
}

// Register creates a CONFIRMED registration for (userID, eventID).
//
// Preconditions, first failure wins: user exists, event exists, event is
// published, no confirmed registration for the pair, capacity remains, event
// has not started. A CANCELLED row for the pair does not block; it is revived
// in place so the unique (user,event) constraint holds.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	var result *domain.Registration
	var spotsLeft int

	err := s.uow.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		if _, err := st.Users.GetByID(ctx, userID); err != nil {
			return notFoundOn(err, "User")
		}

		// Row lock serializes concurrent registrations for the same event.
		event, err := st.Events.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return notFoundOn(err, "Event")
		}
		if !event.Published {
			return apperrors.NewInvalidState("cannot register for an unpublished event")
		}

		existing, err := st.Registrations.GetByUserAndEvent(ctx, userID, eventID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if existing != nil && existing.Status != domain.RegistrationStatusCancelled {
			return apperrors.NewConflict("user is already registered for this event", nil)
		}

		confirmed, err := st.Registrations.CountConfirmedByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.AvailableSpots(confirmed) <= 0 {
			return apperrors.NewInvalidState("event is at full capacity")
		}

		now := s.clock.Now()
		if event.HasStarted(now) {
			return apperrors.NewInvalidState("cannot register for past events")
		}

		if existing != nil {
			existing.Status = domain.RegistrationStatusConfirmed
			existing.RegistrationTime = now
			if err := st.Registrations.Update(ctx, existing); err != nil {
				return err
			}
			result = existing
		} else {
			reg := &domain.Registration{
				UserID:           userID,
				EventID:          eventID,
				Status:           domain.RegistrationStatusConfirmed,
				RegistrationTime: now,
			}
			if err := st.Registrations.Create(ctx, reg); err != nil {
				return err
			}
			result = reg
		}
		spotsLeft = event.AvailableSpots(confirmed + 1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationCreated,
		ActorID: userID,
		Payload: events.RegistrationCreatedPayload{
			RegistrationID: result.ID,
			UserID:         result.UserID,
			EventID:        result.EventID,
			AvailableSpots: spotsLeft,
		},
	})
	return result, nil
}

// Cancel marks the registration for (userID, eventID) CANCELLED, freeing its
// capacity spot. The row is retained for history.
func (s *RegistrationService) Cancel(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	var result *domain.Registration

	err := s.uow.InTx(ctx, func(ctx context.Context, st repository.Stores) error {
		reg, err := st.Registrations.GetByUserAndEvent(ctx, userID, eventID)
		if err != nil {
			return notFoundOn(err, "Registration")
		}

		event, err := st.Events.GetByIDForUpdate(ctx, reg.EventID)
		if err != nil {
			return notFoundOn(err, "Event")
		}
		if event.HasStarted(s.clock.Now()) {
			return apperrors.NewInvalidState("cannot cancel registration for events that have already started")
		}

		reg.Status = domain.RegistrationStatusCancelled
		if err := st.Registrations.Update(ctx, reg); err != nil {
			return err
		}
		result = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationCancelled,
		ActorID: userID,
		Payload: events.RegistrationCancelledPayload{
			RegistrationID: result.ID,
			UserID:         result.UserID,
			EventID:        result.EventID,
			Status:         result.Status,
		},
	})
	return result, nil
}

// DeleteByID permanently removes a registration row. Distinct from Cancel,
// which is a soft state change retaining history.
func (s *RegistrationService) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.stores.Registrations.GetByID(ctx, id); err != nil {
		return notFoundOn(err, "Registration")
	}
	if err := s.stores.Registrations.Delete(ctx, id); err != nil {
		return notFoundOn(err, "Registration")
	}
	return nil
}

// GetByID returns a single registration.
func (s *RegistrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg, err := s.stores.Registrations.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOn(err, "Registration")
	}
	return reg, nil
}

// ListAll returns every registration.
func (s *RegistrationService) ListAll(ctx context.Context) ([]domain.Registration, error) {
	return s.stores.Registrations.List(ctx)
}

// ListByUser returns the user's registrations, failing with NotFound when the
// user id itself is dangling.
func (s *RegistrationService) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	if _, err := s.stores.Users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOn(err, "User")
	}
	return s.stores.Registrations.ListByUser(ctx, userID)
}

// ListByEvent returns the event's registrations, failing with NotFound when
// the event id itself is dangling.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	if _, err := s.stores.Events.GetByID(ctx, eventID); err != nil {
		return nil, notFoundOn(err, "Event")
	}
	return s.stores.Registrations.ListByEvent(ctx, eventID)
}

func (s *RegistrationService) publishEvent(ctx context.Context, event events.Event) {
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

func notFoundOn(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

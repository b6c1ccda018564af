package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/clock"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

type registrationFixture struct {
	state      *memState
	dispatcher *recordingDispatcher
	service    *RegistrationService
	now        time.Time
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	state := newMemState()
	dispatcher := &recordingDispatcher{}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := NewRegistrationService(RegistrationDependencies{
		UnitOfWork: &memUnitOfWork{state: state},
		Stores:     state.stores(),
		Dispatcher: dispatcher,
		Clock:      clock.Fixed(now),
	})
	return &registrationFixture{state: state, dispatcher: dispatcher, service: svc, now: now}
}

func (f *registrationFixture) user() domain.User {
	return f.state.addUser(domain.User{Username: fmt.Sprintf("user-%d", len(f.state.users)), Roles: []domain.Role{domain.RoleUser}})
}

func (f *registrationFixture) publishedEvent(capacity int) domain.Event {
	return f.state.addEvent(domain.Event{
		Name:      "conference",
		StartTime: f.now.Add(24 * time.Hour),
		EndTime:   f.now.Add(26 * time.Hour),
		Capacity:  capacity,
		Published: true,
	})
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code, "message: %s", domainErr.Message)
}

func TestRegisterCreatesConfirmedRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(10)

	reg, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusConfirmed, reg.Status)
	require.Equal(t, user.ID, reg.UserID)
	require.Equal(t, event.ID, reg.EventID)
	require.Equal(t, f.now, reg.RegistrationTime)
	require.Equal(t, []events.EventType{events.EventRegistrationCreated}, f.dispatcher.types())
}

func TestRegisterUnknownUser(t *testing.T) {
	f := newRegistrationFixture(t)
	event := f.publishedEvent(10)

	_, err := f.service.Register(context.Background(), "4e9cbf2e-0000-0000-0000-000000000000", event.ID)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestRegisterUnknownEvent(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()

	_, err := f.service.Register(context.Background(), user.ID, "4e9cbf2e-0000-0000-0000-000000000000")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestRegisterUnpublishedEvent(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.state.addEvent(domain.Event{
		Name:      "draft",
		StartTime: f.now.Add(24 * time.Hour),
		EndTime:   f.now.Add(26 * time.Hour),
		Capacity:  10,
		Published: false,
	})

	_, err := f.service.Register(context.Background(), user.ID, event.ID)
	requireDomainCode(t, err, "INVALID_STATE")
	require.Empty(t, f.state.registrations, "failed registration must not write")
	require.Empty(t, f.dispatcher.types())
}

func TestRegisterDuplicate(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(10)

	_, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), user.ID, event.ID)
	requireDomainCode(t, err, "CONFLICT")
	require.Len(t, f.state.registrations, 1)
}

func TestRegisterFullCapacity(t *testing.T) {
	f := newRegistrationFixture(t)
	const capacity = 3
	event := f.publishedEvent(capacity)

	for i := 0; i < capacity; i++ {
		user := f.user()
		_, err := f.service.Register(context.Background(), user.ID, event.ID)
		require.NoError(t, err, "registration %d of %d should fit", i+1, capacity)
	}

	overflow := f.user()
	_, err := f.service.Register(context.Background(), overflow.ID, event.ID)
	requireDomainCode(t, err, "INVALID_STATE")
	require.Len(t, f.state.registrations, capacity)
}

func TestRegisterAfterEventStart(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.state.addEvent(domain.Event{
		Name:      "already running",
		StartTime: f.now.Add(-time.Hour),
		EndTime:   f.now.Add(time.Hour),
		Capacity:  10,
		Published: true,
	})

	_, err := f.service.Register(context.Background(), user.ID, event.ID)
	requireDomainCode(t, err, "INVALID_STATE")
}

func TestCancelMarksCancelled(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(10)

	created, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(context.Background(), user.ID, event.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, cancelled.ID)
	require.Equal(t, domain.RegistrationStatusCancelled, cancelled.Status)
	require.Len(t, f.state.registrations, 1, "cancel retains the row")
	require.Equal(t, []events.EventType{
		events.EventRegistrationCreated,
		events.EventRegistrationCancelled,
	}, f.dispatcher.types())
}

func TestCancelWithoutRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(10)

	_, err := f.service.Cancel(context.Background(), user.ID, event.ID)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestCancelAfterEventStart(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(10)

	_, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	started := f.state.events[event.ID]
	started.StartTime = f.now.Add(-time.Minute)
	f.state.events[event.ID] = started

	_, err = f.service.Cancel(context.Background(), user.ID, event.ID)
	requireDomainCode(t, err, "INVALID_STATE")
	require.Equal(t, domain.RegistrationStatusConfirmed, f.state.registrations[f.onlyRegistrationID()].Status)
}

func (f *registrationFixture) onlyRegistrationID() string {
	for id := range f.state.registrations {
		return id
	}
	return ""
}

func TestCancelFreesSpotForAnotherUser(t *testing.T) {
	f := newRegistrationFixture(t)
	userA := f.user()
	userB := f.user()
	event := f.publishedEvent(1)

	_, err := f.service.Register(context.Background(), userA.ID, event.ID)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), userB.ID, event.ID)
	requireDomainCode(t, err, "INVALID_STATE")

	_, err = f.service.Cancel(context.Background(), userA.ID, event.ID)
	require.NoError(t, err)

	reg, err := f.service.Register(context.Background(), userB.ID, event.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusConfirmed, reg.Status)
}

func TestReRegisterRevivesCancelledRow(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(5)

	first, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	second, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "re-registration revives the existing row")
	require.Equal(t, domain.RegistrationStatusConfirmed, second.Status)
	require.Len(t, f.state.registrations, 1)
}

func TestCancelledRegistrationsDoNotOccupyCapacity(t *testing.T) {
	f := newRegistrationFixture(t)
	event := f.publishedEvent(2)
	userA := f.user()
	userB := f.user()
	userC := f.user()

	_, err := f.service.Register(context.Background(), userA.ID, event.ID)
	require.NoError(t, err)
	_, err = f.service.Register(context.Background(), userB.ID, event.ID)
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), userA.ID, event.ID)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), userC.ID, event.ID)
	require.NoError(t, err)
}

func TestDeleteRemovesRow(t *testing.T) {
	f := newRegistrationFixture(t)
	user := f.user()
	event := f.publishedEvent(10)

	reg, err := f.service.Register(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteByID(context.Background(), reg.ID))
	require.Empty(t, f.state.registrations)

	err = f.service.DeleteByID(context.Background(), reg.ID)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestListByUserRequiresExistingUser(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.service.ListByUser(context.Background(), "4e9cbf2e-0000-0000-0000-000000000000")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestListByEventRequiresExistingEvent(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.service.ListByEvent(context.Background(), "4e9cbf2e-0000-0000-0000-000000000000")
	requireDomainCode(t, err, "NOT_FOUND")
}

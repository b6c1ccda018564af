package auth

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/repository"
)

// Stubs embed the interface so only the lookups the authorizer performs need
// implementations.
type stubEventRepo struct {
	repository.EventRepository
	byID map[string]*domain.Event
}

func (s *stubEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if e, ok := s.byID[id]; ok {
		return e, nil
	}
	return nil, pgx.ErrNoRows
}

type stubRegistrationRepo struct {
	repository.RegistrationRepository
	byID map[string]*domain.Registration
}

func (s *stubRegistrationRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, pgx.ErrNoRows
}

func principalWith(id string, roles ...domain.Role) *Principal {
	return &Principal{User: &domain.User{ID: id, Roles: roles}}
}

func newTestAuthorizer() *Authorizer {
	events := &stubEventRepo{byID: map[string]*domain.Event{
		"event-1": {ID: "event-1", OrganizerID: "organizer-1"},
	}}
	registrations := &stubRegistrationRepo{byID: map[string]*domain.Registration{
		"reg-1": {ID: "reg-1", UserID: "user-1", EventID: "event-1"},
	}}
	return NewAuthorizer(events, registrations)
}

func TestCanActAsUser(t *testing.T) {
	a := newTestAuthorizer()

	require.True(t, a.CanActAsUser(principalWith("user-1", domain.RoleUser), "user-1"))
	require.False(t, a.CanActAsUser(principalWith("user-2", domain.RoleUser), "user-1"))
	require.True(t, a.CanActAsUser(principalWith("admin-1", domain.RoleAdmin), "user-1"))
	require.False(t, a.CanActAsUser(nil, "user-1"))
}

func TestCanManageEvent(t *testing.T) {
	a := newTestAuthorizer()
	ctx := context.Background()

	require.True(t, a.CanManageEvent(ctx, principalWith("organizer-1", domain.RoleOrganizer), "event-1"))
	require.False(t, a.CanManageEvent(ctx, principalWith("organizer-2", domain.RoleOrganizer), "event-1"))
	require.True(t, a.CanManageEvent(ctx, principalWith("admin-1", domain.RoleAdmin), "event-1"))
	require.False(t, a.CanManageEvent(ctx, principalWith("organizer-1", domain.RoleOrganizer), "missing"),
		"missing event denies instead of erroring")
}

func TestCanViewRegistration(t *testing.T) {
	a := newTestAuthorizer()
	ctx := context.Background()

	require.True(t, a.CanViewRegistration(ctx, principalWith("user-1", domain.RoleUser), "reg-1"))
	require.True(t, a.CanViewRegistration(ctx, principalWith("organizer-1", domain.RoleOrganizer), "reg-1"))
	require.True(t, a.CanViewRegistration(ctx, principalWith("admin-1", domain.RoleAdmin), "reg-1"))
	require.False(t, a.CanViewRegistration(ctx, principalWith("user-2", domain.RoleUser), "reg-1"))
	require.False(t, a.CanViewRegistration(ctx, principalWith("user-1", domain.RoleUser), "missing"))
}

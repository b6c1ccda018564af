package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/repository"
)

// memState is a map-backed stand-in for the database, shared by the fake
// repositories so lifecycle tests observe consistent state across stores.
type memState struct {
	mu            sync.Mutex
	users         map[string]domain.User
	events        map[string]domain.Event
	registrations map[string]domain.Registration
}

func newMemState() *memState {
	return &memState{
		users:         map[string]domain.User{},
		events:        map[string]domain.Event{},
		registrations: map[string]domain.Registration{},
	}
}

func (m *memState) stores() repository.Stores {
	return repository.Stores{
		Users:         &memUserRepo{state: m},
		Events:        &memEventRepo{state: m},
		Registrations: &memRegistrationRepo{state: m},
	}
}

func (m *memState) addUser(u domain.User) domain.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return u
}

func (m *memState) addEvent(e domain.Event) domain.Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	return e
}

func (m *memState) addRegistration(r domain.Registration) domain.Registration {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[r.ID] = r
	return r
}

// memUnitOfWork hands the shared stores straight to fn. Services fail before
// writing on invariant violations, so rollback is not modelled.
type memUnitOfWork struct {
	state *memState
}

func (u *memUnitOfWork) InTx(ctx context.Context, fn func(ctx context.Context, stores repository.Stores) error) error {
	return fn(ctx, u.state.stores())
}

type memUserRepo struct {
	state *memState
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.state.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.state.users, id)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	u, ok := r.state.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, u := range r.state.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, u := range r.state.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	list := make([]domain.User, 0, len(r.state.users))
	for _, u := range r.state.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

type memEventRepo struct {
	state *memState
}

func (r *memEventRepo) Create(_ context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.state.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) Delete(_ context.Context, id string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.state.events, id)
	return nil
}

func (r *memEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	e, ok := r.state.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &e, nil
}

func (r *memEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *memEventRepo) List(_ context.Context) ([]domain.Event, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	list := make([]domain.Event, 0, len(r.state.events))
	for _, e := range r.state.events {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *memEventRepo) ListPublished(ctx context.Context) ([]domain.Event, error) {
	all, _ := r.List(ctx)
	published := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if e.Published {
			published = append(published, e)
		}
	}
	return published, nil
}

func (r *memEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	all, _ := r.List(ctx)
	mine := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if e.OrganizerID == organizerID {
			mine = append(mine, e)
		}
	}
	return mine, nil
}

func (r *memEventRepo) Search(ctx context.Context, filter repository.EventSearchFilter) ([]domain.Event, error) {
	published, _ := r.ListPublished(ctx)
	matched := make([]domain.Event, 0, len(published))
	for _, e := range published {
		if filter.Keyword != nil {
			kw := strings.ToLower(*filter.Keyword)
			if !strings.Contains(strings.ToLower(e.Name), kw) && !strings.Contains(strings.ToLower(e.Description), kw) {
				continue
			}
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.Date != nil {
			y, m, d := filter.Date.Date()
			ey, em, ed := e.StartTime.Date()
			if y != ey || m != em || d != ed {
				continue
			}
		}
		matched = append(matched, e)
	}
	return matched, nil
}

type memRegistrationRepo struct {
	state *memState
}

func (r *memRegistrationRepo) Create(_ context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.registrations[reg.ID] = *reg
	return nil
}

func (r *memRegistrationRepo) Update(_ context.Context, reg *domain.Registration) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.registrations[reg.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.state.registrations[reg.ID] = *reg
	return nil
}

func (r *memRegistrationRepo) Delete(_ context.Context, id string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.registrations[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.state.registrations, id)
	return nil
}

func (r *memRegistrationRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	reg, ok := r.state.registrations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &reg, nil
}

func (r *memRegistrationRepo) GetByUserAndEvent(_ context.Context, userID, eventID string) (*domain.Registration, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, reg := range r.state.registrations {
		if reg.UserID == userID && reg.EventID == eventID {
			reg := reg
			return &reg, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memRegistrationRepo) List(_ context.Context) ([]domain.Registration, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	list := make([]domain.Registration, 0, len(r.state.registrations))
	for _, reg := range r.state.registrations {
		list = append(list, reg)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *memRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	all, _ := r.List(ctx)
	mine := make([]domain.Registration, 0, len(all))
	for _, reg := range all {
		if reg.UserID == userID {
			mine = append(mine, reg)
		}
	}
	return mine, nil
}

func (r *memRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	all, _ := r.List(ctx)
	mine := make([]domain.Registration, 0, len(all))
	for _, reg := range all {
		if reg.EventID == eventID {
			mine = append(mine, reg)
		}
	}
	return mine, nil
}

func (r *memRegistrationRepo) CountConfirmedByEvent(_ context.Context, eventID string) (int, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	count := 0
	for _, reg := range r.state.registrations {
		if reg.EventID == eventID && reg.Status == domain.RegistrationStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *memRegistrationRepo) CountConfirmedByEvents(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := map[string]int{}
	for _, id := range eventIDs {
		n, _ := r.CountConfirmedByEvent(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

// recordingDispatcher captures published domain events.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

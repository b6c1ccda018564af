package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// EventSearchFilter captures the public search parameters. Nil fields are
// not applied; search only ever matches published events.
type EventSearchFilter struct {
	Keyword  *string
	Category *string
	Date     *time.Time
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// GetByIDForUpdate locks the event row for the remainder of the enclosing
	// transaction, serializing concurrent capacity accounting on it.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListPublished(ctx context.Context) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error)
	Search(ctx context.Context, filter EventSearchFilter) ([]domain.Event, error)
}

type eventRepository struct {
	db DB
}

// NewEventRepository instantiates repository.
func NewEventRepository(db DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, name, description, start_time, end_time, location, category,
               capacity, published, organizer_id, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (name, description, start_time, end_time, location, category, capacity, published, organizer_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		event.Name,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Category,
		event.Capacity,
		event.Published,
		event.OrganizerID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET name=$1, description=$2, start_time=$3, end_time=$4, location=$5,
            category=$6, capacity=$7, published=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.db.Exec(ctx, query,
		event.Name,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Category,
		event.Capacity,
		event.Published,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id=$1`, eventColumns)
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id=$1 FOR UPDATE`, eventColumns)
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY start_time`, eventColumns)
	return r.fetchMany(ctx, query)
}

func (r *eventRepository) ListPublished(ctx context.Context) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE published = TRUE ORDER BY start_time`, eventColumns)
	return r.fetchMany(ctx, query)
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE organizer_id=$1 ORDER BY start_time`, eventColumns)
	return r.fetchMany(ctx, query, organizerID)
}

func (r *eventRepository) Search(ctx context.Context, filter EventSearchFilter) ([]domain.Event, error) {
	clauses := []string{"published = TRUE"}
	args := []any{}

	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Keyword)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		clauses = append(clauses, fmt.Sprintf("start_time::date = $%d::date", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY start_time`,
		eventColumns, strings.Join(clauses, " AND "))
	return r.fetchMany(ctx, query, args...)
}

func (r *eventRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.Category,
		&event.Capacity,
		&event.Published,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

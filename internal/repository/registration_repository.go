package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// RegistrationRepository encapsulates registration persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	Update(ctx context.Context, reg *domain.Registration) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error)
	List(ctx context.Context) ([]domain.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	// CountConfirmedByEvent counts registrations occupying a capacity spot.
	// Cancelled rows are excluded.
	CountConfirmedByEvent(ctx context.Context, eventID string) (int, error)
	// CountConfirmedByEvents returns confirmed counts keyed by event id in a
	// single query, for decorating event listings without N+1 counting.
	CountConfirmedByEvents(ctx context.Context, eventIDs []string) (map[string]int, error)
}

type registrationRepository struct {
	db DB
}

// NewRegistrationRepository instantiates repository.
func NewRegistrationRepository(db DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	const query = `
        INSERT INTO registrations (user_id, event_id, status, registration_time)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		reg.UserID,
		reg.EventID,
		reg.Status,
		reg.RegistrationTime,
	).Scan(&reg.ID)
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	const query = `
        UPDATE registrations SET status=$1, registration_time=$2
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, reg.Status, reg.RegistrationTime, reg.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM registrations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	const query = `
        SELECT id, user_id, event_id, status, registration_time
        FROM registrations WHERE id=$1`
	return scanRegistration(r.db.QueryRow(ctx, query, id))
}

func (r *registrationRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	const query = `
        SELECT id, user_id, event_id, status, registration_time
        FROM registrations WHERE user_id=$1 AND event_id=$2`
	return scanRegistration(r.db.QueryRow(ctx, query, userID, eventID))
}

func (r *registrationRepository) List(ctx context.Context) ([]domain.Registration, error) {
	const query = `
        SELECT id, user_id, event_id, status, registration_time
        FROM registrations ORDER BY registration_time`
	return r.fetchMany(ctx, query)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	const query = `
        SELECT id, user_id, event_id, status, registration_time
        FROM registrations WHERE user_id=$1 ORDER BY registration_time`
	return r.fetchMany(ctx, query, userID)
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	const query = `
        SELECT id, user_id, event_id, status, registration_time
        FROM registrations WHERE event_id=$1 ORDER BY registration_time`
	return r.fetchMany(ctx, query, eventID)
}

func (r *registrationRepository) CountConfirmedByEvent(ctx context.Context, eventID string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM registrations WHERE event_id=$1 AND status=$2`
	var count int
	err := r.db.QueryRow(ctx, query, eventID, domain.RegistrationStatusConfirmed).Scan(&count)
	return count, err
}

func (r *registrationRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	const query = `
        SELECT event_id, COUNT(*) FROM registrations
        WHERE event_id = ANY($1) AND status=$2
        GROUP BY event_id`
	rows, err := r.db.Query(ctx, query, eventIDs, domain.RegistrationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, err
		}
		counts[eventID] = count
	}
	return counts, rows.Err()
}

func (r *registrationRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Registration, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *reg)
	}
	return result, rows.Err()
}

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.EventID,
		&reg.Status,
		&reg.RegistrationTime,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

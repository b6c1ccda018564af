package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repository code runs against the pool or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Stores bundles the repositories bound to a single database handle.
type Stores struct {
	Users         UserRepository
	Events        EventRepository
	Registrations RegistrationRepository
}

// NewStores builds repositories over the given handle.
func NewStores(db DB) Stores {
	return Stores{
		Users:         NewUserRepository(db),
		Events:        NewEventRepository(db),
		Registrations: NewRegistrationRepository(db),
	}
}

// UnitOfWork executes a function within one database transaction. The stores
// handed to fn are bound to that transaction, so every read and write fn
// performs is observed atomically by concurrent operations.
type UnitOfWork interface {
	InTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork returns a pgx-backed UnitOfWork.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) InTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, NewStores(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

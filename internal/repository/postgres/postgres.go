package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.SuitRepository
	repository.RentalRepository
	repository.RentalDayRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		UserRepository:      NewUserRepository(db),
		SuitRepository:      NewSuitRepository(db),
		RentalRepository:    NewRentalRepository(db),
		RentalDayRepository: NewRentalDayRepository(db),
	}
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:      s.UserRepository,
		Suits:      s.SuitRepository,
		Rentals:    s.RentalRepository,
		RentalDays: s.RentalDayRepository,
	}
}

func repositoriesFor(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:      NewUserRepository(db),
		Suits:      NewSuitRepository(db),
		Rentals:    NewRentalRepository(db),
		RentalDays: NewRentalDayRepository(db),
	}
}

// WithinTx runs fn on repositories bound to a READ COMMITTED transaction.
// Concurrent bookings are serialized by the suit row lock taken through
// SuitRepository.GetByIDForUpdate, not by the isolation level.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return &domain.StorageError{Op: "begin transaction", Err: err}
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.WarnContext(ctx, "Rollback failed", "error", rbErr)
			}
		}
	}()

	if err := fn(repositoriesFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return &domain.StorageError{Op: "commit transaction", Err: err}
	}
	committed = true
	return nil
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("migrate", "schema.sql")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("migrate", 0, err)
	if err != nil {
		return &domain.StorageError{Op: "migrate", Err: err}
	}
	return nil
}

const uniqueViolation = "23505"

// translate maps driver errors onto the domain taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &uniqueError{constraint: pqErr.Constraint, err: err}
	}
	return domain.AsStorageError(op, err)
}

type uniqueError struct {
	constraint string
	err        error
}

func (e *uniqueError) Error() string {
	return "unique constraint " + e.constraint + " violated"
}

func (e *uniqueError) Unwrap() []error { return []error{domain.ErrAlreadyExists, e.err} }

// requireRow translates err and reports ErrNotFound when nothing was affected.
func requireRow(op string, res sql.Result, err error) error {
	if err != nil {
		return translate(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"suit-rental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role, page, pageSize int32) ([]domain.User, int32, error)
}

type SuitRepository interface {
	Create(ctx context.Context, suit *domain.Suit) error
	GetByID(ctx context.Context, id int32) (*domain.Suit, error)
	// GetByIDForUpdate reads the suit and holds its row lock until the
	// surrounding transaction ends. Bookings of the same suit serialize on it.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Suit, error)
	Update(ctx context.Context, suit *domain.Suit) error
	Delete(ctx context.Context, id int32) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Suit, int32, error)
	ListByStatus(ctx context.Context, status domain.SuitStatus, page, pageSize int32) ([]domain.Suit, int32, error)
	SetStatus(ctx context.Context, id int32, status domain.SuitStatus) error
}

// RentalFilter narrows List. Zero values mean "any".
type RentalFilter struct {
	CreatorID int32
	ClientID  int32
	SuitID    int32
	Status    domain.RentalStatus
	StartFrom *domain.Day
	Page      int32
	PageSize  int32
}

// RentalRepository stores rental headers. Days live in RentalDayRepository.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// UpdateState persists status, payment status and notes.
	UpdateState(ctx context.Context, rental *domain.Rental) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter RentalFilter) ([]domain.Rental, int32, error)
	// CountActiveBySuit counts ACTIVE rentals of the suit other than excludeRentalID.
	CountActiveBySuit(ctx context.Context, suitID, excludeRentalID int32) (int32, error)
	// ListElapsedActive returns ACTIVE rentals whose every day is before the given day.
	ListElapsedActive(ctx context.Context, before domain.Day) ([]domain.Rental, error)
}

type RentalDayRepository interface {
	// DaysOf returns the rental's days ascending.
	DaysOf(ctx context.Context, rentalID int32) ([]domain.Day, error)
	DaysOfRentals(ctx context.Context, rentalIDs []int32) (map[int32][]domain.Day, error)
	// InsertDays writes all days in one statement. Repeated days fail with
	// *domain.DuplicateDayError before touching the store; no days is a no-op.
	InsertDays(ctx context.Context, rentalID int32, days []domain.Day) error
	// ActiveDaysBySuit returns the distinct days held by ACTIVE rentals of the
	// suit, ascending. A non-nil within restricts the result to those days.
	ActiveDaysBySuit(ctx context.Context, suitID int32, within []domain.Day) ([]domain.Day, error)
}

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories struct {
	Users      UserRepository
	Suits      SuitRepository
	Rentals    RentalRepository
	RentalDays RentalDayRepository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repositories() Repositories
	// WithinTx runs fn in one transaction. A non-nil error from fn rolls the
	// transaction back and is returned unchanged.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// CheckDuplicateDays returns a *domain.DuplicateDayError if days repeats.
func CheckDuplicateDays(days []domain.Day) error {
	if _, dups := domain.NormalizeDays(days); len(dups) > 0 {
		return &domain.DuplicateDayError{Days: dups}
	}
	return nil
}

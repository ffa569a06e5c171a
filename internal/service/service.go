package service

import (
	"context"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	ShopName  string
	City      string
	Address   string
	Phone     string
	Email     string
	Password  string
	Role      domain.Role
}

// Session is an issued access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
}

type UserService interface {
	GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	ListClients(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.User, int32, error)
}

type SuitService interface {
	AddSuit(ctx context.Context, actor domain.Actor, suit *domain.Suit) error
	UpdateSuit(ctx context.Context, actor domain.Actor, suit *domain.Suit) error
	DeleteSuit(ctx context.Context, actor domain.Actor, id int32) error
	GetSuit(ctx context.Context, id int32) (*domain.Suit, error)
	ListMySuits(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Suit, int32, error)
	ListSuits(ctx context.Context, page, pageSize int32) ([]domain.Suit, int32, error)
	ListingPort
}

// ListingPort is the narrow view of a listing the booking core relies on.
// Inside a booking transaction the same facts are read from the locked suit
// row instead.
type ListingPort interface {
	GetPricePerDay(ctx context.Context, suitID int32) (int64, error)
	GetOwnerID(ctx context.Context, suitID int32) (int32, error)
	ListingNotifier
}

// ListingNotifier receives availability hints for a suit listing.
type ListingNotifier interface {
	SetAvailabilityHint(ctx context.Context, suitID int32, available bool) error
}

// AvailabilityCache memoizes the unavailable days of a suit. Each suit has a
// generation that Invalidate advances. Get reports the generation current at
// read time and Set stores days only while that generation is still current,
// so a result computed before a booking committed is never written back after
// the booking's invalidation.
type AvailabilityCache interface {
	Get(ctx context.Context, suitID int32) (days []domain.Day, hit bool, generation int64, err error)
	Set(ctx context.Context, suitID int32, generation int64, days []domain.Day) error
	Invalidate(ctx context.Context, suitID int32) error
}

type ConflictChecker interface {
	// FindConflicts returns the candidate days already held by an ACTIVE
	// rental of the suit.
	FindConflicts(ctx context.Context, suitID int32, candidate domain.DaySet) (domain.DaySet, error)
}

type AvailabilityService interface {
	UnavailableDays(ctx context.Context, suitID int32) (*domain.Availability, error)
}

type CreateRentalInput struct {
	SuitID        int32
	ClientID      int32
	Days          []domain.Day
	Notes         *string
	PaymentStatus *domain.PaymentStatus
}

// RentalUpdate carries the editable fields of a rental. Nil fields are left as is.
type RentalUpdate struct {
	Status        *domain.RentalStatus
	PaymentStatus *domain.PaymentStatus
	Notes         *string
}

type RentalService interface {
	CreateRental(ctx context.Context, actor domain.Actor, in CreateRentalInput) (*domain.Rental, error)
	UpdateRental(ctx context.Context, actor domain.Actor, rentalID int32, upd RentalUpdate) (*domain.Rental, error)
	CompleteRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error)
	CancelRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error)
	DeleteRental(ctx context.Context, actor domain.Actor, rentalID int32) error
	GetRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error)
	ListAdminRentals(ctx context.Context, actor domain.Actor, filter repository.RentalFilter) ([]domain.Rental, int32, error)
	ListClientRentals(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Rental, int32, error)
	// CompleteElapsedRentals completes every ACTIVE rental whose last day is
	// before today and returns how many were completed.
	CompleteElapsedRentals(ctx context.Context, today domain.Day) (int, error)
}

const (
	defaultPageSize int32 = 20
	maxPageSize     int32 = 100
)

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

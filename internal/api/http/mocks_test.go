package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
	"suit-rental-backend/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Actor), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListClients(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int32), args.Error(2)
}

type MockSuitService struct {
	mock.Mock
}

func (m *MockSuitService) AddSuit(ctx context.Context, actor domain.Actor, suit *domain.Suit) error {
	return m.Called(ctx, actor, suit).Error(0)
}

func (m *MockSuitService) UpdateSuit(ctx context.Context, actor domain.Actor, suit *domain.Suit) error {
	return m.Called(ctx, actor, suit).Error(0)
}

func (m *MockSuitService) DeleteSuit(ctx context.Context, actor domain.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockSuitService) GetSuit(ctx context.Context, id int32) (*domain.Suit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Suit), args.Error(1)
}

func (m *MockSuitService) ListMySuits(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Suit, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	suits, _ := args.Get(0).([]domain.Suit)
	return suits, args.Get(1).(int32), args.Error(2)
}

func (m *MockSuitService) ListSuits(ctx context.Context, page, pageSize int32) ([]domain.Suit, int32, error) {
	args := m.Called(ctx, page, pageSize)
	suits, _ := args.Get(0).([]domain.Suit)
	return suits, args.Get(1).(int32), args.Error(2)
}

func (m *MockSuitService) GetPricePerDay(ctx context.Context, suitID int32) (int64, error) {
	args := m.Called(ctx, suitID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuitService) GetOwnerID(ctx context.Context, suitID int32) (int32, error) {
	args := m.Called(ctx, suitID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockSuitService) SetAvailabilityHint(ctx context.Context, suitID int32, available bool) error {
	return m.Called(ctx, suitID, available).Error(0)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) UnavailableDays(ctx context.Context, suitID int32) (*domain.Availability, error) {
	args := m.Called(ctx, suitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) rental(args mock.Arguments) (*domain.Rental, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) CreateRental(ctx context.Context, actor domain.Actor, in service.CreateRentalInput) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, in))
}

func (m *MockRentalService) UpdateRental(ctx context.Context, actor domain.Actor, rentalID int32, upd service.RentalUpdate) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID, upd))
}

func (m *MockRentalService) CompleteRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}

func (m *MockRentalService) CancelRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}

func (m *MockRentalService) DeleteRental(ctx context.Context, actor domain.Actor, rentalID int32) error {
	return m.Called(ctx, actor, rentalID).Error(0)
}

func (m *MockRentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}

func (m *MockRentalService) ListAdminRentals(ctx context.Context, actor domain.Actor, filter repository.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, actor, filter)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Get(1).(int32), args.Error(2)
}

func (m *MockRentalService) ListClientRentals(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Get(1).(int32), args.Error(2)
}

func (m *MockRentalService) CompleteElapsedRentals(ctx context.Context, today domain.Day) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

package service_test

import (
	"context"
	"testing"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository/memory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAvailabilityCache
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) Get(ctx context.Context, suitID int32) ([]domain.Day, bool, int64, error) {
	args := m.Called(ctx, suitID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Get(2).(int64), args.Error(3)
	}
	return args.Get(0).([]domain.Day), args.Bool(1), args.Get(2).(int64), args.Error(3)
}
func (m *MockAvailabilityCache) Set(ctx context.Context, suitID int32, generation int64, days []domain.Day) error {
	args := m.Called(ctx, suitID, generation, days)
	return args.Error(0)
}
func (m *MockAvailabilityCache) Invalidate(ctx context.Context, suitID int32) error {
	args := m.Called(ctx, suitID)
	return args.Error(0)
}

// MockListingNotifier
type MockListingNotifier struct {
	mock.Mock
}

func (m *MockListingNotifier) SetAvailabilityHint(ctx context.Context, suitID int32, available bool) error {
	args := m.Called(ctx, suitID, available)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.Role, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// fixture is a shop with one suit priced at 100 cents per day.
type fixture struct {
	store  *memory.Store
	owner  domain.Actor
	rival  domain.Actor
	client domain.Actor
	suit   *domain.Suit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Repositories().Users

	owner := &domain.User{FirstName: "Olga", LastName: "Shop", ShopName: "Olga's", Email: "olga@shop.test", Phone: "100", Role: domain.RoleAdmin}
	rival := &domain.User{FirstName: "Rita", LastName: "Rival", ShopName: "Rita's", Email: "rita@shop.test", Phone: "101", Role: domain.RoleAdmin}
	client := &domain.User{FirstName: "Carl", LastName: "Client", Email: "carl@mail.test", Phone: "102", Role: domain.RoleUser}
	for _, u := range []*domain.User{owner, rival, client} {
		require.NoError(t, users.Create(ctx, u))
	}

	suit := &domain.Suit{
		OwnerID:          owner.ID,
		Name:             "Navy three-piece",
		Size:             domain.SuitSizeM,
		Gender:           domain.SuitGenderMen,
		Category:         domain.SuitCategoryWedding,
		PricePerDayCents: 100,
		Status:           domain.SuitStatusAvailable,
	}
	require.NoError(t, store.Repositories().Suits.Create(ctx, suit))

	return &fixture{
		store:  store,
		owner:  domain.Actor{UserID: owner.ID, Role: domain.RoleAdmin},
		rival:  domain.Actor{UserID: rival.ID, Role: domain.RoleAdmin},
		client: domain.Actor{UserID: client.ID, Role: domain.RoleUser},
		suit:   suit,
	}
}

func days(values ...string) []domain.Day {
	out := make([]domain.Day, len(values))
	for i, v := range values {
		d, err := domain.ParseDay(v)
		if err != nil {
			panic(err)
		}
		out[i] = d
	}
	return out
}

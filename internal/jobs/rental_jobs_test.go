package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"suit-rental-backend/internal/config"
	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/service"
)

// MockRentalService only implements what jobs call; the embedded interface
// is nil so anything else panics.
type MockRentalService struct {
	mock.Mock
	service.RentalService
}

func (m *MockRentalService) CompleteElapsedRentals(ctx context.Context, today domain.Day) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

func newRunner(svc *MockRentalService) *JobRunner {
	jr := NewJobRunner(svc, &config.Config{})
	// 23:30 in UTC-5 is already the next day in UTC.
	jr.now = func() time.Time {
		return time.Date(2025, 6, 14, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	}
	return jr
}

func TestCompleteElapsedRentals_UsesUTCToday(t *testing.T) {
	svc := new(MockRentalService)
	svc.On("CompleteElapsedRentals", mock.Anything, domain.NewDay(2025, 6, 15)).Return(3, nil).Once()

	assert.True(t, newRunner(svc).RunAllNightlyJobs())
	svc.AssertExpectations(t)
}

func TestCompleteElapsedRentals_ReportsFailure(t *testing.T) {
	svc := new(MockRentalService)
	svc.On("CompleteElapsedRentals", mock.Anything, mock.Anything).Return(1, errors.New("rental 4: storage failure"))

	assert.False(t, newRunner(svc).RunAllNightlyJobs())
}

func TestRunWithRecovery_Panic(t *testing.T) {
	jr := newRunner(new(MockRentalService))
	assert.NotPanics(t, func() {
		ok := jr.runWithRecovery("boom", func() error { panic("nil map") })
		assert.False(t, ok)
	})
}

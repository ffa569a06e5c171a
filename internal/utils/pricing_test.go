package utils

import (
	"math"
	"testing"

	"suit-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRentalCost(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		days     int
		expected int64
	}{
		{"One day", 5000, 1, 5000},
		{"Three days", 5000, 3, 15000},
		{"Free suit", 0, 4, 0},
		{"Odd cents", 1999, 7, 13993},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := CalculateRentalCost(tt.price, tt.days)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, cost)
		})
	}
}

func TestCalculateRentalCost_Errors(t *testing.T) {
	t.Run("No days", func(t *testing.T) {
		_, err := CalculateRentalCost(5000, 0)
		assert.ErrorIs(t, err, domain.ErrEmptyBooking)
	})

	t.Run("Negative price", func(t *testing.T) {
		_, err := CalculateRentalCost(-1, 2)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := CalculateRentalCost(math.MaxInt64/2, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCalculateRentalCostWithBreakdown(t *testing.T) {
	b, err := CalculateRentalCostWithBreakdown(2500, 2)
	assert.NoError(t, err)
	assert.Equal(t, RentalCostBreakdown{Days: 2, PricePerDayCents: 2500, TotalCents: 5000}, b)
}

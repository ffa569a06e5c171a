package utils

import (
	"fmt"
	"math"

	"suit-rental-backend/internal/domain"
)

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	Days             int
	PricePerDayCents int64
	TotalCents       int64
}

// CalculateRentalCost prices a booking of dayCount whole days at a flat daily rate.
func CalculateRentalCost(pricePerDayCents int64, dayCount int) (int64, error) {
	breakdown, err := CalculateRentalCostWithBreakdown(pricePerDayCents, dayCount)
	if err != nil {
		return 0, err
	}
	return breakdown.TotalCents, nil
}

// CalculateRentalCostWithBreakdown returns the cost along with its inputs.
func CalculateRentalCostWithBreakdown(pricePerDayCents int64, dayCount int) (RentalCostBreakdown, error) {
	if pricePerDayCents < 0 {
		return RentalCostBreakdown{}, fmt.Errorf("%w: price per day must not be negative", domain.ErrInvalidInput)
	}
	if dayCount <= 0 {
		return RentalCostBreakdown{}, domain.ErrEmptyBooking
	}
	if pricePerDayCents > 0 && int64(dayCount) > math.MaxInt64/pricePerDayCents {
		return RentalCostBreakdown{}, fmt.Errorf("%w: rental cost overflows", domain.ErrInvalidInput)
	}
	return RentalCostBreakdown{
		Days:             dayCount,
		PricePerDayCents: pricePerDayCents,
		TotalCents:       pricePerDayCents * int64(dayCount),
	}, nil
}

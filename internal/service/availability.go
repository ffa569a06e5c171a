package service

import (
	"context"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
)

type availabilityService struct {
	store repository.Store
	cache AvailabilityCache
}

func NewAvailabilityService(store repository.Store, cache AvailabilityCache) AvailabilityService {
	if cache == nil {
		cache = noopCache{}
	}
	return &availabilityService{store: store, cache: cache}
}

func (s *availabilityService) UnavailableDays(ctx context.Context, suitID int32) (*domain.Availability, error) {
	logger.EnterMethod("availabilityService.UnavailableDays", "suitID", suitID)

	days, hit, generation, cacheErr := s.cache.Get(ctx, suitID)
	if cacheErr != nil {
		logger.WarnContext(ctx, "Availability cache read failed", "suitID", suitID, "error", cacheErr)
	}
	if cacheErr == nil && hit {
		logger.ExitMethod("availabilityService.UnavailableDays", "suitID", suitID, "cached", true, "count", len(days))
		return &domain.Availability{SuitID: suitID, UnavailableDays: nonNil(days)}, nil
	}

	repos := s.store.Repositories()
	if _, err := repos.Suits.GetByID(ctx, suitID); err != nil {
		err = domain.AsStorageError("get suit", err)
		logger.ExitMethodWithError("availabilityService.UnavailableDays", err, "suitID", suitID)
		return nil, err
	}

	days, err := repos.RentalDays.ActiveDaysBySuit(ctx, suitID, nil)
	if err != nil {
		err = domain.AsStorageError("unavailable days", err)
		logger.ExitMethodWithError("availabilityService.UnavailableDays", err, "suitID", suitID)
		return nil, err
	}

	// Without a generation from Get there is nothing to guard the write with.
	if cacheErr == nil {
		if err := s.cache.Set(ctx, suitID, generation, days); err != nil {
			logger.WarnContext(ctx, "Availability cache write failed", "suitID", suitID, "error", err)
		}
	}

	logger.ExitMethod("availabilityService.UnavailableDays", "suitID", suitID, "cached", false, "count", len(days))
	return &domain.Availability{SuitID: suitID, UnavailableDays: nonNil(days)}, nil
}

func nonNil(days []domain.Day) []domain.Day {
	if days == nil {
		return []domain.Day{}
	}
	return days
}

type noopCache struct{}

func (noopCache) Get(context.Context, int32) ([]domain.Day, bool, int64, error) {
	return nil, false, 0, nil
}
func (noopCache) Set(context.Context, int32, int64, []domain.Day) error { return nil }
func (noopCache) Invalidate(context.Context, int32) error               { return nil }

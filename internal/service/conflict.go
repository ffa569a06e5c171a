package service

import (
	"context"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
)

type conflictChecker struct {
	store repository.Store
}

func NewConflictChecker(store repository.Store) ConflictChecker {
	return &conflictChecker{store: store}
}

func (c *conflictChecker) FindConflicts(ctx context.Context, suitID int32, candidate domain.DaySet) (domain.DaySet, error) {
	return findConflicts(ctx, c.store.Repositories().RentalDays, suitID, candidate)
}

// findConflicts runs against whatever connection days is bound to, so the
// booking path can call it inside its transaction.
func findConflicts(ctx context.Context, days repository.RentalDayRepository, suitID int32, candidate domain.DaySet) (domain.DaySet, error) {
	if candidate.Len() == 0 {
		return domain.NewDaySet(), nil
	}
	held, err := days.ActiveDaysBySuit(ctx, suitID, candidate.Sorted())
	if err != nil {
		return nil, domain.AsStorageError("find conflicts", err)
	}
	return candidate.Intersect(domain.NewDaySet(held...)), nil
}

package jobs

import (
	"context"
	"time"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
)

const completeElapsedTimeout = 10 * time.Minute

// CompleteElapsedRentals completes every ACTIVE rental whose last booked day
// is before today (UTC). It is the cron entry point.
func (jr *JobRunner) CompleteElapsedRentals() {
	jr.runCompleteElapsedRentals()
}

func (jr *JobRunner) runCompleteElapsedRentals() bool {
	return jr.runWithRecovery("CompleteElapsedRentals", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), completeElapsedTimeout)
		defer cancel()

		today := domain.DayOf(jr.now().UTC())
		count, err := jr.rentals.CompleteElapsedRentals(ctx, today)
		logger.Info("Completed elapsed rentals", "count", count, "today", today.String())
		return err
	})
}

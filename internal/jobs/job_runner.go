package jobs

import (
	"time"

	"suit-rental-backend/internal/config"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals service.RentalService
	config  *config.Config
	now     func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals service.RentalService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals: rentals,
		config:  cfg,
		now:     time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and reports
// whether the job finished without error.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) (ok bool) {
	start := jr.now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			ok = false
		}
	}()

	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", jr.now().Sub(start))
		return false
	}
	logger.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start))
	return true
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() bool {
	return jr.runCompleteElapsedRentals()
}

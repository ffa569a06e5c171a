package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"suit-rental-backend/internal/jobs"
	"suit-rental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Nightly jobs
	// Complete rentals whose last day has passed
	if _, err := s.cron.AddFunc(cfg.CompleteElapsedRentals, s.jobs.CompleteElapsedRentals); err != nil {
		return fmt.Errorf("failed to register CompleteElapsedRentals job with spec %q: %w", cfg.CompleteElapsedRentals, err)
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// NextRun reports when the earliest registered job fires next.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		t := e.Schedule.Next(now)
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next
}

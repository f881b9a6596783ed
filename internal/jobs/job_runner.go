package jobs

import (
	"database/sql"

	"perpusum-backend/internal/clock"
	"perpusum-backend/internal/config"
	"perpusum-backend/internal/logger"
	"perpusum-backend/internal/notify"
	"perpusum-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db         *sql.DB
	emailSvc   service.EmailService
	dispatcher notify.Dispatcher
	clock      clock.Clock
	config     *config.Config
}

func NewJobRunner(db *sql.DB, emailSvc service.EmailService, dispatcher notify.Dispatcher, clk clock.Clock, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:         db,
		emailSvc:   emailSvc,
		dispatcher: dispatcher,
		clock:      clk,
		config:     cfg,
	}
}

// Config returns the loaded configuration, for the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution via cmd/cronjob).
func (jr *JobRunner) RunAll() {
	jr.SendExpiryReminders()
	jr.SendLapsedReminders()
}

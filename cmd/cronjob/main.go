package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"perpusum-backend/internal/clock"
	"perpusum-backend/internal/config"
	"perpusum-backend/internal/jobs"
	"perpusum-backend/internal/logger"
	"perpusum-backend/internal/notify"
	"perpusum-backend/internal/scheduler"
	"perpusum-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expiry-reminders', 'lapsed-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting membership cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	queue := notify.NewQueue(
		cfg.Notify.Workers,
		cfg.Notify.QueueSize,
		cfg.Notify.MaxRetries,
		time.Duration(cfg.Notify.SendTimeoutSeconds)*time.Second,
	)
	queue.Start(context.Background())

	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.SenderName, cfg.Email.SenderAddr)
	jobRunner := jobs.NewJobRunner(db, emailSvc, queue, clock.New(), cfg)

	// Run-once mode for manual execution and crontab-driven deployments
	if *runOnce != "" {
		switch *runOnce {
		case "expiry-reminders":
			jobRunner.SendExpiryReminders()
		case "lapsed-reminders":
			jobRunner.SendLapsedReminders()
		case "all":
			jobRunner.RunAll()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		// Give queued notifications a moment to drain before exiting.
		time.Sleep(time.Duration(cfg.Notify.SendTimeoutSeconds) * time.Second)
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Block until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("Shutting down cronjob runner...")
}

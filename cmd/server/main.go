package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	api "perpusum-backend/internal/api/http"
	"perpusum-backend/internal/clock"
	"perpusum-backend/internal/config"
	"perpusum-backend/internal/jobs"
	"perpusum-backend/internal/logger"
	"perpusum-backend/internal/membernumber"
	"perpusum-backend/internal/notify"
	"perpusum-backend/internal/repository/postgres"
	"perpusum-backend/internal/scheduler"
	"perpusum-backend/internal/security"
	"perpusum-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Perpustakaan UM membership backend...",
		"log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration",
		"host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Hour,
	)

	// Notification queue: dispatch happens after commits, off the request path
	queue := notify.NewQueue(
		cfg.Notify.Workers,
		cfg.Notify.QueueSize,
		cfg.Notify.MaxRetries,
		time.Duration(cfg.Notify.SendTimeoutSeconds)*time.Second,
	)
	queue.Start(context.Background())

	// Initialize Services
	clk := clock.New()
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.SenderName, cfg.Email.SenderAddr)
	allocator := membernumber.NewAllocator(store.MemberRepository)
	memberSvc := service.NewMemberService(store.MemberRepository, allocator, emailSvc, queue, clk)
	renewalSvc := service.NewRenewalService(store.RenewalRepository, store.MemberRepository, emailSvc, queue, clk)
	statsSvc := service.NewStatsService(store.MemberRepository, clk)
	authSvc := service.NewAuthService(store.AdminRepository, tokenManager)

	// Initialize HTTP handlers
	authHandler := api.NewAuthHandler(authSvc, tokenManager)
	memberHandler := api.NewMemberHandler(memberSvc, statsSvc)
	renewalHandler := api.NewRenewalHandler(renewalSvc)
	router := api.NewRouter(authHandler, memberHandler, renewalHandler, tokenManager)

	// Start the reminder scheduler
	jobRunner := jobs.NewJobRunner(db, emailSvc, queue, clk, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}

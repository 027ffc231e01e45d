package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opencampus/admission-backend/internal/config"
	"github.com/opencampus/admission-backend/internal/database"
	"github.com/opencampus/admission-backend/internal/handler"
	"github.com/opencampus/admission-backend/internal/logger"
	"github.com/opencampus/admission-backend/internal/notify"
	"github.com/opencampus/admission-backend/internal/repository"
	"github.com/opencampus/admission-backend/internal/router"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/opencampus/admission-backend/internal/validator"
	"github.com/opencampus/admission-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Admission Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	scheduleRepo := repository.NewScheduleRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	applicantRepo := repository.NewApplicantRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	historyRepo := repository.NewStatusHistoryRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	ledger := repository.NewCapacityLedger()

	// ─── Initialize Services ──────────────────────────────────────────
	notifier := notify.NewQueueGateway(rdb)

	authService := service.NewAuthService(cfg)
	adminUserService := service.NewAdminUserService(adminRepo, roleRepo, authService)
	adminRoleService := service.NewAdminRoleService(roleRepo)
	applicantService := service.NewApplicantService(applicantRepo, courseRepo, historyRepo)
	courseService := service.NewCourseService(courseRepo)
	venueService := service.NewVenueService(venueRepo)
	scheduleService := service.NewScheduleService(pool, scheduleRepo, venueRepo, courseRepo, assignmentRepo, applicantRepo, historyRepo, ledger, notifier, log)
	assignmentService := service.NewAssignmentService(pool, scheduleRepo, assignmentRepo, applicantRepo, historyRepo, ledger, notifier, log)
	rosterService := service.NewRosterService(pool, scheduleRepo, assignmentRepo, applicantRepo, historyRepo, ledger, notifier, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(adminUserService),
		Applicant:  handler.NewApplicantHandler(applicantService),
		Schedule:   handler.NewScheduleHandler(scheduleService, assignmentService, log),
		Assignment: handler.NewAssignmentHandler(assignmentService),
		Roster:     handler.NewRosterHandler(rosterService),
		Course:     handler.NewCourseHandler(courseService),
		Venue:      handler.NewVenueHandler(venueService),
		AdminUser:  handler.NewAdminUserHandler(adminUserService),
		AdminRole:  handler.NewAdminRoleHandler(adminRoleService),
		Monitor:    handler.NewMonitorHandler(scheduleService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notificationWorker := worker.NewNotificationWorker(rdb, cfg.NotifyWebhookURL, log)
	autoAssignWorker := worker.NewAutoAssignWorker(scheduleRepo, assignmentService, cfg.AutoAssignInterval, log)

	go notificationWorker.Start(workerCtx)
	go autoAssignWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

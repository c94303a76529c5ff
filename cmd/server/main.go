package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"peerflow/internal/cache"
	"peerflow/internal/cache/rediscache"
	"peerflow/internal/config"
	"peerflow/internal/email/noop"
	"peerflow/internal/email/ses"
	"peerflow/internal/handler"
	"peerflow/internal/port"
	"peerflow/internal/repository/postgres"
	"peerflow/internal/router"
	"peerflow/internal/service"
	s3storage "peerflow/internal/storage/s3"
	"peerflow/internal/workflow"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	eventRepo := postgres.NewSubmissionEventRepo(db)

	var subRepo port.SubmissionRepository = postgres.NewSubmissionRepo(db)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		subRepo = cache.NewCachedSubmissionRepo(subRepo, rediscache.New(redisClient, cfg.Redis.TTL))
		log.Printf("submission cache enabled (redis %s, ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	machine := workflow.New()

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	submissionSvc := service.NewSubmissionService(subRepo, userRepo, eventRepo, emailSender, machine)
	assignmentSvc := service.NewAssignmentService(subRepo, userRepo, eventRepo, emailSender, machine, cfg.Review)
	reviewSvc := service.NewReviewService(subRepo, eventRepo, cfg.Review)
	manuscriptSvc := service.NewManuscriptService(s3Client, &cfg.S3)
	reportSvc := service.NewReportService(subRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	submissionH := handler.NewSubmissionHandler(submissionSvc, assignmentSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	manuscriptH := handler.NewManuscriptHandler(manuscriptSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, authSvc, authH, userH, submissionH, reviewH, manuscriptH, reportH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Review due-date reminders run until shutdown.
	worker := service.NewReminderWorker(subRepo, userRepo, emailSender, cfg.Review)
	workerDone := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(workerDone)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone

	return nil
}

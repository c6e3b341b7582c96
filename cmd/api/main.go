package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devevent/config"
	_ "devevent/docs"
	"devevent/internal/adapters/analytics"
	"devevent/internal/adapters/email"
	"devevent/internal/adapters/images"
	delivery "devevent/internal/delivery/http"
	"devevent/internal/delivery/http/controllers"
	"devevent/internal/delivery/http/middleware"
	"devevent/internal/repository/postgres"
	"devevent/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title DevEvent API
// @version 1.0
// @description Event listing and booking API.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	if err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	db := postgres.NewDB(cfg.DBUrl)
	defer db.Close()

	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	imageStore, err := images.NewStore(context.Background(), images.Config{
		Provider:      cfg.ImageProvider,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PathStyle:     cfg.S3PathStyle,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to create image store", "err", err)
		os.Exit(1)
	}

	tracker := analytics.NewTracker(analytics.Config{
		Provider: cfg.AnalyticsProvider,
		Host:     cfg.AnalyticsHost,
		APIKey:   cfg.AnalyticsAPIKey,
	}, nil)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventService := services.NewEventService(eventRepo, bookingRepo, tracker, serviceTimeout)
	bookingService := services.NewBookingService(bookingRepo, eventRepo, emailService, tracker, serviceTimeout)

	eventController := controllers.NewEventController(logger, eventService, imageStore)
	bookingController := controllers.NewBookingController(logger, bookingService)

	mux := delivery.NewRouter(eventController, bookingController)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	server := &stdhttp.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

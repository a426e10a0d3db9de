package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/scholarmatch/scholarship-service/internal/config"
	"github.com/scholarmatch/scholarship-service/internal/events"
	"github.com/scholarmatch/scholarship-service/internal/handlers"
	"github.com/scholarmatch/scholarship-service/internal/mailer"
	"github.com/scholarmatch/scholarship-service/internal/repositories/postgres"
	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
	"github.com/scholarmatch/scholarship-service/internal/validator"
	"github.com/scholarmatch/scholarship-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	// Initialize validator
	v := validator.New()

	// Initialize mailer
	var m mailer.Mailer
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Printf("Warning: SMTP_HOST not set, using mock mailer")
		m = mailer.NewMockMailer()
	}

	// Initialize event publisher
	var publisher events.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		publisher = events.NewGoChannelPublisher(cfg.Kafka.Topic, slogLogger)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(db, repo, slogLogger, v, m, publisher, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serviceManager.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the notification scheduler
	go runNotificationScheduler(ctx, serviceManager.Notification(), cfg.Notification.SweepInterval, slogLogger)

	// Start server
	go func() {
		slogLogger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	slogLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogLogger.Error("Server shutdown failed", "error", err)
	}
	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		slogLogger.Error("Service shutdown failed", "error", err)
	}

	slogLogger.Info("Server stopped")
}

// runNotificationScheduler runs the periodic email passes until ctx is
// cancelled. Each pass is independent; one failing does not stop the rest.
func runNotificationScheduler(ctx context.Context, svc services.NotificationService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Notification scheduler started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification scheduler stopped")
			return
		case <-ticker.C:
			now := time.Now()

			if result, err := svc.RunSweep(ctx, now); err != nil {
				logger.Error("Notification sweep failed", "error", err)
			} else {
				logger.Info("Notification sweep completed",
					"users_processed", result.UsersProcessed,
					"new_match_emails", result.NewMatchEmails,
					"closing_emails", result.ClosingEmails,
					"failed_deliveries", result.FailedDeliveries)
			}

			if err := svc.NotifyNewScholarships(ctx, now); err != nil {
				logger.Error("New scholarship notification failed", "error", err)
			}
			if err := svc.SendDeadlineReminders(ctx, now); err != nil {
				logger.Error("Deadline reminders failed", "error", err)
			}
			if err := svc.SendSavedClosingReminders(ctx, now); err != nil {
				logger.Error("Saved closing reminders failed", "error", err)
			}
		}
	}
}

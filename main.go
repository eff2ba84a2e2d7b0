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

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/mentorship-service/internal/cache"
	"github.com/SAP-F-2025/mentorship-service/internal/config"
	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/handlers"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories/memory"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/storage"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
	"github.com/SAP-F-2025/mentorship-service/pkg"
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

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	casdoorConfig := casdoor.CasdoorConfig{
		Endpoint:         cfg.Casdoor.Endpoint,
		ClientID:         cfg.Casdoor.ClientID,
		ClientSecret:     cfg.Casdoor.ClientSecret,
		Certificate:      cfg.Casdoor.Cert,
		OrganizationName: cfg.Casdoor.Organization,
		ApplicationName:  cfg.Casdoor.Application,
	}

	// Initialize repositories
	var (
		db   *gorm.DB
		repo repositories.Repository
	)
	switch cfg.StorageDriver {
	case "memory":
		var users repositories.UserRepository = memory.NewUserDirectory()
		if cfg.Casdoor.Endpoint != "" {
			users = casdoor.NewUserCasdoor(casdoorConfig, redisClient)
		}
		repo = memory.NewRepository(users)
		logger.Warn("Using in-memory storage, data is lost on restart")
	default:
		db, err = pkg.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if cfg.MigrateOnBoot {
			if err := pkg.Migrate(context.Background(), db, slogLogger); err != nil {
				log.Fatalf("Failed to migrate database: %v", err)
			}
		}

		repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
			DB:            db,
			RedisClient:   redisClient,
			CasdoorConfig: casdoorConfig,
		})
		if err := repoManager.Initialize(); err != nil {
			log.Fatalf("Failed to initialize repositories: %v", err)
		}
		repo = repoManager.GetRepository()
	}

	// Notifications go to Kafka when brokers are configured, otherwise to an in-process channel
	var publisher events.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize kafka publisher: %v", err)
		}
	} else {
		inProcess, channel := events.NewInProcessPublisher(cfg.Kafka.Topic, slogLogger)
		if err := logNotifications(channel, cfg.Kafka.Topic, logger); err != nil {
			log.Fatalf("Failed to subscribe to notifications: %v", err)
		}
		publisher = inProcess
	}

	files, err := storage.NewLocalFileStore(cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxSize)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      repo,
		Cache:     cache.NewCacheManager(redisClient),
		Publisher: publisher,
		Files:     files,
		Logger:    slogLogger,
		Validator: validator.New(),
	}, services.ServiceManagerConfig{
		RejectionPolicy: services.RejectionPolicy(cfg.RejectionPolicy),
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	router.Static("/uploads", files.Dir())

	authMiddleware := handlers.NewCasdoorAuthMiddleware(cfg.Casdoor, repo.User(), logger)
	handlers.NewHandlerManager(serviceManager, logger, authMiddleware).SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}
	if err := repo.Close(); err != nil {
		logger.Error("Failed to close repository", "error", err)
	}
	if db == nil && redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

// logNotifications drains the in-process topic so local runs show what would reach Kafka
func logNotifications(channel *gochannel.GoChannel, topic string, logger utils.Logger) error {
	messages, err := channel.Subscribe(context.Background(), topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			logger.Info("Notification",
				"event_type", msg.Metadata.Get("event_type"),
				"user_id", msg.Metadata.Get("user_id"),
				"event_id", msg.UUID)
			msg.Ack()
		}
	}()
	return nil
}

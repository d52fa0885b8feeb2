package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/application"
	"github.com/ajar-homes/service-booking/internal/auth"
	"github.com/ajar-homes/service-booking/internal/cache"
	"github.com/ajar-homes/service-booking/internal/config"
	"github.com/ajar-homes/service-booking/internal/database"
	"github.com/ajar-homes/service-booking/internal/domain"
	bookingEvents "github.com/ajar-homes/service-booking/internal/events"
	"github.com/ajar-homes/service-booking/internal/handler"
	"github.com/ajar-homes/service-booking/internal/health"
	"github.com/ajar-homes/service-booking/internal/kafka"
	"github.com/ajar-homes/service-booking/internal/logger"
	"github.com/ajar-homes/service-booking/internal/middleware"
	"github.com/ajar-homes/service-booking/internal/pricing"
	"github.com/ajar-homes/service-booking/internal/repository"
	"github.com/ajar-homes/service-booking/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.PropertyModel{},
			&repository.BookingModel{},
			&repository.OfferModel{},
			&repository.AvailabilityModel{},
			&repository.BookingDayModel{},
		); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize Kafka producer and notifier
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()
	notifier := bookingEvents.NewNotifier(kafkaProducer, zapLogger)

	// Calendar cache; the service degrades to uncached reads without Redis.
	calendarCache, err := cache.New(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB, zapLogger)
	if err != nil {
		zapLogger.Warn("redis unavailable, calendar cache disabled", zap.Error(err))
		calendarCache = nil
	} else {
		defer calendarCache.Close()
	}

	clock := domain.SystemClock{}

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	bookingRepo := repository.NewBookingRepository(db)
	propertyRepo := repository.NewGormPropertyRepository(db)
	offerRepo := repository.NewGormOfferRepository(db)
	ledger := repository.NewGormAvailabilityLedger(db, clock)

	// Initialize services
	calc := pricing.NewCalculator(offerRepo, clock)
	bookingService := application.NewBookingService(
		txManager, bookingRepo, propertyRepo, offerRepo, ledger,
		calc, notifier, calendarCache, clock, cfg.HoldTTL, zapLogger,
	)
	propertyService := application.NewPropertyService(
		txManager, propertyRepo, bookingRepo, ledger,
		notifier, calendarCache, clock, zapLogger,
	)
	offerService := application.NewOfferService(offerRepo, propertyRepo, calc, clock, zapLogger)
	availabilityService := application.NewAvailabilityService(
		txManager, propertyRepo, ledger,
		calendarCache, cfg.RedisConfig.CacheTTL, clock, zapLogger,
	)

	// Consume payment outcomes from the payment service
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix+"booking-service",
		bookingService,
		zapLogger,
	)
	defer paymentConsumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting payment event consumer")
		if err := paymentConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("payment event consumer failed", zap.Error(err))
			}
		}
	}()

	// Background completion and hold-sweep pass
	go scheduler.New(bookingService, availabilityService, cfg.SchedulerInterval, zapLogger).Start(consumerCtx)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register API routes
	apiV1 := router.Group("/api/v1")
	handler.NewBookingHandler(bookingService).RegisterRoutes(apiV1, jwtManager)
	handler.NewPropertyHandler(propertyService, availabilityService, bookingService).RegisterRoutes(apiV1, jwtManager)
	handler.NewOfferHandler(offerService).RegisterRoutes(apiV1, jwtManager)
	handler.NewAdminHandler(bookingService).RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-booking...")

	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-booking stopped")
}

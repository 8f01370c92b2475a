package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/adapters/cache"
	"github.com/appointly/appointly-api/internal/adapters/database"
	"github.com/appointly/appointly-api/internal/adapters/events"
	"github.com/appointly/appointly-api/internal/adapters/search"
	"github.com/appointly/appointly-api/internal/api/handlers"
	"github.com/appointly/appointly-api/internal/api/routes"
	"github.com/appointly/appointly-api/internal/application/services"
	"github.com/appointly/appointly-api/internal/domain/providers"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/redis"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/typesense"
	"github.com/appointly/appointly-api/internal/infrastructure/observability"
	"github.com/appointly/appointly-api/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// sqlx view of the same pool for the notification and audit stores
	sqlxDB := sqlx.NewDb(pgClient.DB(), "postgres")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		redisClient = nil
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for booking lifecycle events
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters

	baseProviderAdapter := database.NewProviderAdapter(pgClient)

	// Wrap with caching if Redis is available (for read performance optimization)
	var providerAdapter repositories.ProviderRepository
	if cacheProvider != nil {
		providerAdapter = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider)
		log.Println("Provider adapter wrapped with caching layer")
	} else {
		providerAdapter = baseProviderAdapter
		log.Println("Provider adapter running without cache (Redis unavailable)")
	}

	serviceAdapter := database.NewServiceAdapter(pgClient)
	scheduleAdapter := database.NewScheduleAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)

	var searchProvider providers.SearchProvider
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchProvider = adapter
	}

	// Initialize services

	logger := observability.GetLogger()

	notificationService := services.NewNotificationService(sqlxDB)
	auditService := services.NewAuditService(sqlxDB)

	providerService := services.NewProviderService(providerAdapter, serviceAdapter, searchProvider, *logger)
	availabilityService := services.NewAvailabilityService(providerAdapter, scheduleAdapter, appointmentAdapter, nil)
	bookingService := services.NewBookingService(
		appointmentAdapter,
		scheduleAdapter,
		providerAdapter,
		serviceAdapter,
		eventBus,
		notificationService,
		auditService,
		nil,
		*logger,
	)
	appointmentService := services.NewAppointmentService(
		appointmentAdapter,
		providerAdapter,
		eventBus,
		notificationService,
		auditService,
		nil,
		*logger,
	)
	scheduleService := services.NewScheduleService(
		scheduleAdapter,
		providerAdapter,
		appointmentAdapter,
		eventBus,
		auditService,
		nil,
		*logger,
	)

	// Seed the search index in the background so discovery works shortly
	// after startup even on a fresh Typesense node
	if searchProvider != nil {
		go providerService.WarmSearchIndex(ctx)
	}

	// Initialize handlers

	providerHandler := handlers.NewProviderHandler(providerService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	appointmentHandler := handlers.NewAppointmentHandler(bookingService, appointmentService, metrics)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	adminHandler := handlers.NewAdminHandler(auditService, notificationService)

	// Set up router
	router := routes.NewRouter(
		providerHandler,
		availabilityHandler,
		appointmentHandler,
		scheduleHandler,
		adminHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}

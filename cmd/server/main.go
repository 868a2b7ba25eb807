package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dukerupert/sif/internal"
	"github.com/dukerupert/sif/internal/auth"
	"github.com/dukerupert/sif/internal/events"
	"github.com/dukerupert/sif/internal/middleware"
	"github.com/dukerupert/sif/internal/postgres"
	"github.com/dukerupert/sif/internal/router"
	"github.com/dukerupert/sif/internal/routes"
	"github.com/dukerupert/sif/internal/service"
	"github.com/dukerupert/sif/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	cartStore := postgres.NewCartStore(pool)
	productStore := postgres.NewProductStore(pool)
	userStore := postgres.NewUserStore(pool)

	// Initialize token signing
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	// Initialize event publishing; without a broker configured, checkout
	// events are dropped.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		logger.Info("Connecting to NATS...", "url", cfg.NatsURL)
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("NATS connection failed: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS connection established")
	}

	// Initialize business metrics
	cartMetrics := telemetry.NewCartMetrics("sif")

	// Initialize services
	cartService := service.NewCartService(cartStore, publisher, cartMetrics, logger)
	productService := service.NewProductService(productStore)
	categoryService := service.NewCategoryService(productStore)
	userService := service.NewUserService(userStore, tokens)

	// Initialize Prometheus HTTP metrics
	metrics := middleware.NewMetrics("sif")

	// Create router with global middleware
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.WithUser(tokens),
		middleware.WithRequestLogger(logger),
	)

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Register API routes
	routes.Register(r, routes.Deps{
		Carts:      cartService,
		Products:   productService,
		Categories: categoryService,
		Users:      userService,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

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

	"github.com/dukerupert/skald/internal"
	"github.com/dukerupert/skald/internal/bootstrap"
	"github.com/dukerupert/skald/internal/events"
	"github.com/dukerupert/skald/internal/handler/api"
	"github.com/dukerupert/skald/internal/middleware"
	"github.com/dukerupert/skald/internal/postgres"
	"github.com/dukerupert/skald/internal/router"
	"github.com/dukerupert/skald/internal/routes"
	"github.com/dukerupert/skald/internal/service"
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

	// Initialize pgx connection pool for the application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Seed the root admin account (idempotent)
	if err := bootstrap.EnsureRootAdmin(ctx, store, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("root admin bootstrap failed: %w", err)
	}

	// Event publisher: NATS when configured, otherwise a no-op
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSUrl != "" {
		natsPublisher, err := events.ConnectNATS(cfg.NATSUrl, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "url", cfg.NATSUrl)
	}

	// Initialize services
	bookService := service.NewBookService(store)
	cartService := service.NewCartService(store)
	userService := service.NewUserService(store)
	purchaseService := service.NewPurchaseService(store)
	checkoutService := service.NewCheckoutService(service.NewCheckoutStore(store), publisher, logger)

	// Initialize handlers
	apiDeps := routes.APIDeps{
		Books:     api.NewBookHandler(bookService, logger),
		Cart:      api.NewCartHandler(cartService, logger),
		Purchases: api.NewPurchaseHandler(checkoutService, purchaseService, logger),
		Users:     api.NewUserHandler(userService, logger),
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("skald")

	// Create the router with the global middleware chain. Identity runs
	// before the request logger so request logs carry the user ID.
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.WithTimeout(middleware.DefaultTimeout),
		middleware.WithIdentity(cfg.JWTSecret),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAPIRoutes(r, apiDeps)

	// CORS wraps the whole router so preflight requests are answered before
	// method matching can reject them.
	handler := router.CORS(cfg.CORSOrigins)(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, handler); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

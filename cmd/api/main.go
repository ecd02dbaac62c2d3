package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/mfarias-dev/puntoventa-backend/api/routes"
	"github.com/mfarias-dev/puntoventa-backend/internal/auth"
	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	"github.com/mfarias-dev/puntoventa-backend/internal/checkout"
	"github.com/mfarias-dev/puntoventa-backend/internal/pos"
	"github.com/mfarias-dev/puntoventa-backend/internal/reports"
	"github.com/mfarias-dev/puntoventa-backend/internal/sales"
	"github.com/mfarias-dev/puntoventa-backend/internal/users"
	"github.com/mfarias-dev/puntoventa-backend/pkg/auth/session"
	"github.com/mfarias-dev/puntoventa-backend/pkg/config"
	"github.com/mfarias-dev/puntoventa-backend/pkg/db"
	"github.com/mfarias-dev/puntoventa-backend/pkg/instance"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
	"github.com/mfarias-dev/puntoventa-backend/pkg/metrics"
	"github.com/mfarias-dev/puntoventa-backend/pkg/migrate"
	"github.com/mfarias-dev/puntoventa-backend/pkg/redis"
	"github.com/mfarias-dev/puntoventa-backend/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	server, err := buildServer(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire api server", err)
		_ = multierr.Append(dbClient.Close(), redisClient.Close())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
		<-serveErr
	}

	if err := multierr.Append(redisClient.Close(), dbClient.Close()); err != nil {
		logg.Error(logCtx, "error releasing resources", err)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server stopped")
}

func buildServer(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*http.Server, error) {
	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return nil, err
	}

	hasher := security.NewHasher(cfg.Password)

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	salesRepo := sales.NewRepository(dbClient.DB())

	usersService, err := users.NewService(usersRepo, hasher)
	if err != nil {
		return nil, err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		AccountService: usersService,
		SessionManager: sessionManager,
		Verifier:       hasher,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return nil, err
	}
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		return nil, err
	}
	salesService, err := sales.NewService(salesRepo)
	if err != nil {
		return nil, err
	}
	cartStore := pos.NewCartStore()
	checkoutService, err := checkout.NewService(dbClient, cartStore, catalogRepo, salesRepo)
	if err != nil {
		return nil, err
	}
	reportsService, err := reports.NewService(salesRepo, catalogService)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		DBPinger:    dbClient,
		RedisPinger: redisClient,

		IdempotencyStore: redisClient,
		RateLimitStore:   redisClient,
		SessionChecker:   sessionManager,

		AuthService:     authService,
		CatalogService:  catalogService,
		CartStore:       cartStore,
		CheckoutService: checkoutService,
		SalesService:    salesService,
		UsersService:    usersService,
		ReportsService:  reportsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}

	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

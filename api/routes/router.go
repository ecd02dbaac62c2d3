package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mfarias-dev/puntoventa-backend/api/controllers"
	"github.com/mfarias-dev/puntoventa-backend/api/middleware"
	authsvc "github.com/mfarias-dev/puntoventa-backend/internal/auth"
	"github.com/mfarias-dev/puntoventa-backend/internal/catalog"
	checkoutsvc "github.com/mfarias-dev/puntoventa-backend/internal/checkout"
	"github.com/mfarias-dev/puntoventa-backend/internal/pos"
	"github.com/mfarias-dev/puntoventa-backend/internal/reports"
	salessvc "github.com/mfarias-dev/puntoventa-backend/internal/sales"
	userssvc "github.com/mfarias-dev/puntoventa-backend/internal/users"
	"github.com/mfarias-dev/puntoventa-backend/pkg/auth/session"
	"github.com/mfarias-dev/puntoventa-backend/pkg/config"
	"github.com/mfarias-dev/puntoventa-backend/pkg/db"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
	"github.com/mfarias-dev/puntoventa-backend/pkg/metrics"
	pkgredis "github.com/mfarias-dev/puntoventa-backend/pkg/redis"
)

type rateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	DBPinger    db.Pinger
	RedisPinger pkgredis.Pinger

	IdempotencyStore pkgredis.IdempotencyStore
	RateLimitStore   rateLimitStore
	SessionChecker   session.AccessSessionChecker

	AuthService     authsvc.Service
	CatalogService  catalog.Service
	CartStore       *pos.CartStore
	CheckoutService checkoutsvc.Service
	SalesService    salessvc.Service
	UsersService    userssvc.Service
	ReportsService  reports.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.IdempotencyStore, cfg.Checkout.IdempotencyTTL, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimitStore, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimitStore, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.Idempotency(deps.IdempotencyStore, cfg.Checkout.IdempotencyTTL, logg))

		r.Route("/pos", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartStore, logg))
				r.Delete("/", controllers.CartClear(deps.CartStore, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartStore, deps.CatalogService, logg))
				r.Put("/items/{productId}", controllers.CartUpdateItem(deps.CartStore, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartStore, logg))
			})
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.CatalogService, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.CatalogService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
				r.Post("/", controllers.ProductCreate(deps.CatalogService, logg))
				r.Put("/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
				r.Delete("/{productId}", controllers.ProductDelete(deps.CatalogService, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.CatalogService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
				r.Post("/", controllers.CategoryCreate(deps.CatalogService, logg))
				r.Put("/{categoryId}", controllers.CategoryUpdate(deps.CatalogService, logg))
				r.Delete("/{categoryId}", controllers.CategoryDelete(deps.CatalogService, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(deps.SalesService, logg))
			r.Get("/{saleId}", controllers.SaleDetail(deps.SalesService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(deps.UsersService, logg))
				r.Post("/", controllers.UserCreate(deps.UsersService, logg))
				r.Put("/{userId}/role", controllers.UserChangeRole(deps.UsersService, logg))
				r.Put("/{userId}/active", controllers.UserSetActive(deps.UsersService, logg))
			})
			r.Get("/reports/dashboard", controllers.ReportsDashboard(deps.ReportsService, logg))
		})
	})

	return r
}

// Package app assembles storage, services, and the HTTP middleware chain.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/shopcart/internal/catalog"
	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/featureflags"
	"github.com/aryan0dhankhar/shopcart/internal/handler"
	"github.com/aryan0dhankhar/shopcart/internal/observability/tracing"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/audit"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
	"github.com/aryan0dhankhar/shopcart/internal/security/ratelimit"
	"github.com/aryan0dhankhar/shopcart/internal/service"
	"github.com/aryan0dhankhar/shopcart/internal/storage"
	"github.com/aryan0dhankhar/shopcart/internal/worker"
	"github.com/aryan0dhankhar/shopcart/pkg/config"
)

const maxBodyBytes = 1 << 20

// App is a fully wired server
type App struct {
	Handler  http.Handler
	Storage  *storage.Storage
	Users    *service.UserService
	Products *service.ProductService
	Sweeper  *worker.SessionSweeper

	limiter         *ratelimit.Limiter
	shutdownTracing func(context.Context) error
	logger          *slog.Logger
}

// New opens storage and builds every service, handler and middleware from cfg
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// 1. Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "shopcart", cfg.Environment)
	if err != nil {
		return nil, err
	}

	// 2. Open storage
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	// 3. Initialize services
	hasher := password.NewHasher(cfg.BcryptCost)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "shopcart", cfg.TokenTTL)
	userService := service.NewUserService(store.Users, store.Questionnaires, hasher, tokenManager, log)
	productService := service.NewProductService(store.Products, log)
	cartService := service.NewCartService(store.Carts, store.Products, store.Users, log)
	questionnaireService := service.NewQuestionnaireService(store.Questionnaires, store.Users, catalog.Default(), hasher, log)
	recoveryService := service.NewRecoveryService(store.Questionnaires, userService, hasher, cfg.RecoverySessionTTL, log)

	// 4. Initialize security components
	authz := security.NewAuthorizationService(log)
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)

	// 5. Initialize handlers and routes
	router := handler.NewRouter(handler.Routes{
		Auth:           handler.NewAuthHandler(userService, log),
		Products:       handler.NewProductHandler(productService, log),
		Users:          handler.NewUserHandler(userService, authz, log),
		Carts:          handler.NewCartHandler(cartService, authz, log),
		Questionnaires: handler.NewQuestionnaireHandler(questionnaireService, log),
		Recovery:       handler.NewRecoveryHandler(recoveryService, log),
		Health:         handler.NewHealthHandler(store, log),
		Authz:          authz,
		Audit:          auditLogger,
	})

	// Chain middleware: request ID -> CORS -> tracing -> JWT -> rate limit -> audit -> body checks
	var root http.Handler = router
	root = middleware.ValidateJSONContentType(log)(root)
	root = middleware.MaxBodyBytes(maxBodyBytes)(root)
	root = middleware.AuditMiddleware(auditLogger)(root)
	root = middleware.RateLimitMiddleware(rateLimiter, log, "/api/auth/login", "/api/recovery/")(root)
	root = middleware.JWTMiddleware(tokenManager, log)(root)
	root = otelhttp.NewHandler(root, "shopcart")
	root = withCORS(cfg.CORSAllowedOrigins)(root)
	root = withRequestLog(root, log)
	root = middleware.RequestID(root)

	a := &App{
		Handler:         root,
		Storage:         store,
		Users:           userService,
		Products:        productService,
		Sweeper:         worker.NewSessionSweeper(recoveryService, log, time.Minute),
		limiter:         rateLimiter,
		shutdownTracing: shutdownTracing,
		logger:          log,
	}

	if featureflags.Enabled(featureflags.SeedDemo) {
		a.SeedDemo()
	}
	return a, nil
}

// Close stops background work and releases storage and tracing
func (a *App) Close(ctx context.Context) error {
	a.limiter.Stop()
	return errors.Join(a.shutdownTracing(ctx), a.Storage.Close())
}

// SeedDemo creates an admin and a few products. Existing records are left alone.
func (a *App) SeedDemo() {
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin_123"
	}
	adminID := os.Getenv("SEED_ADMIN_ID")
	if adminID == "" {
		adminID = "1710034065"
	}
	_, err := a.Users.CreateUser(service.Registration{
		ID:       adminID,
		Password: adminPassword,
		Role:     domain.RoleAdmin,
		Name:     "Demo Admin",
		Phone:    "0990000000",
		Email:    "admin@shopcart.local",
	})
	if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		a.logger.Warn("failed to seed admin", slog.String("error", err.Error()))
	}

	demo := []domain.Product{
		{Code: 1, Name: "Coffee beans 500g", Price: decimal.RequireFromString("8.50"), Stock: domain.IntPtr(40)},
		{Code: 2, Name: "Ceramic mug", Price: decimal.RequireFromString("4.25"), Stock: domain.IntPtr(25)},
		{Code: 3, Name: "Pour-over filter", Price: decimal.RequireFromString("12.00")},
	}
	for _, p := range demo {
		if _, err := a.Products.Create(p); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			a.logger.Warn("failed to seed product",
				slog.Int("code", p.Code),
				slog.String("error", err.Error()),
			)
		}
	}
	a.logger.Info("demo data seeded", slog.String("admin_id", adminID), slog.Int("products", len(demo)))
}

// withRequestLog logs every completed request with its id
func withRequestLog(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request completed",
			slog.String("request_id", audit.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// withCORS honors the configured origins and answers preflight requests
func withCORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if originAllowed(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if len(allowed) > 0 {
				w.Header().Set("Access-Control-Allow-Origin", allowed[0])
			}
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}


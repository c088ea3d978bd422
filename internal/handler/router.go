package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/shopcart/internal/observability/metrics"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/audit"
	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
)

// Routes bundles the handlers mounted by NewRouter
type Routes struct {
	Auth           *AuthHandler
	Products       *ProductHandler
	Users          *UserHandler
	Carts          *CartHandler
	Questionnaires *QuestionnaireHandler
	Recovery       *RecoveryHandler
	Health         *HealthHandler
	Authz          *security.AuthorizationService
	Audit          *audit.Logger
}

// NewRouter registers every API route. Authentication is expected to run
// before the returned handler; permission checks run here per route.
func NewRouter(rt Routes) http.Handler {
	mux := http.NewServeMux()

	require := func(perm security.Permission, h http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(rt.Authz, perm, rt.Audit)(h)
	}

	mux.HandleFunc("GET /healthz", rt.Health.Live)
	mux.HandleFunc("GET /readyz", rt.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login)
	mux.HandleFunc("POST /api/auth/change-password", rt.Auth.ChangePassword)

	mux.HandleFunc("GET /api/questions", rt.Questionnaires.Questions)
	mux.HandleFunc("GET /api/questionnaire", rt.Questionnaires.Get)
	mux.HandleFunc("PUT /api/questionnaire", rt.Questionnaires.Save)

	mux.HandleFunc("POST /api/recovery/start", rt.Recovery.Start)
	mux.HandleFunc("POST /api/recovery/answer", rt.Recovery.Answer)
	mux.HandleFunc("POST /api/recovery/reset", rt.Recovery.Reset)

	mux.Handle("GET /api/products", require(security.PermReadProducts, rt.Products.List))
	mux.Handle("GET /api/products/{code}", require(security.PermReadProducts, rt.Products.Get))
	mux.Handle("POST /api/products", require(security.PermManageProducts, rt.Products.Create))
	mux.Handle("PUT /api/products/{code}", require(security.PermManageProducts, rt.Products.Update))
	mux.Handle("DELETE /api/products/{code}", require(security.PermManageProducts, rt.Products.Delete))

	mux.Handle("GET /api/users", require(security.PermManageUsers, rt.Users.List))
	mux.Handle("POST /api/users", require(security.PermManageUsers, rt.Users.Create))
	mux.Handle("DELETE /api/users/{id}", require(security.PermManageUsers, rt.Users.Delete))
	mux.HandleFunc("GET /api/users/{id}", rt.Users.Get)
	mux.HandleFunc("PUT /api/users/{id}", rt.Users.Update)

	mux.Handle("GET /api/carts", require(security.PermUseCarts, rt.Carts.List))
	mux.Handle("POST /api/carts", require(security.PermUseCarts, rt.Carts.Open))
	mux.Handle("GET /api/carts/{code}", require(security.PermUseCarts, rt.Carts.Get))
	mux.Handle("GET /api/carts/{code}/summary", require(security.PermUseCarts, rt.Carts.Summary))
	mux.Handle("DELETE /api/carts/{code}", require(security.PermUseCarts, rt.Carts.Delete))
	mux.Handle("POST /api/carts/{code}/items", require(security.PermUseCarts, rt.Carts.AddItem))
	mux.Handle("DELETE /api/carts/{code}/items", require(security.PermUseCarts, rt.Carts.Clear))
	mux.Handle("PUT /api/carts/{code}/items/{product}", require(security.PermUseCarts, rt.Carts.SetQuantity))
	mux.Handle("DELETE /api/carts/{code}/items/{product}", require(security.PermUseCarts, rt.Carts.RemoveItem))

	return metrics.HTTPMetricsMiddleware(mux)
}

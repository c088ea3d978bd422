package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/shopcart/internal/catalog"
	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/repository/memory"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/audit"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
	"github.com/aryan0dhankhar/shopcart/internal/service"
)

const (
	adminID = "1710034065"
	aliceID = "0926687856"
	bobID   = "1713175071"
	secret  = "Secret_1"
)

type okChecker struct{ err error }

func (c okChecker) Health(context.Context) error { return c.err }

type api struct {
	t       *testing.T
	handler http.Handler
	users   *service.UserService
}

func newAPI(t *testing.T) *api {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := memory.Open()
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("secret", "", time.Minute)
	authz := security.NewAuthorizationService(log)

	users := service.NewUserService(repos.Users, repos.Questionnaires, hasher, tokens, log)
	products := service.NewProductService(repos.Products, log)
	carts := service.NewCartService(repos.Carts, repos.Products, repos.Users, log)
	questionnaires := service.NewQuestionnaireService(repos.Questionnaires, repos.Users, catalog.Default(), hasher, log)
	recovery := service.NewRecoveryService(repos.Questionnaires, users, hasher, time.Minute, log)

	router := NewRouter(Routes{
		Auth:           NewAuthHandler(users, log),
		Products:       NewProductHandler(products, log),
		Users:          NewUserHandler(users, authz, log),
		Carts:          NewCartHandler(carts, authz, log),
		Questionnaires: NewQuestionnaireHandler(questionnaires, log),
		Recovery:       NewRecoveryHandler(recovery, log),
		Health:         NewHealthHandler(okChecker{}, log),
		Authz:          authz,
		Audit:          audit.NewLogger(log),
	})

	_, err := users.CreateUser(service.Registration{
		ID:       adminID,
		Password: secret,
		Role:     domain.RoleAdmin,
		Name:     "Admin",
		Phone:    "0991234567",
		Email:    "admin@example.com",
	})
	require.NoError(t, err)

	return &api{t: t, handler: middleware.JWTMiddleware(tokens, log)(router), users: users}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		buf = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) register(id string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"id":         id,
		"password":   secret,
		"name":       "Alice Andrade",
		"phone":      "0991234567",
		"email":      "alice@example.com",
		"birth_date": "1990-05-17",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *api) login(id, pass string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"id": id, "password": pass})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var res service.LoginResult
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

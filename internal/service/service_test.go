package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/shopcart/internal/catalog"
	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/repository/memory"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
)

const (
	aliceID = "1710034065"
	bobID   = "0926687856"
)

type env struct {
	repos          *store.Repositories
	hasher         *password.Hasher
	tokens         *auth.TokenManager
	users          *UserService
	products       *ProductService
	carts          *CartService
	questionnaires *QuestionnaireService
	recovery       *RecoveryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repos := memory.Open()
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("secret", "", time.Minute)
	users := NewUserService(repos.Users, repos.Questionnaires, hasher, tokens, nil)
	return &env{
		repos:          repos,
		hasher:         hasher,
		tokens:         tokens,
		users:          users,
		products:       NewProductService(repos.Products, nil),
		carts:          NewCartService(repos.Carts, repos.Products, repos.Users, nil),
		questionnaires: NewQuestionnaireService(repos.Questionnaires, repos.Users, catalog.Default(), hasher, nil),
		recovery:       NewRecoveryService(repos.Questionnaires, users, hasher, time.Minute, nil),
	}
}

func registration(id string) Registration {
	return Registration{
		ID:        id,
		Password:  "Secret_1",
		Name:      "Alice Andrade",
		Phone:     "0991234567",
		Email:     "alice@example.com",
		BirthDate: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}
}

func (e *env) register(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := e.users.Register(registration(id))
	require.NoError(t, err)
	return u
}

func (e *env) product(t *testing.T, code int, price string) *domain.Product {
	t.Helper()
	p, err := e.products.Create(domain.Product{
		Code:  code,
		Name:  "product",
		Price: decimal.RequireFromString(price),
		Stock: domain.IntPtr(10),
	})
	require.NoError(t, err)
	return p
}

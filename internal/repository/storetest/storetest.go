// Package storetest holds the gateway contract shared by every backend.
// Backend packages call Run from their own tests.
package storetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
)

// Opener returns a fresh, empty repository set
type Opener func(t *testing.T) *store.Repositories

// Reopener opens a repository set over dir; calling it twice with the same
// dir must see the same data.
type Reopener func(t *testing.T, dir string) *store.Repositories

// Run exercises the gateway contract
func Run(t *testing.T, open Opener) {
	t.Run("products", func(t *testing.T) { testProducts(t, open(t)) })
	t.Run("users", func(t *testing.T) { testUsers(t, open(t)) })
	t.Run("carts", func(t *testing.T) { testCarts(t, open(t)) })
	t.Run("questionnaires", func(t *testing.T) { testQuestionnaires(t, open(t)) })
}

// RunRoundTrip writes N records per entity, reopens and compares by value
func RunRoundTrip(t *testing.T, reopen Reopener) {
	for _, n := range []int{0, 1, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			dir := t.TempDir()
			repos := reopen(t, dir)

			products := make([]domain.Product, n)
			users := make([]domain.User, n)
			carts := make([]domain.Cart, n)
			for i := 0; i < n; i++ {
				products[i] = SampleProduct(i + 1)
				require.NoError(t, repos.Products.Create(&products[i]))
				users[i] = SampleUser(i)
				require.NoError(t, repos.Users.Create(&users[i]))
				c := SampleCart(users[i].ID, products[i])
				require.NoError(t, repos.Carts.Create(&c))
				carts[i] = c
			}

			again := reopen(t, dir)

			gotProducts, err := again.Products.List()
			require.NoError(t, err)
			require.Len(t, gotProducts, n)
			for i := range products {
				EqualProduct(t, products[i], *gotProducts[i])
			}

			gotUsers, err := again.Users.List()
			require.NoError(t, err)
			require.Len(t, gotUsers, n)
			for i := range users {
				EqualUser(t, users[i], *gotUsers[i])
			}

			gotCarts, err := again.Carts.List()
			require.NoError(t, err)
			require.Len(t, gotCarts, n)
			for i := range carts {
				EqualCart(t, carts[i], *gotCarts[i])
			}
		})
	}
}

// RunSequencePersistence checks that cart codes keep increasing across reopen
func RunSequencePersistence(t *testing.T, reopen Reopener) {
	dir := t.TempDir()
	repos := reopen(t, dir)
	var last int
	for i := 0; i < 3; i++ {
		c := domain.Cart{OwnerID: "u", CreatedAt: time.UnixMilli(0)}
		require.NoError(t, repos.Carts.Create(&c))
		last = c.Code
	}
	require.NoError(t, repos.Carts.Delete(last))

	again := reopen(t, dir)
	c := domain.Cart{OwnerID: "u", CreatedAt: time.UnixMilli(0)}
	require.NoError(t, again.Carts.Create(&c))
	assert.Greater(t, c.Code, last)
}

// SampleProduct builds a product whose fields depend on code; even codes carry stock
func SampleProduct(code int) domain.Product {
	p := domain.Product{
		Code:  code,
		Name:  fmt.Sprintf("Product %d | special, \"quoted\"", code),
		Price: decimal.New(int64(code*125), -2),
	}
	if code%2 == 0 {
		p.Stock = domain.IntPtr(code * 3)
	}
	return p
}

// SampleUser builds a user with a distinct id
func SampleUser(i int) domain.User {
	role := domain.RoleUser
	if i%10 == 0 {
		role = domain.RoleAdmin
	}
	return domain.User{
		ID:           fmt.Sprintf("%010d", 1000000000+i),
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuv" + fmt.Sprint(i),
		Role:         role,
		Name:         fmt.Sprintf("User, Number %d", i),
		Phone:        "0991234567",
		Email:        fmt.Sprintf("user%d@example.com", i),
		BirthDate:    time.Date(1980+i%30, time.Month(1+i%12), 1+i%28, 0, 0, 0, 0, time.UTC),
	}
}

// SampleCart builds an unsaved cart holding p and a second fixed product
func SampleCart(owner string, p domain.Product) domain.Cart {
	c := domain.NewCart(owner, time.UnixMilli(1700000000123+int64(p.Code)))
	_ = c.AddProduct(p, p.Code%5+1)
	_ = c.AddProduct(domain.Product{Code: 100000, Name: "Bolsa", Price: decimal.RequireFromString("0.10")}, 1)
	return *c
}

// EqualProduct compares products by value
func EqualProduct(t *testing.T, want, got domain.Product) {
	t.Helper()
	assert.Equal(t, want.Code, got.Code)
	assert.Equal(t, want.Name, got.Name)
	assert.True(t, want.Price.Equal(got.Price), "price want %s got %s", want.Price, got.Price)
	if want.Stock == nil {
		assert.Nil(t, got.Stock)
	} else if assert.NotNil(t, got.Stock) {
		assert.Equal(t, *want.Stock, *got.Stock)
	}
}

// EqualUser compares users by value
func EqualUser(t *testing.T, want, got domain.User) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.PasswordHash, got.PasswordHash)
	assert.Equal(t, want.Role, got.Role)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Phone, got.Phone)
	assert.Equal(t, want.Email, got.Email)
	assert.True(t, want.BirthDate.Equal(got.BirthDate), "birth date want %s got %s", want.BirthDate, got.BirthDate)
}

// EqualCart compares carts by value, including item order
func EqualCart(t *testing.T, want, got domain.Cart) {
	t.Helper()
	assert.Equal(t, want.Code, got.Code)
	assert.Equal(t, want.OwnerID, got.OwnerID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created want %s got %s", want.CreatedAt, got.CreatedAt)
	if assert.Len(t, got.Items, len(want.Items)) {
		for i := range want.Items {
			EqualProduct(t, want.Items[i].Product, got.Items[i].Product)
			assert.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity)
		}
	}
	assert.True(t, want.Total().Equal(got.Total()))
}

func testProducts(t *testing.T, repos *store.Repositories) {
	r := repos.Products

	all, err := r.List()
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, p := range []domain.Product{
		{Code: 1, Name: "Leche Entera", Price: decimal.RequireFromString("1.10"), Stock: domain.IntPtr(20)},
		{Code: 2, Name: "Pan Integral", Price: decimal.RequireFromString("0.25")},
		{Code: 3, Name: "Leche Deslactosada", Price: decimal.RequireFromString("1.35")},
	} {
		p := p
		require.NoError(t, r.Create(&p))
	}

	dup := domain.Product{Code: 2, Name: "other"}
	assert.ErrorIs(t, r.Create(&dup), domain.ErrAlreadyExists)

	got, err := r.GetByCode(1)
	require.NoError(t, err)
	assert.Equal(t, "Leche Entera", got.Name)

	_, err = r.GetByCode(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// returned values are copies
	*got.Stock = 0
	got.Name = "changed"
	again, err := r.GetByCode(1)
	require.NoError(t, err)
	assert.Equal(t, 20, *again.Stock)
	assert.Equal(t, "Leche Entera", again.Name)

	found, err := r.FindByName("leche")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].Code)
	assert.Equal(t, 3, found[1].Code)

	upd := domain.Product{Code: 2, Name: "Pan Blanco", Price: decimal.RequireFromString("0.30")}
	require.NoError(t, r.Update(&upd))
	got, err = r.GetByCode(2)
	require.NoError(t, err)
	assert.Equal(t, "Pan Blanco", got.Name)

	before, err := r.List()
	require.NoError(t, err)
	missing := domain.Product{Code: 99, Name: "ghost"}
	assert.ErrorIs(t, r.Update(&missing), domain.ErrNotFound)
	after, err := r.List()
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		EqualProduct(t, *before[i], *after[i])
	}

	require.NoError(t, r.Delete(3))
	assert.ErrorIs(t, r.Delete(3), domain.ErrNotFound)
	all, err = r.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testUsers(t *testing.T, repos *store.Repositories) {
	r := repos.Users

	for i := 0; i < 4; i++ {
		u := SampleUser(i)
		require.NoError(t, r.Create(&u))
	}
	u0 := SampleUser(0)
	assert.ErrorIs(t, r.Create(&u0), domain.ErrAlreadyExists)

	admins, err := r.ListByRole(domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, u0.ID, admins[0].ID)

	users, err := r.ListByRole(domain.RoleUser)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	named, err := r.FindByName("number 2")
	require.NoError(t, err)
	require.Len(t, named, 1)

	got, err := r.GetByID(u0.ID)
	require.NoError(t, err)
	EqualUser(t, u0, *got)

	got.Email = "new@example.com"
	require.NoError(t, r.Update(got))
	got, err = r.GetByID(u0.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	ghost := SampleUser(50)
	assert.ErrorIs(t, r.Update(&ghost), domain.ErrNotFound)
	_, err = r.GetByID(ghost.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.Delete(u0.ID))
	assert.ErrorIs(t, r.Delete(u0.ID), domain.ErrNotFound)
	all, err := r.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testCarts(t *testing.T, repos *store.Repositories) {
	r := repos.Carts
	created := time.UnixMilli(1700000000000)

	var codes []int
	for _, owner := range []string{"a", "b", "a"} {
		c := domain.NewCart(owner, created)
		require.NoError(t, r.Create(c))
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []int{1, 2, 3}, codes)

	require.NoError(t, r.Delete(3))
	c := domain.NewCart("c", created)
	require.NoError(t, r.Create(c))
	assert.Equal(t, 4, c.Code, "codes are not reused")

	mine, err := r.ListByOwner("a")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].Code)

	cart, err := r.GetByCode(1)
	require.NoError(t, err)
	require.NoError(t, cart.AddProduct(domain.Product{Code: 1, Name: "x", Price: decimal.RequireFromString("3.50")}, 6))
	require.NoError(t, cart.AddProduct(domain.Product{Code: 2, Name: "y", Price: decimal.RequireFromString("1.75")}, 4))
	require.NoError(t, r.Update(cart))

	stored, err := r.GetByCode(1)
	require.NoError(t, err)
	EqualCart(t, *cart, *stored)
	assert.True(t, stored.Total().Equal(decimal.RequireFromString("31.36")))

	ghost := domain.Cart{Code: 77}
	assert.ErrorIs(t, r.Update(&ghost), domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(77), domain.ErrNotFound)
	_, err = r.GetByCode(77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testQuestionnaires(t *testing.T, repos *store.Repositories) {
	r := repos.Questionnaires

	q := &domain.Questionnaire{OwnerID: "1710034065"}
	q.SetAnswer(domain.Question{ID: 1, Text: "pet | name"}, "h1")
	q.SetAnswer(domain.Question{ID: 4, Text: "school, primary"}, "h4")
	require.NoError(t, r.Create(q))
	assert.ErrorIs(t, r.Create(q), domain.ErrAlreadyExists)

	got, err := r.GetByOwner(q.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, q.Answers, got.Answers)

	got.SetAnswer(domain.Question{ID: 7, Text: "friend"}, "h7")
	require.NoError(t, r.Update(got))
	got, err = r.GetByOwner(q.OwnerID)
	require.NoError(t, err)
	assert.True(t, got.IsComplete())

	ghost := &domain.Questionnaire{OwnerID: "nobody"}
	assert.ErrorIs(t, r.Update(ghost), domain.ErrNotFound)

	all, err := r.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, r.Delete(q.OwnerID))
	_, err = r.GetByOwner(q.OwnerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

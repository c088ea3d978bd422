package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/service"
)

func (a *api) addProduct(token string, code int, price string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/products", token, map[string]any{
		"code": code, "name": fmt.Sprintf("product %d", code), "price": price, "stock": 5,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestProductEndpoints(t *testing.T) {
	a := newAPI(t)
	admin := a.login(adminID, secret)
	a.register(aliceID)
	alice := a.login(aliceID, secret)

	a.addProduct(admin, 1, "10.00")
	a.addProduct(admin, 2, "8.50")

	rec := a.do(http.MethodPost, "/api/products", admin, map[string]any{"code": 1, "name": "dup", "price": "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/products", alice, map[string]any{"code": 3, "name": "nope", "price": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, "/api/products", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ProductView](t, rec), 2)

	rec = a.do(http.MethodPut, "/api/products/2", admin, map[string]any{"name": "renamed", "price": "9.25"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decodeBody[ProductView](t, rec)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.25")))
	require.NotNil(t, p.Stock)
	assert.Equal(t, 5, *p.Stock)

	rec = a.do(http.MethodGet, "/api/products?q=RENAMED", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ProductView](t, rec), 1)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/products/abc", alice, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/products/2", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/products/2", alice, nil).Code)
}

func TestCartCheckoutFlow(t *testing.T) {
	a := newAPI(t)
	admin := a.login(adminID, secret)
	a.register(aliceID)
	alice := a.login(aliceID, secret)
	a.addProduct(admin, 1, "10.00")
	a.addProduct(admin, 2, "8.00")

	rec := a.do(http.MethodPost, "/api/carts", alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := decodeBody[CartView](t, rec)
	assert.Equal(t, aliceID, cart.OwnerID)
	path := fmt.Sprintf("/api/carts/%d", cart.Code)

	rec = a.do(http.MethodPost, path+"/items", alice, map[string]int{"product_code": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, path+"/items", alice, map[string]int{"product_code": 2, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, path+"/summary", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decodeBody[service.Totals](t, rec)
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("28")), totals.Subtotal.String())
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("3.36")), totals.Tax.String())
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("31.36")), totals.Total.String())
	assert.Equal(t, 3, totals.Items)

	rec = a.do(http.MethodPut, path+"/items/1", alice, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[CartView](t, rec).Items, 1)

	rec = a.do(http.MethodPost, path+"/items", alice, map[string]int{"product_code": 1, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(http.MethodPost, path+"/items", alice, map[string]int{"product_code": 99, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path+"/items/1", alice, nil).Code)

	rec = a.do(http.MethodDelete, path+"/items", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[CartView](t, rec).Items)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, alice, nil).Code)
}

func TestCartOwnership(t *testing.T) {
	a := newAPI(t)
	admin := a.login(adminID, secret)
	a.register(aliceID)
	a.register(bobID)
	alice := a.login(aliceID, secret)
	bob := a.login(bobID, secret)

	rec := a.do(http.MethodPost, "/api/carts", alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/api/carts/%d", decodeBody[CartView](t, rec).Code)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, admin, nil).Code)

	rec = a.do(http.MethodPost, "/api/carts", bob, map[string]string{"owner_id": aliceID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodPost, "/api/carts", admin, map[string]string{"owner_id": bobID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, bobID, decodeBody[CartView](t, rec).OwnerID)

	rec = a.do(http.MethodGet, "/api/carts", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]CartView](t, rec), 1)

	rec = a.do(http.MethodGet, "/api/carts", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]CartView](t, rec), 2)

	rec = a.do(http.MethodGet, "/api/carts?owner="+aliceID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]CartView](t, rec), 1)
}

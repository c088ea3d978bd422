package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
	"github.com/aryan0dhankhar/shopcart/internal/service"
)

// CartHandler serves shopping cart endpoints
type CartHandler struct {
	carts  *service.CartService
	authz  *security.AuthorizationService
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, authz *security.AuthorizationService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{carts: carts, authz: authz, logger: logger}
}

type openCartRequest struct {
	OwnerID string `json:"owner_id"`
}

type addItemRequest struct {
	ProductCode int `json:"product_code" validate:"required,gt=0"`
	Quantity    int `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// List handles GET /api/carts. Admins see every cart, or one owner's with ?owner=
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.Identity(r.Context())

	var (
		carts []*domain.Cart
		err   error
	)
	owner := r.URL.Query().Get("owner")
	switch {
	case h.authz.HasPermission(role, security.PermReadAllCarts) && owner == "":
		carts, err = h.carts.List()
	case h.authz.HasPermission(role, security.PermReadAllCarts):
		carts, err = h.carts.ListByOwner(owner)
	default:
		carts, err = h.carts.ListByOwner(userID)
	}
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartViews(carts))
}

// Open handles POST /api/carts. The body is optional; admins may open one for another user.
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.Identity(r.Context())

	var req openCartRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			fail(w, h.logger, r, err)
			return
		}
	}
	owner := userID
	if req.OwnerID != "" {
		if err := h.authz.ValidateSelfOrAdmin(userID, role, req.OwnerID); err != nil {
			fail(w, h.logger, r, err)
			return
		}
		owner = req.OwnerID
	}

	cart, err := h.carts.Open(owner)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cartView(cart))
}

// Get handles GET /api/carts/{code}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartView(cart))
}

// Summary handles GET /api/carts/{code}/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	totals, err := h.carts.Summary(cart.Code)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// Delete handles DELETE /api/carts/{code}
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.carts.Delete(cart.Code); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/carts/{code}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	updated, err := h.carts.AddItem(cart.Code, req.ProductCode, req.Quantity)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(updated))
}

// SetQuantity handles PUT /api/carts/{code}/items/{product}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	product, err := pathInt(r, "product")
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	var req setQuantityRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	updated, err := h.carts.SetQuantity(cart.Code, product, req.Quantity)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(updated))
}

// RemoveItem handles DELETE /api/carts/{code}/items/{product}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	product, err := pathInt(r, "product")
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	updated, err := h.carts.RemoveItem(cart.Code, product)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(updated))
}

// Clear handles DELETE /api/carts/{code}/items
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.load(w, r)
	if !ok {
		return
	}
	updated, err := h.carts.Clear(cart.Code)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(updated))
}

// load fetches the cart named in the path and checks the caller may touch it
func (h *CartHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Cart, bool) {
	code, err := pathInt(r, "code")
	if err != nil {
		fail(w, h.logger, r, err)
		return nil, false
	}
	cart, err := h.carts.Get(code)
	if err != nil {
		fail(w, h.logger, r, err)
		return nil, false
	}
	userID, role := middleware.Identity(r.Context())
	if err := h.authz.ValidateCartAccess(userID, role, cart); err != nil {
		fail(w, h.logger, r, err)
		return nil, false
	}
	return cart, true
}

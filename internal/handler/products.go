package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/service"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	products *service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *service.ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{products: products, logger: logger}
}

type createProductRequest struct {
	Code  int             `json:"code" validate:"required,gt=0"`
	Name  string          `json:"name" validate:"required,max=120"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock" validate:"omitempty,gte=0"`
}

type updateProductRequest struct {
	Name  string          `json:"name" validate:"required,max=120"`
	Price decimal.Decimal `json:"price"`
}

// List handles GET /api/products, optionally filtered by ?q=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Search(r.URL.Query().Get("q"))
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productViews(products))
}

// Get handles GET /api/products/{code}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, err := pathInt(r, "code")
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	p, err := h.products.Get(code)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productView(p))
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	p, err := h.products.Create(domain.Product{Code: req.Code, Name: req.Name, Price: req.Price, Stock: req.Stock})
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, productView(p))
}

// Update handles PUT /api/products/{code}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	code, err := pathInt(r, "code")
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	var req updateProductRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	p, err := h.products.Update(code, req.Name, req.Price)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productView(p))
}

// Delete handles DELETE /api/products/{code}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code, err := pathInt(r, "code")
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	if err := h.products.Delete(code); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

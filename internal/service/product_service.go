package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

// ProductService manages the product catalog
type ProductService struct {
	products domain.ProductRepository
	logger   *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(products domain.ProductRepository, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{products: products, logger: logger}
}

func validateProduct(p *domain.Product) error {
	if p.Code <= 0 {
		return fmt.Errorf("%w: code must be a positive integer", validation.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", validation.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", validation.ErrInvalidInput)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", validation.ErrInvalidInput)
	}
	return nil
}

// Create adds a product to the catalog
func (s *ProductService) Create(p domain.Product) (*domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	if err := s.products.Create(&p); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Error("failed to create product",
				slog.Int("code", p.Code),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	s.logger.Info("product created", slog.Int("code", p.Code), slog.String("name", p.Name))
	return &p, nil
}

// Update changes the name and price of a product; stock is kept
func (s *ProductService) Update(code int, name string, price decimal.Decimal) (*domain.Product, error) {
	current, err := s.products.GetByCode(code)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(name)
	current.Price = price
	if err := validateProduct(current); err != nil {
		return nil, err
	}
	if err := s.products.Update(current); err != nil {
		s.logger.Error("failed to update product",
			slog.Int("code", code),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	s.logger.Info("product updated", slog.Int("code", code))
	return current, nil
}

// Delete removes a product. Carts keep their own copy of it.
func (s *ProductService) Delete(code int) error {
	if err := s.products.Delete(code); err != nil {
		return err
	}
	s.logger.Info("product deleted", slog.Int("code", code))
	return nil
}

// Get returns a product by code
func (s *ProductService) Get(code int) (*domain.Product, error) {
	return s.products.GetByCode(code)
}

// List returns every product
func (s *ProductService) List() ([]*domain.Product, error) {
	return s.products.List()
}

// Search finds products whose name contains query, ignoring case
func (s *ProductService) Search(query string) ([]*domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.products.List()
	}
	return s.products.FindByName(query)
}

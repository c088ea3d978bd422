package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/observability/metrics"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

// Totals are the derived amounts of a cart
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Items    int             `json:"items"`
}

// TotalsOf computes the totals of a cart
func TotalsOf(c *domain.Cart) Totals {
	return Totals{
		Subtotal: c.Subtotal(),
		Tax:      c.Tax(),
		Total:    c.Total(),
		Items:    c.ItemCount(),
	}
}

// CartService runs cart operations: load, apply the change, store
type CartService struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	users    domain.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(
	carts domain.CartRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	logger *slog.Logger,
) *CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{
		carts:    carts,
		products: products,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Open creates an empty cart for an existing user
func (s *CartService) Open(ownerID string) (*domain.Cart, error) {
	if _, err := s.users.GetByID(ownerID); err != nil {
		return nil, err
	}
	cart := domain.NewCart(ownerID, s.now())
	if err := s.carts.Create(cart); err != nil {
		s.logger.Error("failed to open cart",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	s.logger.Info("cart opened",
		slog.Int("cart_code", cart.Code),
		slog.String("owner_id", ownerID),
	)
	return cart, nil
}

// AddItem adds qty units of a catalog product to a cart
func (s *CartService) AddItem(code, productCode, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %w", validation.ErrInvalidInput, domain.ErrInvalidQuantity)
	}
	product, err := s.products.GetByCode(productCode)
	if err != nil {
		return nil, err
	}
	return s.mutate(code, func(c *domain.Cart) error {
		return c.AddProduct(*product, qty)
	})
}

// RemoveItem drops a product from a cart
func (s *CartService) RemoveItem(code, productCode int) (*domain.Cart, error) {
	return s.mutate(code, func(c *domain.Cart) error {
		if !c.RemoveProduct(productCode) {
			return fmt.Errorf("product %d not in cart %d: %w", productCode, code, domain.ErrNotFound)
		}
		return nil
	})
}

// SetQuantity replaces the quantity of an item; zero removes it
func (s *CartService) SetQuantity(code, productCode, qty int) (*domain.Cart, error) {
	if qty < 0 {
		return nil, fmt.Errorf("%w: %w", validation.ErrInvalidInput, domain.ErrInvalidQuantity)
	}
	return s.mutate(code, func(c *domain.Cart) error {
		if err := c.SetQuantity(productCode, qty); err != nil {
			return fmt.Errorf("product %d not in cart %d: %w", productCode, code, err)
		}
		return nil
	})
}

// Clear empties a cart
func (s *CartService) Clear(code int) (*domain.Cart, error) {
	return s.mutate(code, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *CartService) mutate(code int, apply func(*domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.carts.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if err := apply(cart); err != nil {
		return nil, err
	}
	if err := s.carts.Update(cart); err != nil {
		s.logger.Error("failed to update cart",
			slog.Int("cart_code", code),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return cart, nil
}

// Get returns a cart by code
func (s *CartService) Get(code int) (*domain.Cart, error) {
	return s.carts.GetByCode(code)
}

// ListByOwner returns a user's carts
func (s *CartService) ListByOwner(ownerID string) ([]*domain.Cart, error) {
	return s.carts.ListByOwner(ownerID)
}

// List returns every cart
func (s *CartService) List() ([]*domain.Cart, error) {
	return s.carts.List()
}

// Delete removes a cart
func (s *CartService) Delete(code int) error {
	if err := s.carts.Delete(code); err != nil {
		return err
	}
	s.logger.Info("cart deleted", slog.Int("cart_code", code))
	return nil
}

// Summary returns the totals of a cart
func (s *CartService) Summary(code int) (Totals, error) {
	cart, err := s.carts.GetByCode(code)
	if err != nil {
		return Totals{}, err
	}
	t := TotalsOf(cart)
	metrics.ObserveCartTotal(t.Total)
	return t, nil
}

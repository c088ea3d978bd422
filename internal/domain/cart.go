package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the fixed sales tax applied to every cart
var TaxRate = decimal.RequireFromString("0.12")

// CartItem pairs a product snapshot with a quantity
type CartItem struct {
	Product  Product
	Quantity int
}

// Subtotal returns price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of items owned by a user.
// Totals are derived from Items on every call and are never stored.
type Cart struct {
	Code      int
	OwnerID   string
	CreatedAt time.Time
	Items     []CartItem
}

// NewCart creates an empty cart for an owner
func NewCart(ownerID string, createdAt time.Time) *Cart {
	return &Cart{OwnerID: ownerID, CreatedAt: createdAt}
}

// AddProduct adds qty units of p, merging with an existing item of the same code.
// The product is copied so later catalog edits do not leak into the cart.
func (c *Cart) AddProduct(p Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].Product.Code == p.Code {
			c.Items[i].Quantity += qty
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{Product: p.Clone(), Quantity: qty})
	return nil
}

// RemoveProduct drops the item for code and reports whether one was removed
func (c *Cart) RemoveProduct(code int) bool {
	for i := range c.Items {
		if c.Items[i].Product.Code == code {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity replaces the quantity of an item; zero or less removes it
func (c *Cart) SetQuantity(code, qty int) error {
	for i := range c.Items {
		if c.Items[i].Product.Code != code {
			continue
		}
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
		c.Items[i].Quantity = qty
		return nil
	}
	return ErrNotFound
}

// Item returns the item for a product code
func (c *Cart) Item(code int) (CartItem, bool) {
	for _, it := range c.Items {
		if it.Product.Code == code {
			return it, true
		}
	}
	return CartItem{}, false
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units in the cart
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity over all items
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// Tax is the subtotal times TaxRate
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate)
}

// Total is subtotal plus tax
func (c *Cart) Total() decimal.Decimal {
	sub := c.Subtotal()
	return sub.Add(sub.Mul(TaxRate))
}

// Clone returns a deep copy that keeps the item order and quantities as stored
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = CartItem{Product: it.Product.Clone(), Quantity: it.Quantity}
	}
	if len(items) == 0 {
		items = nil
	}
	c.Items = items
	return c
}

// Copy returns an independent cart built by re-adding every item, so the
// copy is normalized: items sharing a product code merge into one and items
// with a quantity of zero or less are left out.
func (c *Cart) Copy() *Cart {
	out := &Cart{Code: c.Code, OwnerID: c.OwnerID, CreatedAt: c.CreatedAt}
	for _, it := range c.Items {
		if it.Quantity <= 0 {
			continue
		}
		_ = out.AddProduct(it.Product, it.Quantity)
	}
	return out
}

package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Stock is informational and never touched by carts.
type Product struct {
	Code  int
	Name  string
	Price decimal.Decimal
	Stock *int
}

// Clone returns a deep copy of the product
func (p Product) Clone() Product {
	if p.Stock != nil {
		s := *p.Stock
		p.Stock = &s
	}
	return p
}

// IntPtr is a helper for optional integer fields
func IntPtr(v int) *int {
	return &v
}

package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/service"
)

// ProductView is the JSON form of a product
type ProductView struct {
	Code  int             `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

func productView(p *domain.Product) ProductView {
	return ProductView{Code: p.Code, Name: p.Name, Price: p.Price, Stock: p.Stock}
}

func productViews(ps []*domain.Product) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView(p))
	}
	return out
}

// UserView is the JSON form of a user; the password hash is never exposed
type UserView struct {
	ID        string      `json:"id"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
	BirthDate string      `json:"birth_date,omitempty"`
}

func userView(u *domain.User) UserView {
	v := UserView{ID: u.ID, Role: u.Role, Name: u.Name, Phone: u.Phone, Email: u.Email}
	if !u.BirthDate.IsZero() {
		v.BirthDate = u.BirthDate.Format(domain.DateLayout)
	}
	return v
}

func userViews(us []*domain.User) []UserView {
	out := make([]UserView, 0, len(us))
	for _, u := range us {
		out = append(out, userView(u))
	}
	return out
}

// CartItemView is one line of a cart
type CartItemView struct {
	ProductCode int             `json:"product_code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartView is the JSON form of a cart with its totals
type CartView struct {
	Code      int            `json:"code"`
	OwnerID   string         `json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	Items     []CartItemView `json:"items"`
	Totals    service.Totals `json:"totals"`
}

func cartView(c *domain.Cart) CartView {
	items := make([]CartItemView, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItemView{
			ProductCode: it.Product.Code,
			Name:        it.Product.Name,
			Price:       it.Product.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal(),
		})
	}
	return CartView{
		Code:      c.Code,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		Items:     items,
		Totals:    service.TotalsOf(c),
	}
}

func cartViews(cs []*domain.Cart) []CartView {
	out := make([]CartView, 0, len(cs))
	for _, c := range cs {
		out = append(out, cartView(c))
	}
	return out
}

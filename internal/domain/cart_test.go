package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddProductMergesSameCode(t *testing.T) {
	c := NewCart("1710034065", time.Now())
	p := Product{Code: 7, Name: "Pan", Price: price("0.25")}

	total := 0
	for _, q := range []int{1, 4, 2, 10} {
		require.NoError(t, c.AddProduct(p, q))
		total += q
	}

	require.Len(t, c.Items, 1)
	assert.Equal(t, total, c.Items[0].Quantity)
	assert.Equal(t, total, c.ItemCount())
}

func TestAddProductRejectsNonPositiveQuantity(t *testing.T) {
	c := NewCart("u", time.Now())
	p := Product{Code: 1, Price: price("1")}

	assert.ErrorIs(t, c.AddProduct(p, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddProduct(p, -3), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestAddProductDoesNotTouchStock(t *testing.T) {
	c := NewCart("u", time.Now())
	p := Product{Code: 1, Price: price("1"), Stock: IntPtr(5)}

	require.NoError(t, c.AddProduct(p, 3))
	assert.Equal(t, 5, *p.Stock)

	// the cart holds its own copy of the product
	*p.Stock = 0
	p.Name = "renamed"
	assert.Equal(t, 5, *c.Items[0].Product.Stock)
	assert.Empty(t, c.Items[0].Product.Name)
}

func TestTotalsScenario(t *testing.T) {
	c := NewCart("u", time.Now())
	require.NoError(t, c.AddProduct(Product{Code: 1, Price: price("3.50")}, 6))
	require.NoError(t, c.AddProduct(Product{Code: 2, Price: price("1.75")}, 4))

	assert.True(t, c.Subtotal().Equal(price("28.0")), "subtotal %s", c.Subtotal())
	assert.True(t, c.Tax().Equal(price("3.36")), "tax %s", c.Tax())
	assert.True(t, c.Total().Equal(price("31.36")), "total %s", c.Total())
}

func TestTotalsOfEmptyCartAreZero(t *testing.T) {
	c := NewCart("u", time.Now())
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.Tax().IsZero())
	assert.True(t, c.Total().IsZero())
}

func TestTotalEqualsSubtotalPlusTax(t *testing.T) {
	c := NewCart("u", time.Now())
	prices := []string{"0.99", "12.49", "100", "7.333"}
	for i, p := range prices {
		require.NoError(t, c.AddProduct(Product{Code: i + 1, Price: price(p)}, i+2))
	}

	expected := decimal.Zero
	for _, it := range c.Items {
		expected = expected.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, c.Subtotal().Equal(expected))
	assert.True(t, c.Tax().Equal(expected.Mul(TaxRate)))
	assert.True(t, c.Total().Equal(c.Subtotal().Add(c.Tax())))
}

func TestRemoveProduct(t *testing.T) {
	c := NewCart("u", time.Now())
	require.NoError(t, c.AddProduct(Product{Code: 1, Price: price("1")}, 1))
	require.NoError(t, c.AddProduct(Product{Code: 2, Price: price("2")}, 1))

	assert.True(t, c.RemoveProduct(1))
	assert.False(t, c.RemoveProduct(1))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Product.Code)
}

func TestSetQuantity(t *testing.T) {
	c := NewCart("u", time.Now())
	require.NoError(t, c.AddProduct(Product{Code: 1, Price: price("1")}, 1))

	require.NoError(t, c.SetQuantity(1, 9))
	it, ok := c.Item(1)
	require.True(t, ok)
	assert.Equal(t, 9, it.Quantity)

	require.NoError(t, c.SetQuantity(1, 0))
	assert.True(t, c.IsEmpty())
	assert.ErrorIs(t, c.SetQuantity(1, 2), ErrNotFound)
}

func TestClearThenIsEmpty(t *testing.T) {
	c := NewCart("u", time.Now())
	assert.True(t, c.IsEmpty())
	require.NoError(t, c.AddProduct(Product{Code: 1, Price: price("1")}, 1))
	assert.False(t, c.IsEmpty())
	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCopyIsIndependent(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &Cart{Code: 4, OwnerID: "u", CreatedAt: created}
	require.NoError(t, c.AddProduct(Product{Code: 1, Price: price("2")}, 2))

	cp := c.Copy()
	assert.Equal(t, c.Code, cp.Code)
	assert.Equal(t, c.OwnerID, cp.OwnerID)
	assert.True(t, cp.CreatedAt.Equal(created))
	assert.True(t, cp.Total().Equal(c.Total()))

	require.NoError(t, cp.AddProduct(Product{Code: 1, Price: price("2")}, 1))
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 3, cp.Items[0].Quantity)
}

func TestCopyNormalizesItems(t *testing.T) {
	c := &Cart{Code: 5, OwnerID: "u", Items: []CartItem{
		{Product: Product{Code: 1, Price: price("3.50")}, Quantity: 2},
		{Product: Product{Code: 2, Price: price("1.75")}, Quantity: 0},
		{Product: Product{Code: 1, Price: price("3.50")}, Quantity: 4},
		{Product: Product{Code: 3, Price: price("9")}, Quantity: -1},
	}}

	cp := c.Copy()
	require.Len(t, cp.Items, 1)
	assert.Equal(t, 1, cp.Items[0].Product.Code)
	assert.Equal(t, 6, cp.Items[0].Quantity)
	assert.True(t, cp.Subtotal().Equal(price("21")))
	assert.Len(t, c.Items, 4, "source cart is untouched")
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/pkg/database"
)

// PostgresCartRepository implements domain.CartRepository using PostgreSQL.
// Cart codes come from the carts.code identity column.
type PostgresCartRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCartRepository creates a new cart repository
func NewPostgresCartRepository(db *sql.DB, logger *slog.Logger) *PostgresCartRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCartRepository{db: db, logger: logger}
}

// Create inserts the cart and its items, assigning cart.Code
func (r *PostgresCartRepository) Create(cart *domain.Cart) error {
	return database.InTx(context.Background(), r.db, func(tx *sql.Tx) error {
		err := tx.QueryRow(
			`INSERT INTO carts (owner_id, created_at) VALUES ($1, $2) RETURNING code`,
			cart.OwnerID, cart.CreatedAt,
		).Scan(&cart.Code)
		if err != nil {
			r.logger.Error("failed to create cart",
				slog.String("owner_id", cart.OwnerID),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("failed to create cart: %w", err)
		}
		return insertItems(tx, cart)
	})
}

// GetByCode loads a cart with its items
func (r *PostgresCartRepository) GetByCode(code int) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRow(
		`SELECT code, owner_id, created_at FROM carts WHERE code = $1`, code,
	).Scan(&cart.Code, &cart.OwnerID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get cart %d: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if err := r.loadItems([]*domain.Cart{cart}); err != nil {
		return nil, err
	}
	return cart, nil
}

// Update rewrites the item list of an existing cart
func (r *PostgresCartRepository) Update(cart *domain.Cart) error {
	return database.InTx(context.Background(), r.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE carts SET owner_id = $1 WHERE code = $2`, cart.OwnerID, cart.Code)
		if err != nil {
			return fmt.Errorf("failed to update cart: %w", err)
		}
		if err := expectRow(res, fmt.Sprintf("cart %d", cart.Code)); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_code = $1`, cart.Code); err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
		return insertItems(tx, cart)
	})
}

// Delete removes a cart; items cascade
func (r *PostgresCartRepository) Delete(code int) error {
	res, err := r.db.Exec(`DELETE FROM carts WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return expectRow(res, fmt.Sprintf("cart %d", code))
}

// List returns every cart ordered by code
func (r *PostgresCartRepository) List() ([]*domain.Cart, error) {
	return r.query(`SELECT code, owner_id, created_at FROM carts ORDER BY code`)
}

// ListByOwner returns an owner's carts ordered by code
func (r *PostgresCartRepository) ListByOwner(ownerID string) ([]*domain.Cart, error) {
	return r.query(`SELECT code, owner_id, created_at FROM carts WHERE owner_id = $1 ORDER BY code`, ownerID)
}

func (r *PostgresCartRepository) query(query string, args ...any) ([]*domain.Cart, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	defer rows.Close()

	var carts []*domain.Cart
	for rows.Next() {
		c := &domain.Cart{}
		if err := rows.Scan(&c.Code, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(carts); err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *PostgresCartRepository) loadItems(carts []*domain.Cart) error {
	for _, c := range carts {
		rows, err := r.db.Query(`
			SELECT product_code, name, price, stock, quantity
			FROM cart_items
			WHERE cart_code = $1
			ORDER BY position
		`, c.Code)
		if err != nil {
			return fmt.Errorf("failed to load cart items: %w", err)
		}
		for rows.Next() {
			var it domain.CartItem
			var stock sql.NullInt64
			if err := rows.Scan(&it.Product.Code, &it.Product.Name, &it.Product.Price, &stock, &it.Quantity); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan cart item: %w", err)
			}
			if stock.Valid {
				it.Product.Stock = domain.IntPtr(int(stock.Int64))
			}
			c.Items = append(c.Items, it)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("failed to read cart items: %w", err)
		}
	}
	return nil
}

func insertItems(tx *sql.Tx, cart *domain.Cart) error {
	for i, it := range cart.Items {
		_, err := tx.Exec(`
			INSERT INTO cart_items (cart_code, position, product_code, name, price, stock, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, cart.Code, i, it.Product.Code, it.Product.Name, it.Product.Price, nullInt(it.Product.Stock), it.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}
	return nil
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

// PostgresProductRepository implements domain.ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProductRepository creates a new product repository
func NewPostgresProductRepository(db *sql.DB, logger *slog.Logger) *PostgresProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProductRepository{db: db, logger: logger}
}

// Create inserts a new product
func (r *PostgresProductRepository) Create(product *domain.Product) error {
	query := `
		INSERT INTO products (code, name, price, stock)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(query, product.Code, product.Name, product.Price, nullInt(product.Stock))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create product %d: %w", product.Code, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByCode retrieves a product by code
func (r *PostgresProductRepository) GetByCode(code int) (*domain.Product, error) {
	query := `
		SELECT code, name, price, stock
		FROM products
		WHERE code = $1
	`
	p, err := scanProduct(r.db.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get product %d: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Update replaces an existing product
func (r *PostgresProductRepository) Update(product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, stock = $3
		WHERE code = $4
	`
	res, err := r.db.Exec(query, product.Name, product.Price, nullInt(product.Stock), product.Code)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectRow(res, fmt.Sprintf("product %d", product.Code))
}

// Delete removes a product
func (r *PostgresProductRepository) Delete(code int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectRow(res, fmt.Sprintf("product %d", code))
}

// List returns all products ordered by code
func (r *PostgresProductRepository) List() ([]*domain.Product, error) {
	return r.query(`SELECT code, name, price, stock FROM products ORDER BY code`)
}

// FindByName returns products whose name contains name, ignoring case
func (r *PostgresProductRepository) FindByName(name string) ([]*domain.Product, error) {
	return r.query(`SELECT code, name, price, stock FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY code`, name)
}

func (r *PostgresProductRepository) query(query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var stock sql.NullInt64
	if err := row.Scan(&p.Code, &p.Name, &p.Price, &stock); err != nil {
		return nil, err
	}
	if stock.Valid {
		p.Stock = domain.IntPtr(int(stock.Int64))
	}
	return p, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *sql.DB, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, password_hash, role, name, phone, email, birth_date`

// Create creates a new user
func (r *PostgresUserRepository) Create(user *domain.User) error {
	query := `
		INSERT INTO users (id, password_hash, role, name, phone, email, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.PasswordHash,
		string(user.Role),
		user.Name,
		user.Phone,
		user.Email,
		nullDate(user.BirthDate),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user %s: %w", user.ID, domain.ErrAlreadyExists)
		}
		r.logger.Error("failed to create user",
			slog.String("id", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by national id
func (r *PostgresUserRepository) GetByID(id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get user %s: %w", id, domain.ErrNotFound)
		}
		r.logger.Error("failed to get user by id",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update replaces an existing user
func (r *PostgresUserRepository) Update(user *domain.User) error {
	query := `
		UPDATE users
		SET password_hash = $1, role = $2, name = $3, phone = $4, email = $5, birth_date = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(
		query,
		user.PasswordHash,
		string(user.Role),
		user.Name,
		user.Phone,
		user.Email,
		nullDate(user.BirthDate),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return expectRow(result, fmt.Sprintf("user %s", user.ID))
}

// Delete removes a user
func (r *PostgresUserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectRow(result, fmt.Sprintf("user %s", id))
}

// List returns every user
func (r *PostgresUserRepository) List() ([]*domain.User, error) {
	return r.query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`)
}

// ListByRole returns the users holding role
func (r *PostgresUserRepository) ListByRole(role domain.Role) ([]*domain.User, error) {
	return r.query(`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id`, string(role))
}

// FindByName returns users whose name contains name, ignoring case
func (r *PostgresUserRepository) FindByName(name string) ([]*domain.User, error) {
	return r.query(`SELECT `+userColumns+` FROM users WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at, id`, name)
}

func (r *PostgresUserRepository) query(query string, args ...any) ([]*domain.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("failed to list users",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user row",
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var role string
	var birth sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.PasswordHash,
		&role,
		&user.Name,
		&user.Phone,
		&user.Email,
		&birth,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	if birth.Valid {
		user.BirthDate = birth.Time.UTC()
	}
	return user, nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func expectRow(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
	"github.com/aryan0dhankhar/shopcart/internal/repository/storetest"
	"github.com/aryan0dhankhar/shopcart/pkg/database"
)

// openTestDB connects to TEST_DATABASE_URL and resets every table
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE products, users, carts, cart_items, questionnaires, questionnaire_answers RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func TestPostgresContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *store.Repositories {
		db := openTestDB(t)
		return &store.Repositories{
			Products:       NewPostgresProductRepository(db, nil),
			Users:          NewPostgresUserRepository(db, nil),
			Carts:          NewPostgresCartRepository(db, nil),
			Questionnaires: NewPostgresQuestionnaireRepository(db, nil),
		}
	})
}

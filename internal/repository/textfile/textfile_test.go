package textfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
	"github.com/aryan0dhankhar/shopcart/internal/repository/storetest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *store.Repositories { return Open(t.TempDir(), quietLogger()) })
}

func TestRoundTrip(t *testing.T) {
	storetest.RunRoundTrip(t, func(t *testing.T, dir string) *store.Repositories { return Open(dir, quietLogger()) })
}

func TestCartSequenceSurvivesReopen(t *testing.T) {
	storetest.RunSequencePersistence(t, func(t *testing.T, dir string) *store.Repositories { return Open(dir, quietLogger()) })
}

func TestMissingFileIsEmpty(t *testing.T) {
	repos := Open(filepath.Join(t.TempDir(), "does", "not", "exist"), quietLogger())
	products, err := repos.Products.List()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"1|Leche|1.10|20",
		"not a product",
		"x|Pan|0.25|",
		"2|Pan|0.25|",
		"3|Queso|abc|",
		"",
		"4|Huevos|2.5|-",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProductsFile), []byte(content), 0o644))

	products, err := Open(dir, quietLogger()).Products.List()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].Code)
	assert.Equal(t, 20, *products[0].Stock)
	assert.Equal(t, 2, products[1].Code)
	assert.Nil(t, products[1].Stock)
}

func TestOnDiskFormat(t *testing.T) {
	dir := t.TempDir()
	repos := Open(dir, quietLogger())

	p := domain.Product{Code: 1, Name: "Leche", Price: decimal.RequireFromString("1.10"), Stock: domain.IntPtr(20)}
	require.NoError(t, repos.Products.Create(&p))

	u := storetest.SampleUser(1)
	u.Name = "Ana"
	require.NoError(t, repos.Users.Create(&u))

	data, err := os.ReadFile(filepath.Join(dir, ProductsFile))
	require.NoError(t, err)
	assert.Equal(t, "1|Leche|1.1|20\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, UsersFile))
	require.NoError(t, err)
	assert.Equal(t, u.ID+","+u.PasswordHash+",USER,Ana,0991234567,user1@example.com,1981-02-02\n", string(data))
}

func TestNewlinesInFieldsStayOnOneLine(t *testing.T) {
	dir := t.TempDir()
	repos := Open(dir, quietLogger())
	p := domain.Product{Code: 9, Name: "two\nlines", Price: decimal.NewFromInt(1)}
	require.NoError(t, repos.Products.Create(&p))

	got, err := repos.Products.GetByCode(9)
	require.NoError(t, err)
	assert.Equal(t, "two lines", got.Name)
}

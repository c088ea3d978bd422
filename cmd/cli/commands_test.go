package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

func run(t *testing.T, dir, backend string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data-dir", dir, "--backend", backend}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCartSessionAcrossInvocations(t *testing.T) {
	for _, backend := range []string{"text", "binary"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			mustRun := func(args ...string) string {
				t.Helper()
				out, err := run(t, dir, backend, args...)
				require.NoError(t, err, out)
				return out
			}

			mustRun("product", "add", "1", "Coffee", "10.00", "5")
			mustRun("product", "add", "2", "Mug", "8")
			mustRun("user", "add", "1710034065", "Secret_1", "Alice", "0991234567", "alice@example.com")

			out := mustRun("cart", "open", "1710034065")
			assert.Contains(t, out, "opened cart 1")

			mustRun("cart", "add", "1", "1", "2")
			out = mustRun("cart", "add", "1", "2", "1")
			assert.Contains(t, out, "total 31.36")

			out = mustRun("cart", "show", "1")
			assert.Contains(t, out, "subtotal 28.00")
			assert.Contains(t, out, "tax 3.36")

			out = mustRun("cart", "remove", "1", "2")
			assert.Contains(t, out, "total 22.40")

			out = mustRun("cart", "list", "--owner", "1710034065")
			assert.Contains(t, out, "22.40")

			out = mustRun("product", "search", "mug")
			assert.Contains(t, out, "Mug")
			assert.NotContains(t, out, "Coffee")
		})
	}
}

func TestCommandsRejectBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "text", "product", "add", "zero", "Coffee", "1")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	_, err = run(t, dir, "text", "product", "add", "1", "Coffee", "-1")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	_, err = run(t, dir, "text", "product", "update", "1", "Coffee", "-2.50")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	_, err = run(t, dir, "text", "cart", "add", "1", "1", "-3")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	_, err = run(t, dir, "text", "cart", "open", "1234567890")
	assert.ErrorIs(t, err, validation.ErrInvalidID)

	_, err = run(t, dir, "postgres", "product", "list")
	assert.Error(t, err)
}

func TestValidateCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "text", "validate", "id", "0926687856")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	_, err = run(t, dir, "text", "validate", "phone", "12345")
	assert.ErrorIs(t, err, validation.ErrInvalidPhone)

	_, err = run(t, dir, "text", "validate", "email", "nobody")
	assert.ErrorIs(t, err, validation.ErrInvalidEmail)

	_, err = run(t, dir, "text", "validate", "password", "short")
	assert.ErrorIs(t, err, validation.ErrInvalidPassword)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, BackendText, cfg.StorageBackend)
	assert.Equal(t, "default", cfg.CartStore)
	assert.Equal(t, 15*time.Minute, cfg.RecoverySessionTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Binary")
	t.Setenv("CART_STORE", "redis")
	t.Setenv("TOKEN_TTL_MINUTES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a, ,http://b")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendBinary, cfg.StorageBackend)
	assert.Equal(t, "redis", cfg.CartStore)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":     "abc",
		"STORAGE_BACKEND": "floppy",
		"CART_STORE":      "memcached",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

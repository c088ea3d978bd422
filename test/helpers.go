package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/app"
	"github.com/aryan0dhankhar/shopcart/pkg/config"
)

// TestServerHelper runs the fully wired application on an in-memory backend
type TestServerHelper struct {
	Server *httptest.Server
	App    *app.App
	Logger *slog.Logger
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Environment:        "test",
		StorageBackend:     config.BackendMemory,
		CartStore:          "default",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Minute,
		BcryptCost:         4,
		RecoverySessionTTL: time.Minute,
		RateLimitPerMinute: 3,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	server := httptest.NewServer(a.Handler)
	t.Cleanup(func() {
		server.Close()
		_ = a.Close(context.Background())
	})

	return &TestServerHelper{
		Server: server,
		App:    a,
		Logger: logger,
	}
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// Do sends a JSON request, attaching token as a bearer credential when set
func (h *TestServerHelper) Do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, h.URL()+path, r)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Login returns a token for id
func (h *TestServerHelper) Login(t *testing.T, id, password string) string {
	t.Helper()
	resp := h.Do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"id": id, "password": password})
	AssertStatusCode(t, resp, http.StatusOK)
	var out struct {
		Token string `json:"token"`
	}
	DecodeJSON(t, resp, &out)
	return out.Token
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", expected, resp.StatusCode, body)
	}
}

// AssertContentType helper function
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); ct != expected {
		t.Errorf("Expected Content-Type %s, got %s", expected, ct)
	}
}

// DecodeJSON reads the response body into v
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

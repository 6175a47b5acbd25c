package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bazaarku/internal/api"
	"bazaarku/internal/config"
	"bazaarku/internal/mockapi"
	"bazaarku/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
app:
  name: bazaarku-test
api:
  base_url: %s
  timeout: 5s
session:
  backend: sqlite
  sqlite_path: %s
  expiry_notice_delay: 1ms
logging:
  level: error
exports:
  path: %s
`, baseURL, filepath.Join(dir, "session.db"), filepath.Join(dir, "exports"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root, cleanup := newRootCmd()
	defer cleanup()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.MockConfig{
		JWTSecret:     "cli-test",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@bazaarku.local",
		AdminPassword: "secret123",
		Seed:          true,
	}
	store := mockapi.NewStore()
	require.NoError(t, mockapi.Seed(store, cfg, time.Now()))
	ts := httptest.NewServer(mockapi.NewServer(cfg, store, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestCLISessionPersistsAcrossCommands(t *testing.T) {
	ts := startBackend(t)
	cfgPath := writeConfig(t, ts.URL)

	out, err := runCLI(t, cfgPath, "login", "--email", mockapi.SeedVendorEmail, "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Sari Dewi")

	out, err = runCLI(t, cfgPath, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, mockapi.SeedVendorEmail)

	out, err = runCLI(t, cfgPath, "event", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bazaar Ramadhan")
	assert.Contains(t, out, "2 available of 3")
	assert.Contains(t, out, "1 remaining")

	_, err = runCLI(t, cfgPath, "logout")
	require.NoError(t, err)

	_, err = runCLI(t, cfgPath, "whoami")
	assert.ErrorIs(t, err, service.ErrNotSignedIn)
}

func TestCLIWritesMetricsFile(t *testing.T) {
	ts := startBackend(t)
	cfgPath := writeConfig(t, ts.URL)
	metricsPath := filepath.Join(t.TempDir(), "bazaarku.prom")

	_, err := runCLI(t, cfgPath, "--metrics-file", metricsPath, "event", "1")
	require.NoError(t, err)

	raw, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `bazaarku_client_requests_total{endpoint="/events/:id",method="GET",status="2xx"}`)
	assert.Contains(t, string(raw), "bazaarku_client_request_duration_seconds")
}

func TestCLIUnknownTable(t *testing.T) {
	ts := startBackend(t)
	cfgPath := writeConfig(t, ts.URL)

	_, err := runCLI(t, cfgPath, "admin", "list", "tickets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "boom", errorText(errors.New("boom")))
	assert.Equal(t, "Could not reach the server. Please check your connection and try again.",
		errorText(&api.NetworkError{Method: "GET", Path: "/events", Err: errors.New("refused")}))
	assert.Equal(t, "slow down", errorText(&api.HTTPError{StatusCode: 429, Message: "slow down"}))
	assert.Equal(t, "rating_star: must be between 1 and 5",
		errorText(&api.ValidationError{Field: "rating_star", Message: "must be between 1 and 5"}))
}

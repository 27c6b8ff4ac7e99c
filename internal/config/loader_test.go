package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "https://www2.deepl.com/jsonrpc", cfg.Upstream.URL)
	require.Equal(t, float64(60), cfg.RateLimit.Capacity)
	require.Equal(t, 5*time.Second, cfg.RateLimit.CacheTTL)
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Equal(t, "memory", cfg.Store.Driver)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRANSLAY_SERVER_PORT", "9999")
	t.Setenv("TRANSLAY_RETRY_MAX_ATTEMPTS", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "translay.yaml")
	content := []byte("upstream:\n  request_timeout: 3s\nproxy:\n  endpoints: \"https://a.example.com,https://b.example.com\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.Upstream.RequestTimeout)
	require.Equal(t, "https://a.example.com,https://b.example.com", cfg.Proxy.Endpoints)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("TRANSLAY_RETRY_MAX_ATTEMPTS", "0")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_attempts")
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

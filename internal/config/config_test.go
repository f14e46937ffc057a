package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BILLING_AUTH_JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("BILLING_DRAFTS_TTL", "45m")
	t.Setenv("BILLING_REDIS_ADDR", "localhost:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 45*time.Minute, cfg.Drafts.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "NO FIRMADA", cfg.Invoices.DefaultStatus)
	assert.Equal(t, 3, cfg.Numbering.RetryAttempts)
	assert.Contains(t, cfg.Reports.UnsignedRule, "no firmada")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "billing.yaml")
	content := []byte(`
auth:
  enabled: false
http:
  addr: ":9090"
invoices:
  default_status: "UNSIGNED"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "UNSIGNED", cfg.Invoices.DefaultStatus)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("")
	assert.ErrorContains(t, err, "jwt_secret")
}

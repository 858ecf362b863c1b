package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ianmwanzi/portfolio/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.Equal(t, 15*time.Second, cfg.Contact.Timeout)
	require.Equal(t, 587, cfg.SMTP.Port)
	require.Equal(t, 8760*time.Hour, cfg.Tracking.Retention)
	require.True(t, cfg.Tracking.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CONTACT_TIMEOUT", "3s")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "app-password")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.HTTP.Addr)
	require.Equal(t, 3*time.Second, cfg.Contact.Timeout)
	require.True(t, cfg.AdminEnabled())
	require.True(t, cfg.SMTPConfigured())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
http:
  addr: ":7000"
database:
  path: /var/lib/portfolio.db
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":7000", cfg.HTTP.Addr)
	require.Equal(t, "/var/lib/portfolio.db", cfg.Database.Path)
	require.False(t, cfg.AdminEnabled())
}

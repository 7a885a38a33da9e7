package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, "http://localhost:8080/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 6*time.Second, cfg.Workspace.ToastDuration)
	assert.Equal(t, 0, cfg.Workspace.BulkDeleteConcurrency)
	assert.Equal(t, "0 */5 * * * *", cfg.Housekeeping.Schedule)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, 720*time.Hour, cfg.Audit.Retention)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UPSTREAM_BASE_URL", "http://timetable.internal/api/")
	t.Setenv("WORKSPACE_BULK_DELETE_CONCURRENCY", "-3")
	t.Setenv("WORKSPACE_SESSION_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://timetable.internal/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 0, cfg.Workspace.BulkDeleteConcurrency)
	assert.Equal(t, 2*time.Hour, cfg.Workspace.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"relative upstream":     {"UPSTREAM_BASE_URL": "timetable/api"},
		"api prefix":            {"API_PREFIX": "api/v1"},
		"production dev secret": {"ENV": EnvProduction},
	}
	for name, env := range cases {
		env := env
		t.Run(name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadProductionWithSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", EnvProduction)
	t.Setenv("DOWNLOADS_SIGNED_URL_SECRET", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.Downloads.SignedURLSecret)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

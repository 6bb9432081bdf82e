package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, 256, cfg.RenderCacheSize)
	assert.Equal(t, 4, cfg.ArchiveConcurrency)
	assert.Equal(t, 10000, cfg.MaxGenerationAttempts)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BINGO_PORT", "9000")
	t.Setenv("BINGO_HOST", "127.0.0.1")
	t.Setenv("BINGO_STORAGE_TYPE", "redis")
	t.Setenv("BINGO_REDIS_URL", "redis://cache:6379")
	t.Setenv("BINGO_SESSION_TTL", "90m")
	t.Setenv("BINGO_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("BINGO_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BINGO_TEMPLATE_PATH=/srv/template.png\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BINGO_TEMPLATE_PATH") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/template.png", cfg.TemplatePath)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BINGO_PORT=7000\n"), 0o600))
	t.Setenv("BINGO_PORT", "7100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Port)
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad storage", map[string]string{"BINGO_STORAGE_TYPE": "sqlite"}},
		{"redis without url", map[string]string{"BINGO_STORAGE_TYPE": "redis"}},
		{"postgres without dsn", map[string]string{"BINGO_STORAGE_TYPE": "postgres"}},
		{"bad port", map[string]string{"BINGO_PORT": "70000"}},
		{"non numeric port", map[string]string{"BINGO_PORT": "http"}},
		{"bad log level", map[string]string{"BINGO_LOG_LEVEL": "loud"}},
		{"zero cache", map[string]string{"BINGO_RENDER_CACHE_SIZE": "0"}},
		{"bad ttl", map[string]string{"BINGO_SESSION_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

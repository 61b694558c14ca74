package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "local", cfg.Queue.Driver)
	assert.Equal(t, "zh", cfg.Transcriber.Language)
	assert.NotEmpty(t, cfg.Transcriber.Prompt)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
redis:
  host: redis.internal
  port: 6380
  db: 3
queue:
  driver: temporal
  temporal:
    host_port: temporal.internal:7233
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "temporal", cfg.Queue.Driver)
	assert.Equal(t, "temporal.internal:7233", cfg.Queue.Temporal.HostPort)
	// Unspecified values keep their defaults.
	assert.Equal(t, "storage", cfg.Storage.UploadDir)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0644))

	t.Setenv("SERVER_ADDR", ":7777")
	t.Setenv("REDIS_PORT", "7000")
	t.Setenv("QUEUE_DRIVER", "temporal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, 7000, cfg.Redis.Port)
	assert.Equal(t, "temporal", cfg.Queue.Driver)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

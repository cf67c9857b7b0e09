package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: a config that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: every other key takes its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "7000", conf.SocketPort)
		assert.Equal(t, StoreMemory, conf.Session.Store)
		assert.Equal(t, 30*time.Minute, conf.Session.TTL)
		assert.Equal(t, 3500*time.Millisecond, conf.Session.MessageDelay)
		assert.Equal(t, 3500*time.Millisecond, conf.Session.RestartDelay)
		assert.Equal(t, uint64(0), conf.Session.Seed)
		assert.False(t, conf.Telemetry.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
session:
  store: redis
  ttl: 5m
  thinking-delay: 250ms
  seed: 42
redis:
  host: cache
  port: "6380"
telemetry:
  enabled: true
  endpoint: collector:4317
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, StoreRedis, conf.Session.Store)
		assert.Equal(t, 5*time.Minute, conf.Session.TTL)
		assert.Equal(t, 250*time.Millisecond, conf.Session.ThinkingDelay)
		assert.Equal(t, uint64(42), conf.Session.Seed)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.True(t, conf.Telemetry.Enabled)
		assert.Equal(t, "collector:4317", conf.Telemetry.Endpoint)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8000\"\n")
		t.Setenv("HTTP_PORT", "8100")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8100", conf.HTTPPort)
	})

	t.Run("Unknown store", func(t *testing.T) {
		path := writeConfig(t, "session:\n  store: postgres\n")

		_, err := Load(path)

		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}

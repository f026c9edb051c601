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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "user_id: u1\n"))
	require.NoError(t, err)

	assert.Equal(t, "u1", cfg.UserID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memex.db", cfg.Local.Path)
	assert.Equal(t, "localhost", cfg.Remote.Host)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "memex", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "item.processed", cfg.RabbitMQ.EventRoutingKey)
	assert.Equal(t, "pending_item.created", cfg.RabbitMQ.PendingRoutingKey)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Sources.Retry.MaxAttempts)
	assert.Equal(t, uint32(5), cfg.Sources.Breaker.Failures)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.StepTimeout)
	assert.Equal(t, "A", cfg.Pipeline.DefaultYouTubeSource)
	assert.Equal(t, 30*time.Second, cfg.Sync.ProbeInterval)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, 4, cfg.Pending.Concurrency)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("MEMEX_TEST_DB_PASSWORD", "s3cret")
	t.Setenv("MEMEX_TEST_OMDB_KEY", "omdb-key")

	cfg, err := Load(writeConfig(t, `
user_id: u1
log_level: debug
remote:
  host: db.internal
  user: memex
  password: ${MEMEX_TEST_DB_PASSWORD}
  dbname: memex
sources:
  omdb_api_key: ${MEMEX_TEST_OMDB_KEY}
  oembed_endpoints:
    x: http://localhost:9000/oembed
pipeline:
  step_timeout: 10s
  default_youtube_source: B
sync:
  probe_url: https://status.example.com/health
  max_attempts: 8
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "host=db.internal port=5432 user=memex password=s3cret dbname=memex sslmode=disable", cfg.Remote.DSN())
	assert.Equal(t, "omdb-key", cfg.Sources.OMDbAPIKey)
	assert.Equal(t, "http://localhost:9000/oembed", cfg.Sources.OEmbedEndpoints["x"])
	assert.Equal(t, 10*time.Second, cfg.Pipeline.StepTimeout)
	assert.Equal(t, "B", cfg.Pipeline.DefaultYouTubeSource)
	assert.Equal(t, "https://status.example.com/health", cfg.Sync.ProbeURL)
	assert.Equal(t, 8, cfg.Sync.MaxAttempts)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing user", body: "log_level: info\n"},
		{name: "bad youtube source", body: "user_id: u1\npipeline:\n  default_youtube_source: C\n"},
		{name: "malformed yaml", body: "user_id: [u1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

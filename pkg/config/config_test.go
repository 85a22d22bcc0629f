package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s
  cron_secret: s3cret

llm:
  endpoint: https://llm.example.com/v1
  api_key: llm-key
  model: test-model
  temperature: 0.5
  max_content_chars: 1000
  retry:
    retries: 2
    base_delay: 1s
    max_delay: 4s

market:
  api_key: market-key
  timeout: 5s

feeds:
  timeout: 15s
  fallbacks:
    https://example.com/feed.xml: testdata/feed.xml

batch:
  workers: 8
  max_enrich_attempts: 3
  interval: 24h
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "s3cret", cfg.GetCronSecret())

		assert.Equal(t, "https://llm.example.com/v1", cfg.LLM.Endpoint)
		assert.Equal(t, "llm-key", cfg.LLM.APIKey)
		assert.Equal(t, "test-model", cfg.LLM.Model)
		assert.InDelta(t, 0.5, cfg.LLM.Temperature, 0.001)
		assert.Equal(t, 1000, cfg.LLM.MaxContentChars)
		assert.Equal(t, RetryConfig{Retries: 2, BaseDelay: time.Second, MaxDelay: 4 * time.Second}, cfg.LLM.Retry)

		assert.Equal(t, "market-key", cfg.Market.APIKey)
		assert.Equal(t, 5*time.Second, cfg.Market.Timeout)
		assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.Market.Endpoint)

		assert.Equal(t, 15*time.Second, cfg.Feeds.Timeout)
		assert.Equal(t, map[string]string{"https://example.com/feed.xml": "testdata/feed.xml"}, cfg.Feeds.Fallbacks)

		assert.Equal(t, 8, cfg.Batch.Workers)
		assert.Equal(t, 3, cfg.Batch.MaxEnrichAttempts)
		assert.Equal(t, 24*time.Hour, cfg.Batch.Interval)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Parse([]byte("server:\n  listen: \":8081\"\n"))
		require.NoError(t, err)

		assert.Equal(t, ":8081", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Empty(t, cfg.Server.CronSecret)
		assert.Equal(t, "file:robohub.db?cache=shared&mode=rwc&_txlock=immediate", cfg.Database.DSN)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, "grok-2-latest", cfg.LLM.Model)
		assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.001)
		assert.Equal(t, 4000, cfg.LLM.MaxContentChars)
		assert.Equal(t, RetryConfig{Retries: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}, cfg.Market.Retry)
		assert.Equal(t, 10*time.Second, cfg.Market.Timeout)
		assert.Equal(t, 30*time.Second, cfg.Feeds.Timeout)
		assert.Equal(t, "Robohub/1.0", cfg.Feeds.UserAgent)
		assert.Equal(t, 4, cfg.Batch.Workers)
		assert.Equal(t, 5, cfg.Batch.MaxEnrichAttempts)
		assert.Zero(t, cfg.Batch.Interval)
		assert.False(t, cfg.Extraction.Enabled)
		assert.Equal(t, 300, cfg.Extraction.MinTextLength)
	})

	t.Run("zero temperature is kept", func(t *testing.T) {
		cfg, err := Parse([]byte("llm:\n  temperature: 0\n"))
		require.NoError(t, err)
		assert.Zero(t, cfg.LLM.Temperature)

		cfg, err = Parse([]byte("llm:\n  model: m\n"))
		require.NoError(t, err)
		assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.001)
	})

	t.Run("default matches empty file", func(t *testing.T) {
		cfg, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_ROBOHUB_LLM_KEY", "from-env")
		cfg, err := Parse([]byte("llm:\n  api_key: ${TEST_ROBOHUB_LLM_KEY}\n"))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.LLM.APIKey)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("server:\n  listen: [unclosed\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "short server timeout", yaml: "server:\n  timeout: 100ms\n", wantErr: "server timeout"},
		{name: "temperature too high", yaml: "llm:\n  temperature: 3\n", wantErr: "llm.temperature"},
		{name: "negative content limit", yaml: "llm:\n  max_content_chars: -1\n", wantErr: "max_content_chars"},
		{name: "max delay below base", yaml: "market:\n  retry:\n    base_delay: 10s\n    max_delay: 1s\n", wantErr: "market.retry.max_delay"},
		{name: "negative workers", yaml: "batch:\n  workers: -1\n", wantErr: "batch.workers"},
		{name: "negative interval", yaml: "batch:\n  interval: -1h\n", wantErr: "batch.interval"},
		{name: "empty fallback file", yaml: "feeds:\n  fallbacks:\n    https://example.com/rss: \"\"\n", wantErr: "feeds.fallbacks"},
		{name: "short extraction timeout", yaml: "extraction:\n  enabled: true\n  timeout: 10ms\n", wantErr: "extraction timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("unlimited attempts and disabled retries are valid", func(t *testing.T) {
		cfg, err := Parse([]byte("batch:\n  max_enrich_attempts: -1\nfeeds:\n  retry:\n    retries: -1\n"))
		require.NoError(t, err)
		assert.Equal(t, -1, cfg.Batch.MaxEnrichAttempts)
		assert.Equal(t, -1, cfg.Feeds.Retry.Retries)
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"CRON_SECRET":    " cron ",
		"LLM_API_KEY":    "llm",
		"MARKET_API_KEY": "",
		"DATABASE_DSN":   ":memory:",
	}
	cfg := Default()
	cfg.Market.APIKey = "from-file"
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "cron", cfg.Server.CronSecret)
	assert.Equal(t, "llm", cfg.LLM.APIKey)
	assert.Equal(t, "from-file", cfg.Market.APIKey, "empty env value keeps file setting")
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.ElementsMatch(t, []string{"cron", "llm", "from-file"}, cfg.Secrets())
}

func TestConfig_Checks(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "key"

	checks := cfg.Checks()
	require.Len(t, checks, 4)
	res := map[string]bool{}
	for _, c := range checks {
		res[c.Key] = c.OK
		assert.NotEmpty(t, c.Message)
	}
	assert.Equal(t, map[string]bool{
		"database.dsn":       true,
		"llm.api_key":        true,
		"market.api_key":     false,
		"server.cron_secret": false,
	}, res)
}

func TestSchema(t *testing.T) {
	schema := Schema()
	require.NotNil(t, schema)
	data, err := schema.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_enrich_attempts")
	assert.Contains(t, string(data), "cron_secret")
}

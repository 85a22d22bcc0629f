package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen     string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		CronSecret string        `yaml:"cron_secret" json:"cron_secret" jsonschema:"description=Shared secret required by the batch trigger endpoint"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:robohub.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for news enrichment"`

	Market MarketConfig `yaml:"market" json:"market" jsonschema:"description=Market data provider configuration"`

	Feeds FeedsConfig `yaml:"feeds" json:"feeds" jsonschema:"description=RSS ingestion configuration"`

	Batch BatchConfig `yaml:"batch" json:"batch" jsonschema:"description=Batch pipeline configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`
}

// RetryConfig holds backoff settings of an external call
type RetryConfig struct {
	Retries   int           `yaml:"retries" json:"retries" jsonschema:"default=3,description=Number of re-attempts after the first failure (-1 to disable)"`
	BaseDelay time.Duration `yaml:"base_delay" json:"base_delay" jsonschema:"default=500ms,description=Delay after the first failed attempt"`
	MaxDelay  time.Duration `yaml:"max_delay" json:"max_delay" jsonschema:"default=5s,description=Maximum delay between attempts"`
}

// LLMConfig holds LLM configuration for news enrichment
type LLMConfig struct {
	Endpoint        string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.x.ai/v1,description=OpenAI-compatible API endpoint"`
	APIKey          string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model           string        `yaml:"model" json:"model" jsonschema:"default=grok-2-latest,description=Model name"`
	Temperature     float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.2,description=Temperature for response generation"`
	MaxTokens       int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"description=Maximum tokens in response (0 for provider default)"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	MaxContentChars int           `yaml:"max_content_chars" json:"max_content_chars" jsonschema:"default=4000,description=Maximum characters of article text sent to the model"`
	Retry           RetryConfig   `yaml:"retry" json:"retry" jsonschema:"description=Retry settings"`
}

// MarketConfig holds market data provider settings
type MarketConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.coingecko.com/api/v3,description=CoinGecko compatible API base"`
	APIKey   string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Timeout of a single request attempt"`
	Retry    RetryConfig   `yaml:"retry" json:"retry" jsonschema:"description=Retry settings"`
}

// FeedsConfig holds RSS fetch settings
type FeedsConfig struct {
	Timeout   time.Duration     `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP timeout of a feed request"`
	UserAgent string            `yaml:"user_agent" json:"user_agent" jsonschema:"default=Robohub/1.0,description=User agent for feed requests"`
	Retry     RetryConfig       `yaml:"retry" json:"retry" jsonschema:"description=Retry settings"`
	Fallbacks map[string]string `yaml:"fallbacks" json:"fallbacks" jsonschema:"description=Feed URL to local XML file used when the feed can't be fetched"`
}

// BatchConfig holds batch pipeline settings
type BatchConfig struct {
	Workers           int           `yaml:"workers" json:"workers" jsonschema:"default=4,minimum=1,description=Concurrent sources or items per stage"`
	MaxEnrichAttempts int           `yaml:"max_enrich_attempts" json:"max_enrich_attempts" jsonschema:"default=5,description=Failed enrichments after which an item is skipped (-1 for unlimited)"`
	Interval          time.Duration `yaml:"interval" json:"interval" jsonschema:"description=Run the batch periodically with this interval (0 to disable)"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable content extraction for short feed entries"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Robohub/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=300,description=Feed body length below which the article page is extracted"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse makes configuration from YAML content, expanding environment variables
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	// temperature is preset so an explicit 0 in the file survives defaults
	cfg := Config{LLM: LLMConfig{Temperature: defaultTemperature}}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

const defaultTemperature = 0.2

// Default returns configuration with all defaults, used when no config file is given
func Default() *Config {
	cfg := Config{LLM: LLMConfig{Temperature: defaultTemperature}}
	setDefaults(&cfg)
	return &cfg
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:robohub.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// llm
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = "https://api.x.ai/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "grok-2-latest"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.MaxContentChars == 0 {
		cfg.LLM.MaxContentChars = 4000
	}
	retryDefaults(&cfg.LLM.Retry)

	// market
	if cfg.Market.Endpoint == "" {
		cfg.Market.Endpoint = "https://api.coingecko.com/api/v3"
	}
	if cfg.Market.Timeout == 0 {
		cfg.Market.Timeout = 10 * time.Second
	}
	retryDefaults(&cfg.Market.Retry)

	// feeds
	if cfg.Feeds.Timeout == 0 {
		cfg.Feeds.Timeout = 30 * time.Second
	}
	if cfg.Feeds.UserAgent == "" {
		cfg.Feeds.UserAgent = "Robohub/1.0"
	}
	retryDefaults(&cfg.Feeds.Retry)

	// batch
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 4
	}
	if cfg.Batch.MaxEnrichAttempts == 0 {
		cfg.Batch.MaxEnrichAttempts = 5
	}

	// extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "Robohub/1.0"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 300
	}
}

func retryDefaults(r *RetryConfig) {
	if r.Retries == 0 {
		r.Retries = 3
	}
	if r.BaseDelay == 0 {
		r.BaseDelay = 500 * time.Millisecond
	}
	if r.MaxDelay == 0 {
		r.MaxDelay = 5 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxContentChars < 0 {
		return fmt.Errorf("llm.max_content_chars must be non-negative")
	}

	retries := map[string]RetryConfig{"llm": cfg.LLM.Retry, "market": cfg.Market.Retry, "feeds": cfg.Feeds.Retry}
	for name, r := range retries {
		if r.MaxDelay < r.BaseDelay {
			return fmt.Errorf("%s.retry.max_delay must not be less than base_delay", name)
		}
	}

	if cfg.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}
	if cfg.Batch.Interval < 0 {
		return fmt.Errorf("batch.interval must be non-negative")
	}

	for url, file := range cfg.Feeds.Fallbacks {
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("feeds.fallbacks entry for %s has no file", url)
		}
	}

	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}
	return nil
}

// ApplyEnv overrides credentials and connection settings from environment variables, if set
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	overrides := []struct {
		key string
		dst *string
	}{
		{"CRON_SECRET", &c.Server.CronSecret},
		{"LLM_API_KEY", &c.LLM.APIKey},
		{"MARKET_API_KEY", &c.Market.APIKey},
		{"DATABASE_DSN", &c.Database.DSN},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}

// Check describes one required setting and whether it is configured
type Check struct {
	Key     string
	OK      bool
	Message string
}

// Checks reports required credentials and connection settings
func (c *Config) Checks() []Check {
	has := func(s string) bool { return strings.TrimSpace(s) != "" }
	return []Check{
		{Key: "database.dsn", OK: has(c.Database.DSN), Message: "needed for the news store"},
		{Key: "llm.api_key", OK: has(c.LLM.APIKey), Message: "required to call the LLM for enrichment"},
		{Key: "market.api_key", OK: has(c.Market.APIKey), Message: "required to snapshot robotics tokens"},
		{Key: "server.cron_secret", OK: has(c.Server.CronSecret), Message: "protects the batch trigger endpoint"},
	}
}

// Secrets returns configured secret values, to be masked in logs
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.Server.CronSecret, c.LLM.APIKey, c.Market.APIKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// Schema returns the JSON schema of the configuration
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetCronSecret returns the shared secret of the batch trigger
func (c *Config) GetCronSecret() string {
	return c.Server.CronSecret
}

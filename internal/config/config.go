package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	BatchLimit  int           `envconfig:"PIPELINE_BATCH_LIMIT" default:"50"`
	MaxAttempts int           `envconfig:"PIPELINE_MAX_ATTEMPTS" default:"3"`
	Lookback    time.Duration `envconfig:"PIPELINE_LOOKBACK" default:"24h"`
	Workers     int           `envconfig:"PIPELINE_WORKERS" default:"4"`

	MatcherMaxLines      int     `envconfig:"MATCHER_MAX_LINES" default:"4"`
	NormalizerSimilarity float64 `envconfig:"NORMALIZER_SIMILARITY" default:"0.85"`
	DetectLanguage       bool    `envconfig:"NORMALIZER_DETECT_LANGUAGE" default:"false"`

	IdentityFuzzyThreshold float64 `envconfig:"IDENTITY_FUZZY_THRESHOLD" default:"0.90"`
	AggregatorChannels     string  `envconfig:"AGGREGATOR_CHANNELS" default:""`

	LLMProvider string        `envconfig:"LLM_PROVIDER" default:"openrouter"`
	LLMBaseURL  string        `envconfig:"LLM_BASE_URL" default:""`
	LLMAPIKey   string        `envconfig:"LLM_API_KEY" default:""`
	LLMModel    string        `envconfig:"LLM_MODEL" default:""`
	LLMTimeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`

	FallbackBatchSize  int `envconfig:"FALLBACK_BATCH_SIZE" default:"10"`
	FallbackMaxBatches int `envconfig:"FALLBACK_MAX_BATCHES" default:"2"`

	ArchiveAfterHours int `envconfig:"ARCHIVE_AFTER_HOURS" default:"72"`

	APITokenHash       string `envconfig:"API_TOKEN_HASH" default:""`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.BatchLimit < 1 {
		return fmt.Errorf("PIPELINE_BATCH_LIMIT must be >= 1")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("PIPELINE_MAX_ATTEMPTS must be >= 1")
	}
	if c.Lookback <= 0 {
		return fmt.Errorf("PIPELINE_LOOKBACK must be > 0")
	}
	if c.Workers < 1 {
		return fmt.Errorf("PIPELINE_WORKERS must be >= 1")
	}
	if c.MatcherMaxLines < 1 {
		return fmt.Errorf("MATCHER_MAX_LINES must be >= 1")
	}
	if c.NormalizerSimilarity <= 0 || c.NormalizerSimilarity > 1 {
		return fmt.Errorf("NORMALIZER_SIMILARITY must be in (0,1]")
	}
	if c.IdentityFuzzyThreshold <= 0 || c.IdentityFuzzyThreshold > 1 {
		return fmt.Errorf("IDENTITY_FUZZY_THRESHOLD must be in (0,1]")
	}
	switch c.NormalizedLLMProvider() {
	case "openrouter", "local", "none":
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of openrouter, local, none (got %q)", c.LLMProvider)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be > 0")
	}
	if c.FallbackBatchSize < 1 {
		return fmt.Errorf("FALLBACK_BATCH_SIZE must be >= 1")
	}
	if c.FallbackMaxBatches < 0 {
		return fmt.Errorf("FALLBACK_MAX_BATCHES must be >= 0")
	}
	if c.ArchiveAfterHours < 1 {
		return fmt.Errorf("ARCHIVE_AFTER_HOURS must be >= 1")
	}
	return nil
}

// RequireDatabase is checked by subcommands that open the store.
func (c *Config) RequireDatabase() error {
	if c == nil || strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) NormalizedLLMProvider() string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.LLMProvider))
}

func (c *Config) ArchiveAfter() time.Duration {
	return time.Duration(c.ArchiveAfterHours) * time.Hour
}

func (c *Config) AggregatorChannelList() []string {
	if c == nil {
		return nil
	}
	return splitCSV(c.AggregatorChannels)
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}
	return splitCSV(c.CORSAllowedOrigins)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

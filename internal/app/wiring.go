package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/config"
	"github.com/Ducky705/Live-Pick-Scraper/internal/db"
	"github.com/Ducky705/Live-Pick-Scraper/internal/fallback"
	"github.com/Ducky705/Live-Pick-Scraper/internal/httpapi"
	"github.com/Ducky705/Live-Pick-Scraper/internal/langdetect"
	"github.com/Ducky705/Live-Pick-Scraper/internal/llm"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
)

var (
	_ pipeline.Store = (*db.Pool)(nil)
	_ httpapi.Store  = (*db.Pool)(nil)
)

func newEngine(cfg *config.Config) *pipeline.Engine {
	opts := pipeline.EngineOptions{
		AggregatorChannels: cfg.AggregatorChannelList(),
		MaxLines:           cfg.MatcherMaxLines,
		Similarity:         cfg.NormalizerSimilarity,
	}
	if cfg.DetectLanguage {
		opts.Language = langdetect.New(langdetect.DefaultMinConfidence)
	}
	return pipeline.NewEngine(opts)
}

// newFallback returns nil, nil when LLM_PROVIDER is none.
func newFallback(cfg *config.Config, logger zerolog.Logger) (*fallback.Extractor, error) {
	registry := llm.NewRegistryFromSettings(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	provider, err := registry.Provider(registry.DefaultProvider())
	if errors.Is(err, llm.ErrNotConfigured) {
		logger.Info().Msg("fallback extractor disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve llm provider: %w", err)
	}
	return fallback.New(provider, cfg.LLMModel, logger), nil
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		BatchLimit:         cfg.BatchLimit,
		MaxAttempts:        cfg.MaxAttempts,
		Lookback:           cfg.Lookback,
		Workers:            cfg.Workers,
		FallbackBatchSize:  cfg.FallbackBatchSize,
		FallbackMaxBatches: cfg.FallbackMaxBatches,
		FallbackTimeout:    cfg.LLMTimeout,
		ArchiveAfter:       cfg.ArchiveAfter(),
	}
}

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Ducky705/Live-Pick-Scraper/internal/cli"
	"github.com/Ducky705/Live-Pick-Scraper/internal/config"
	"github.com/Ducky705/Live-Pick-Scraper/internal/db"
	"github.com/Ducky705/Live-Pick-Scraper/internal/identity"
	"github.com/Ducky705/Live-Pick-Scraper/internal/logging"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	limit := fs.Int("limit", 0, "Maximum pending messages per cycle (0 uses PIPELINE_BATCH_LIMIT)")
	maxBatches := fs.Int("fallback-max-batches", -1, "Fallback batches per cycle (-1 uses FALLBACK_MAX_BATCHES)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *limit < 0 {
		fmt.Fprintln(os.Stderr, "--limit must be >= 0")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.RequireDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	fb, err := newFallback(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("process command failed to configure fallback")
		fmt.Fprintf(os.Stderr, "Failed to configure fallback: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("process command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	opts := pipelineOptions(cfg)
	if *limit > 0 {
		opts.BatchLimit = *limit
	}
	if *maxBatches >= 0 {
		opts.FallbackMaxBatches = *maxBatches
	}

	resolver := identity.NewResolver(pool, nil, cfg.IdentityFuzzyThreshold, logger)
	svc := pipeline.NewService(pool, newEngine(cfg), fb, resolver, opts, logger)
	result, err := svc.ProcessPending(ctx)
	if err != nil {
		logger.Error().Err(err).Str("run_id", result.RunID).Msg("process failed")
		fmt.Fprintf(os.Stderr, "Process failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"process run_id=%s fetched=%d accepted=%d routed=%d empty=%d fallback_batches=%d fallback_failed=%d deferred=%d duplicates=%d inserted=%d archived=%d\n",
		result.RunID,
		result.Fetched,
		result.Accepted,
		result.Routed,
		result.Empty,
		result.FallbackBatches,
		result.FallbackFailed,
		result.Deferred,
		result.Duplicates,
		result.Inserted,
		result.Archived,
	)
	return 0
}

func runArchive(args []string) int {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", time.Minute, "Command timeout")
	olderThan := fs.Duration("older-than", 0, "Archive pending picks older than this (0 uses ARCHIVE_AFTER_HOURS)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *olderThan < 0 {
		fmt.Fprintln(os.Stderr, "--older-than must be >= 0")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.RequireDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	cutoff := cfg.ArchiveAfter()
	if *olderThan > 0 {
		cutoff = *olderThan
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("archive command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	archived, err := pool.ArchiveOldPicks(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Dur("older_than", cutoff).Msg("archive failed")
		fmt.Fprintf(os.Stderr, "Archive failed: %v\n", err)
		return 1
	}

	logger.Info().
		Dur("older_than", cutoff).
		Int64("archived", archived).
		Msg("archive completed")
	fmt.Printf("archive archived=%d older_than=%s\n", archived, cutoff)
	return 0
}

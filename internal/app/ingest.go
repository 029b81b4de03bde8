package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ducky705/Live-Pick-Scraper/internal/cli"
	"github.com/Ducky705/Live-Pick-Scraper/internal/config"
	"github.com/Ducky705/Live-Pick-Scraper/internal/db"
	"github.com/Ducky705/Live-Pick-Scraper/internal/logging"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	pickschema "github.com/Ducky705/Live-Pick-Scraper/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", time.Minute, "Command timeout")
	file := fs.String("file", "", "Path to a JSONL file of raw messages (one object per line)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	path := strings.TrimSpace(*file)
	if path == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		return 2
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open messages file: %v\n", err)
		return 2
	}
	defer f.Close()

	messages, err := readMessages(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid messages file: %v\n", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("ingest command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	inserted, skipped := 0, 0
	for _, msg := range messages {
		id, err := pool.InsertRawMessage(ctx, msg)
		if err != nil {
			logger.Error().Err(err).Str("source_unique_id", msg.SourceUniqueID).Msg("ingest failed")
			fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
			return 1
		}
		if id == 0 {
			skipped++
			continue
		}
		inserted++
	}

	logger.Info().
		Str("file", path).
		Int("inserted", inserted).
		Int("skipped", skipped).
		Msg("ingest completed")
	fmt.Printf("ingest inserted=%d skipped=%d\n", inserted, skipped)
	return 0
}

// readMessages validates every line before anything is stored. Blank lines
// are skipped.
func readMessages(r io.Reader) ([]pick.RawMessage, error) {
	var out []pick.RawMessage
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		payload, err := pickschema.ValidateRawMessage([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, payload.Message())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no messages found")
	}
	return out, nil
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ducky705/Live-Pick-Scraper/internal/cli"
	"github.com/Ducky705/Live-Pick-Scraper/internal/config"
	"github.com/Ducky705/Live-Pick-Scraper/internal/fallback"
	"github.com/Ducky705/Live-Pick-Scraper/internal/logging"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
)

func runParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 90*time.Second, "Command timeout")
	text := fs.String("text", "", "Message text (reads stdin when empty and --file is unset)")
	file := fs.String("file", "", "Path to a file holding the message text")
	ocrText := fs.String("ocr-text", "", "OCR transcription of an attached image")
	channel := fs.String("channel", "", "Channel the message was posted in")
	author := fs.String("author", "", "Author display name")
	useFallback := fs.Bool("fallback", false, "Call the fallback extractor when the gate routes the message")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	body, err := readMessageText(*text, *file, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		return 2
	}
	if strings.TrimSpace(body) == "" && strings.TrimSpace(*ocrText) == "" {
		fmt.Fprintln(os.Stderr, "message text is empty")
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

	logger, err := logging.NewWithWriter(cfg.Environment, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	var fb *fallback.Extractor
	if *useFallback {
		fb, err = newFallback(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to configure fallback: %v\n", err)
			return 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	preview, err := pipeline.PreviewMessage(ctx, newEngine(cfg), fb, pick.RawMessage{
		ChannelName:       strings.TrimSpace(*channel),
		AuthorDisplayName: strings.TrimSpace(*author),
		Text:              body,
		OCRText:           *ocrText,
	})
	if err != nil {
		logger.Error().Err(err).Msg("parse fallback failed")
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(preview); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write preview: %v\n", err)
		return 1
	}
	return 0
}

// readMessageText prefers the file, then the inline text, then stdin.
func readMessageText(inline, path string, stdin io.Reader) (string, error) {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		raw, err := os.ReadFile(trimmed)
		if err != nil {
			return "", fmt.Errorf("read message file %q: %w", trimmed, err)
		}
		return string(raw), nil
	}
	if inline != "" {
		return inline, nil
	}
	if stdin == nil {
		return "", nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), nil
}

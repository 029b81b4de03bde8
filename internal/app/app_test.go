package app

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/config"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

func TestRunExitCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want int
	}{
		{name: "no args", args: nil, want: 2},
		{name: "help", args: []string{"help"}, want: 0},
		{name: "unknown", args: []string{"explode"}, want: 2},
		{name: "process help", args: []string{"process", "-h"}, want: 0},
		{name: "bad flag", args: []string{"archive", "--nope"}, want: 2},
		{name: "bad port", args: []string{"serve", "--port", "0"}, want: 2},
		{name: "negative limit", args: []string{"run-once", "--limit", "-1"}, want: 2},
		{name: "ingest without file", args: []string{"ingest"}, want: 2},
		{name: "eval missing golden", args: []string{"eval", "--golden", "does-not-exist.jsonl"}, want: 2},
	}
	for _, tc := range cases {
		if got := Run(tc.args); got != tc.want {
			t.Fatalf("%s: got exit %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestHashTokenWithExplicitToken(t *testing.T) {
	t.Parallel()

	if got := Run([]string{"hash-token", "--token", "abc"}); got != 0 {
		t.Fatalf("expected exit 0, got %d", got)
	}
}

func TestReadMessageTextPrefersInlineOverStdin(t *testing.T) {
	t.Parallel()

	got, err := readMessageText("Lakers -5", "", strings.NewReader("ignored"))
	if err != nil || got != "Lakers -5" {
		t.Fatalf("got %q, %v", got, err)
	}

	got, err = readMessageText("", "", strings.NewReader("Chiefs ML"))
	if err != nil || got != "Chiefs ML" {
		t.Fatalf("got %q, %v", got, err)
	}

	if _, err := readMessageText("", "missing-file.txt", nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadMessages(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"source_unique_id": "tg:1", "channel_name": "Picks Hub", "raw_text": "Lakers -5", "occurred_at": "2025-10-12T18:00:00Z"}`,
		``,
		`{"source_unique_id": "tg:2", "ocr_text": "Chiefs ML -150", "occurred_at": "2025-10-12T19:00:00Z"}`,
	}, "\n")

	messages, err := readMessages(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readMessages returned error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(messages))
	}
	if messages[0].ChannelName != "Picks Hub" || messages[0].Status != pick.StatusPending {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if !messages[1].OccurredAt.Equal(time.Date(2025, 10, 12, 19, 0, 0, 0, time.UTC)) || messages[1].OCRText != "Chiefs ML -150" {
		t.Fatalf("unexpected second message: %+v", messages[1])
	}

	if _, err := readMessages(strings.NewReader(`{"source_unique_id": "tg:3"}`)); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected line-numbered validation error, got %v", err)
	}
	if _, err := readMessages(strings.NewReader("\n\n")); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestNewFallbackDisabled(t *testing.T) {
	t.Parallel()

	fb, err := newFallback(&config.Config{LLMProvider: "none"}, zerolog.Nop())
	if err != nil || fb != nil {
		t.Fatalf("expected disabled fallback, got %v, %v", fb, err)
	}

	fb, err = newFallback(&config.Config{LLMProvider: "local", LLMModel: "qwen2.5"}, zerolog.Nop())
	if err != nil || fb == nil {
		t.Fatalf("expected local fallback, got %v, %v", fb, err)
	}
	if fb.Model() != "qwen2.5" {
		t.Fatalf("unexpected model %q", fb.Model())
	}
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		BatchLimit:         20,
		MaxAttempts:        3,
		Lookback:           24 * time.Hour,
		Workers:            2,
		FallbackBatchSize:  10,
		FallbackMaxBatches: 0,
		LLMTimeout:         time.Minute,
		ArchiveAfterHours:  72,
	}
	opts := pipelineOptions(cfg)
	if opts.FallbackMaxBatches != 0 || opts.ArchiveAfter != 72*time.Hour || opts.FallbackTimeout != time.Minute {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

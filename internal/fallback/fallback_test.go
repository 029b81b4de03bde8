package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/llm"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

type stubProvider struct {
	response string
	err      error
	requests []llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	return s.response, s.err
}

func TestExtractParsesFencedArray(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: "```json\n[" +
		`{"raw_pick_id": 1, "pick_value": "Lakers -5", "bet_type": "Spread", "unit": "2u", "odds_american": "-110", "league": "NBA"},` +
		`{"raw_pick_id": 2, "pick_value": "Over 44.5", "bet_type": "Total", "unit": null, "odds_american": -105}` +
		"]\n```"}
	extractor := New(provider, "test/model", zerolog.Nop())

	got, err := extractor.Extract(context.Background(), []Request{
		{MessageID: 1, Text: "lakers minus five 2u", Author: "Gold Boys", Date: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)},
		{MessageID: 2, Text: "over 44.5 in the chiefs game"},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []pick.ExtractedPick{
		{SourceMessageID: 1, League: "NBA", BetType: "Spread", PickText: "Lakers -5", Unit: pick.Float(2), OddsAmerican: pick.Int(-110), Extractor: pick.ExtractorFallback},
		{SourceMessageID: 2, League: "Unknown", BetType: "Total", PickText: "Over 44.5", OddsAmerican: pick.Int(-105), Extractor: pick.ExtractorFallback},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected picks (-want +got):\n%s", diff)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("expected one completion call, got %d", len(provider.requests))
	}
	req := provider.requests[0]
	if req.Temperature != 0 || !req.JSON || req.Model != "test/model" {
		t.Fatalf("unexpected request settings: %+v", req)
	}
	if !strings.Contains(req.Prompt, `"capper_name":"Gold Boys"`) || !strings.Contains(req.Prompt, `"pick_date":"2026-10-17"`) {
		t.Fatalf("prompt is missing message context: %s", req.Prompt)
	}
}

func TestExtractSalvagesObjects(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: `Here you go:
{"raw_pick_id": 5, "pick_value": "Chiefs ML", "bet_type": "ML"}
{"raw_pick_id": 5, "pick_value": "Bills -3", "bet_type": "Spread",}
{"raw_pick_id": 5, "pick_value": "Ravens +2.5", "bet_type": "Spread"}`}

	got, err := New(provider, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 5, Text: "x"}, {MessageID: 6, Text: "y"}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 2 || got[0].PickText != "Chiefs ML" || got[1].PickText != "Ravens +2.5" {
		t.Fatalf("unexpected salvaged picks: %+v", got)
	}
}

func TestExtractUnwrapsPicksObject(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: `{"picks": [{"pick_value": "Celtics ML", "bet_type": "Moneyline", "league": "NBA"}]}`}
	got, err := New(provider, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 9, Text: "celts"}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || got[0].SourceMessageID != 9 {
		t.Fatalf("expected single-message batch to default the id, got %+v", got)
	}
}

func TestExtractRecoversTruncatedWrapper(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: `{"picks": [{"raw_pick_id": 1, "pick_value": "Lakers -5", "bet_type": "Spread"}, {"raw_pick_id": 1, "pick_va`}
	got, err := New(provider, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 1, Text: "Lakers -5"}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || got[0].SourceMessageID != 1 || got[0].PickText != "Lakers -5" {
		t.Fatalf("expected the complete pick, got %+v", got)
	}
}

func TestExtractDropsInvalidObjects(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: `[
		{"pick_value": "Lakers ML"},
		{"raw_pick_id": 99, "pick_value": "Lakers ML"},
		{"raw_pick_id": 1, "pick_value": "ML"},
		{"raw_pick_id": 1, "pick_value": "This pick text is far too long to be a real betting pick at all"},
		{"raw_pick_id": 1, "pick_value": "Nets +7", "odds_american": "-150000", "unit": "lots"},
		{"raw_pick_id": 2, "bet_type": "Spread"}
	]`}
	got, err := New(provider, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 1}, {MessageID: 2}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one surviving pick, got %+v", got)
	}
	if got[0].PickText != "Nets +7" || got[0].OddsAmerican != nil || got[0].Unit != nil {
		t.Fatalf("unexpected survivor: %+v", got[0])
	}
}

func TestExtractFailures(t *testing.T) {
	t.Parallel()

	transport := &stubProvider{err: errors.New("connection reset")}
	if _, err := New(transport, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 1}}); err == nil {
		t.Fatalf("expected transport error")
	}

	garbage := &stubProvider{response: "I could not find any picks, sorry."}
	if _, err := New(garbage, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 1}}); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}

	if _, err := New(nil, "", zerolog.Nop()).Extract(context.Background(), []Request{{MessageID: 1}}); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBuildPromptTruncatesText(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt([]Request{{MessageID: 3, Text: strings.Repeat("a", 1500)}})
	if strings.Contains(prompt, strings.Repeat("a", 1001)) {
		t.Fatalf("expected message text to be truncated to 1000 runes")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 1000)) {
		t.Fatalf("expected 1000 runes of message text in prompt")
	}
}

func TestMatchingCloseSkipsStrings(t *testing.T) {
	t.Parallel()

	text := `[{"pick_value": "weird ] value"}] tail`
	if end := matchingClose(text, 0); text[end+1:] != " tail" {
		t.Fatalf("unexpected close index %d", end)
	}
}

package pickschema

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValidateRawMessage_Valid(t *testing.T) {
	t.Parallel()

	msg, err := ValidateRawMessage(json.RawMessage(`{
		"source_unique_id": " tg-1001 ",
		"channel_name": "Capper Central",
		"raw_text": "Lakers -5 -110",
		"occurred_at": "2026-02-14T23:30:00-05:00"
	}`))
	if err != nil {
		t.Fatalf("ValidateRawMessage returned error: %v", err)
	}
	if msg.SourceUniqueID != "tg-1001" {
		t.Fatalf("unexpected source id: %q", msg.SourceUniqueID)
	}
	want := time.Date(2026, 2, 15, 4, 30, 0, 0, time.UTC)
	if !msg.OccurredAt.Equal(want) || msg.OccurredAt.Location() != time.UTC {
		t.Fatalf("unexpected occurred_at: %s", msg.OccurredAt)
	}
}

func TestValidateRawMessage_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing id":      `{"raw_text":"Lakers -5","occurred_at":"2026-02-14T00:00:00Z"}`,
		"no text":         `{"source_unique_id":"a","occurred_at":"2026-02-14T00:00:00Z"}`,
		"blank text":      `{"source_unique_id":"a","raw_text":"  ","ocr_text":"","occurred_at":"2026-02-14T00:00:00Z"}`,
		"bad timestamp":   `{"source_unique_id":"a","raw_text":"Lakers -5","occurred_at":"yesterday"}`,
		"unknown field":   `{"source_unique_id":"a","raw_text":"Lakers -5","occurred_at":"2026-02-14T00:00:00Z","extra":1}`,
		"trailing object": `{"source_unique_id":"a","raw_text":"x","occurred_at":"2026-02-14T00:00:00Z"} {}`,
	}
	for name, payload := range cases {
		if _, err := ValidateRawMessage(json.RawMessage(payload)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

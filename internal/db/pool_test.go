package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm/logger"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

func TestResolveGormLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level, env string
		want       logger.LogLevel
	}{
		{"debug", "production", logger.Info},
		{"info", "production", logger.Warn},
		{"", "production", logger.Warn},
		{"error", "local", logger.Error},
		{"disabled", "local", logger.Silent},
		{"verbose", "local", logger.Warn},
		{"verbose", "production", logger.Error},
	}
	for _, tc := range cases {
		if got := resolveGormLogLevel(tc.level, tc.env); got != tc.want {
			t.Fatalf("resolveGormLogLevel(%q, %q): expected %v, got %v", tc.level, tc.env, tc.want, got)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(wrapped) {
		t.Fatalf("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Fatalf("plain errors are not unique violations")
	}
}

func TestToModel(t *testing.T) {
	t.Parallel()

	sp := pick.StandardizedPick{
		IdentityID:   9,
		PickDate:     time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
		League:       pick.LeagueNFL,
		BetType:      pick.BetSpread,
		PickText:     "Cowboys -7.5",
		Unit:         pick.Float(2),
		RawMessageID: 77,
		Extractor:    pick.ExtractorFallback,
		Model:        "google/gemini-2.0-flash-001",
		GateReason:   "too_long",
	}
	row, err := toModel("7d7e1c1a-3b7e-4d8b-9c3e-9b1f0b8f2a11", sp)
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}
	if row.CapperID != 9 || row.PickValue != "Cowboys -7.5" || row.BetType != "Spread" || row.League != "NFL" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.Result != "pending" {
		t.Fatalf("expected pending result, got %q", row.Result)
	}
	if row.SourceURL != nil || row.SourceUniqueID != nil {
		t.Fatalf("expected empty source fields to be NULL")
	}
	if row.RunID == nil || *row.RunID != "7d7e1c1a-3b7e-4d8b-9c3e-9b1f0b8f2a11" {
		t.Fatalf("unexpected run id: %v", row.RunID)
	}

	var meta extraction
	if err := json.Unmarshal(row.Extraction, &meta); err != nil {
		t.Fatalf("decode extraction: %v", err)
	}
	if meta.Extractor != "fallback" || meta.Model != sp.Model || meta.GateReason != "too_long" {
		t.Fatalf("unexpected extraction metadata: %+v", meta)
	}
}

func TestNullable(t *testing.T) {
	t.Parallel()

	if nullable("  ") != nil {
		t.Fatalf("blank strings must map to NULL")
	}
	if got := nullable(" x "); got == nil || *got != "x" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
	if deref(nil) != "" {
		t.Fatalf("deref(nil) must be empty")
	}
}

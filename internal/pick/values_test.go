package pick

import (
	"testing"
	"time"
)

func TestSanitizeOddsBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want *int
	}{
		{in: -110, want: Int(-110)},
		{in: 105, want: Int(105)},
		{in: -150000, want: nil},
		{in: 20001, want: nil},
		{in: 20000, want: Int(20000)},
		{in: -99, want: nil},
		{in: 0, want: nil},
	}

	for _, tc := range cases {
		got := SanitizeOdds(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("SanitizeOdds(%d): expected unset, got %d", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("SanitizeOdds(%d): expected %d, got %v", tc.in, *tc.want, got)
		}
	}
}

func TestParseOdds(t *testing.T) {
	t.Parallel()

	cases := map[string]*int{
		"-110":    Int(-110),
		"+150":    Int(150),
		"(−120)":  Int(-120),
		"EVEN":    nil,
		"-150000": nil,
		"":        nil,
		"-110.5":  nil,
	}
	for in, want := range cases {
		got := ParseOdds(in)
		if want == nil {
			if got != nil {
				t.Fatalf("ParseOdds(%q): expected unset, got %d", in, *got)
			}
			continue
		}
		if got == nil || *got != *want {
			t.Fatalf("ParseOdds(%q): expected %d, got %v", in, *want, got)
		}
	}
}

func TestParseUnit(t *testing.T) {
	t.Parallel()

	cases := map[string]*float64{
		"2u":         Float(2),
		"1.5 units":  Float(1.5),
		"(3units)":   Float(3),
		"0.333":      Float(0.33),
		"units":      nil,
		"":           nil,
		"2.25 stars": Float(2.25),
	}
	for in, want := range cases {
		got := ParseUnit(in)
		if want == nil {
			if got != nil {
				t.Fatalf("ParseUnit(%q): expected unset, got %v", in, *got)
			}
			continue
		}
		if got == nil || *got != *want {
			t.Fatalf("ParseUnit(%q): expected %v, got %v", in, *want, got)
		}
	}
}

func TestValidPickText(t *testing.T) {
	t.Parallel()

	if ValidPickText("Lak") {
		t.Fatalf("three characters should be too short")
	}
	if !ValidPickText("Lakers ML") {
		t.Fatalf("expected Lakers ML to be valid")
	}
	long := "Los Angeles Lakers and Boston Celtics Over 215.5 Points"
	if ValidPickText(long) {
		t.Fatalf("expected %q to be too long", long)
	}
}

func TestFullTextJoinsOCR(t *testing.T) {
	t.Parallel()

	msg := RawMessage{Text: "Lakers -5", OCRText: "Celtics ML"}
	want := "Lakers -5\n--- OCR TEXT ---\nCeltics ML"
	if got := msg.FullText(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := (RawMessage{OCRText: " Celtics ML "}).FullText(); got != "Celtics ML" {
		t.Fatalf("expected OCR-only text, got %q", got)
	}
}

func TestSignatureUsesCalendarDate(t *testing.T) {
	t.Parallel()

	p := StandardizedPick{
		IdentityID: 7,
		PickDate:   time.Date(2026, time.October, 4, 0, 0, 0, 0, time.UTC),
		PickText:   "Cowboys -7.5",
		BetType:    BetSpread,
	}
	sig := p.Signature()
	if sig.PickDate != "2026-10-04" || sig.IdentityID != 7 || sig.BetType != BetSpread {
		t.Fatalf("unexpected signature: %#v", sig)
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := ParseDate(" 2025-10-12 ")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if got := FormatDate(d); got != "2025-10-12" {
		t.Fatalf("unexpected round trip: %q", got)
	}
	if _, err := ParseDate("10/12/2025"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Ducky705/Live-Pick-Scraper/internal/normalize"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

func lines(in ...string) normalize.Result {
	return normalize.Result{Lines: in}
}

func TestMatchSingleLines(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line    string
		betType pick.BetType
		text    string
		odds    *int
		unit    *float64
	}{
		{line: "Lakers -5 -110", betType: pick.BetSpread, text: "Lakers -5", odds: pick.Int(-110)},
		{line: "Warriors +3.5 -105", betType: pick.BetSpread, text: "Warriors +3.5", odds: pick.Int(-105)},
		{line: "Lakers ML -150", betType: pick.BetMoneyline, text: "Lakers ML", odds: pick.Int(-150)},
		{line: "Celtics Moneyline +120", betType: pick.BetMoneyline, text: "Celtics ML", odds: pick.Int(120)},
		{line: "o215.5 -110", betType: pick.BetTotal, text: "Over 215.5", odds: pick.Int(-110)},
		{line: "Under 215.5", betType: pick.BetTotal, text: "Under 215.5"},
		{line: "u 210.5", betType: pick.BetTotal, text: "Under 210.5"},
		{line: "Lakers/Celtics o215.5", betType: pick.BetTotal, text: "Lakers/Celtics Over 215.5"},
		{line: "Chiefs Pk", betType: pick.BetSpread, text: "Chiefs PK"},
		{line: "Cowboys -7.5 (2u)", betType: pick.BetSpread, text: "Cowboys -7.5", unit: pick.Float(2)},
		{line: "Baker under 1.5", betType: pick.BetPlayerProp, text: "Baker Under 1.5"},
		{line: "LeBron o25.5 pts -115", betType: pick.BetPlayerProp, text: "LeBron Over 25.5 pts", odds: pick.Int(-115)},
		{line: "Jokic 10+ reb", betType: pick.BetPlayerProp, text: "Jokic 10+ reb"},
		{line: "Kelce ATD +150", betType: pick.BetPlayerProp, text: "Kelce Anytime TD", odds: pick.Int(150)},
		{line: "Mavs +4 1.5 units", betType: pick.BetSpread, text: "Mavs +4", unit: pick.Float(1.5)},
		{line: "Knicks -2 max", betType: pick.BetSpread, text: "Knicks -2", unit: pick.Float(5)},
	}

	m := New(Options{})
	for _, tc := range cases {
		res := m.Match(7, lines(tc.line))
		if len(res.Picks) != 1 {
			t.Fatalf("%q: expected one pick, got %d", tc.line, len(res.Picks))
		}
		want := pick.ExtractedPick{
			SourceMessageID: 7,
			League:          string(pick.LeagueOther),
			BetType:         string(tc.betType),
			PickText:        tc.text,
			Unit:            tc.unit,
			OddsAmerican:    tc.odds,
			Extractor:       pick.ExtractorRules,
		}
		if diff := cmp.Diff(want, res.Picks[0]); diff != "" {
			t.Fatalf("%q: unexpected pick (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestMatchDisambiguatesSignedNumbers(t *testing.T) {
	t.Parallel()

	m := New(Options{})

	spread := m.Match(1, lines("Lakers -5"))
	if len(spread.Picks) != 1 || spread.Picks[0].BetType != string(pick.BetSpread) || spread.Picks[0].PickText != "Lakers -5" {
		t.Fatalf("expected spread, got %#v", spread.Picks)
	}

	ml := m.Match(1, lines("Lakers -150"))
	if len(ml.Picks) != 1 || ml.Picks[0].BetType != string(pick.BetMoneyline) || ml.Picks[0].PickText != "Lakers ML" {
		t.Fatalf("expected moneyline, got %#v", ml.Picks)
	}
	if ml.Picks[0].OddsAmerican == nil || *ml.Picks[0].OddsAmerican != -150 {
		t.Fatalf("expected odds -150, got %v", ml.Picks[0].OddsAmerican)
	}

	huge := m.Match(1, lines("Lakers -150000"))
	if len(huge.Picks) != 1 || huge.Picks[0].BetType != string(pick.BetMoneyline) {
		t.Fatalf("expected moneyline for out-of-range price, got %#v", huge.Picks)
	}
	if huge.Picks[0].OddsAmerican != nil {
		t.Fatalf("expected odds unset, got %d", *huge.Picks[0].OddsAmerican)
	}
}

func TestMatchSignedNumbersBelowHundredAreSpreads(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	for _, line := range []string{"Cowboys -55", "Lakers -51", "Lakers +99", "Lakers -99.5"} {
		res := m.Match(1, lines(line))
		if len(res.Picks) != 1 {
			t.Fatalf("%q: expected one pick, got %#v", line, res.Picks)
		}
		if got := res.Picks[0]; got.BetType != string(pick.BetSpread) || got.PickText != line {
			t.Fatalf("%q: expected spread, got %s %q", line, got.BetType, got.PickText)
		}
	}

	res := m.Match(1, lines("Lakers -100"))
	if len(res.Picks) != 1 || res.Picks[0].BetType != string(pick.BetMoneyline) {
		t.Fatalf("expected moneyline at -100, got %#v", res.Picks)
	}
}

func TestMatchLeagueHeaderAndUnits(t *testing.T) {
	t.Parallel()

	res := New(Options{}).Match(42, lines("(NFL)", "Cowboys -7.5 (2u)", "Over 44.5 -110"))
	want := []pick.ExtractedPick{
		{SourceMessageID: 42, League: "NFL", BetType: "Spread", PickText: "Cowboys -7.5", Unit: pick.Float(2), Extractor: pick.ExtractorRules},
		{SourceMessageID: 42, League: "NFL", BetType: "Total", PickText: "Over 44.5", OddsAmerican: pick.Int(-110), Extractor: pick.ExtractorRules},
	}
	if diff := cmp.Diff(want, res.Picks); diff != "" {
		t.Fatalf("unexpected picks (-want +got):\n%s", diff)
	}
	if res.Lines != 2 || res.TooLong {
		t.Fatalf("expected two structural lines, got %d (too long %v)", res.Lines, res.TooLong)
	}
}

func TestMatchStitchesSplitLines(t *testing.T) {
	t.Parallel()

	res := New(Options{}).Match(1, lines("Los Angeles Lakers", "-5 -110"))
	if len(res.Picks) != 1 || res.Picks[0].PickText != "Los Angeles Lakers -5" {
		t.Fatalf("expected stitched spread, got %#v", res.Picks)
	}
	if res.Picks[0].OddsAmerican == nil || *res.Picks[0].OddsAmerican != -110 {
		t.Fatalf("expected odds -110, got %v", res.Picks[0].OddsAmerican)
	}
}

func TestMatchTooLong(t *testing.T) {
	t.Parallel()

	res := New(Options{MaxLines: 2}).Match(1, lines("Lakers -5", "Celtics ML", "Over 210", "Knicks +3"))
	if !res.TooLong {
		t.Fatalf("expected message to be flagged too long")
	}
	if len(res.Picks) != 0 {
		t.Fatalf("expected no picks for too-long message, got %d", len(res.Picks))
	}
}

func TestMatchSkipsLinksAndBullets(t *testing.T) {
	t.Parallel()

	res := New(Options{}).Match(1, lines("https://example.com/slip", "1. Lakers -5", "\u2022 Celtics ML"))
	if len(res.Picks) != 2 {
		t.Fatalf("expected two picks, got %#v", res.Picks)
	}
	if res.Picks[0].PickText != "Lakers -5" || res.Picks[1].PickText != "Celtics ML" {
		t.Fatalf("unexpected pick texts: %q, %q", res.Picks[0].PickText, res.Picks[1].PickText)
	}
}

func TestMatchUsesMessageHype(t *testing.T) {
	t.Parallel()

	m := New(Options{})

	whale := m.Match(1, normalize.Result{Lines: []string{"Bills -3"}, Hype: []string{"whale play"}})
	if len(whale.Picks) != 1 || whale.Picks[0].Unit == nil || *whale.Picks[0].Unit != 5 {
		t.Fatalf("expected whale unit, got %#v", whale.Picks)
	}

	pod := m.Match(1, normalize.Result{Lines: []string{"Bills -3"}, Hype: []string{"potd"}})
	if len(pod.Picks) != 1 || pod.Picks[0].Unit == nil || *pod.Picks[0].Unit != 3 {
		t.Fatalf("expected play-of-the-day unit, got %#v", pod.Picks)
	}

	plain := m.Match(1, lines("Bills -3"))
	if plain.Picks[0].Unit != nil {
		t.Fatalf("unit must stay unset without a label, got %v", *plain.Picks[0].Unit)
	}
}

func TestMatchNoPickIsEmpty(t *testing.T) {
	t.Parallel()

	res := New(Options{}).Match(1, lines("good morning everyone", "tailing today"))
	if res.Picks == nil || len(res.Picks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", res.Picks)
	}
}

func TestExtractUnitHintsAreWholeWords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		trailer string
		want    *float64
	}{
		{trailer: "max", want: pick.Float(5)},
		{trailer: "WHALE play", want: pick.Float(5)},
		{trailer: "(POTD)", want: pick.Float(3)},
		{trailer: "play of the day", want: pick.Float(3)},
		{trailer: "Maxey", want: nil},
		{trailer: "Podz parlay leg", want: nil},
		{trailer: "maximum", want: nil},
	}
	for _, tc := range cases {
		got := extractUnit(tc.trailer, normalize.Result{})
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%q: unexpected unit (-want +got):\n%s", tc.trailer, diff)
		}
	}
}

package gate

import (
	"testing"

	"github.com/Ducky705/Live-Pick-Scraper/internal/matcher"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

func result(picks ...pick.ExtractedPick) matcher.Result {
	return matcher.Result{Picks: picks, Lines: len(picks)}
}

func spread(text string) pick.ExtractedPick {
	return pick.ExtractedPick{BetType: string(pick.BetSpread), PickText: text}
}

func TestEvaluateRejectsEmptyAndTooLong(t *testing.T) {
	t.Parallel()

	g := New(0)
	if d := g.Evaluate(result()); d.Accept || d.Reason != ReasonNoPicks {
		t.Fatalf("expected no_picks rejection, got %+v", d)
	}
	if d := g.Evaluate(matcher.Result{TooLong: true, Lines: 9}); d.Accept || d.Reason != ReasonTooLong {
		t.Fatalf("expected too_long rejection, got %+v", d)
	}
}

func TestEvaluateSubjects(t *testing.T) {
	t.Parallel()

	g := New(0)
	cases := []struct {
		text   string
		accept bool
	}{
		{text: "Cowboys -7.5", accept: true},
		{text: "Los Angeles Lakers -5", accept: true},
		{text: "Lakerz -5", accept: true},
		{text: "Bama -14", accept: true},
		{text: "Boise St. -3", accept: true},
		{text: "Kent State +6.5", accept: true},
		{text: "Carlos Alcaraz ML", accept: true},
		{text: "Chiefs PK", accept: true},
		{text: "Bet -110", accept: false},
		{text: "Free Play -3", accept: false},
		{text: "Zxqv ML", accept: false},
		{text: "units +2", accept: false},
	}
	for _, tc := range cases {
		betType := pick.BetSpread
		if len(tc.text) > 3 && tc.text[len(tc.text)-3:] == " ML" {
			betType = pick.BetMoneyline
		}
		d := g.Evaluate(result(pick.ExtractedPick{BetType: string(betType), PickText: tc.text}))
		if d.Accept != tc.accept {
			t.Fatalf("%q: expected accept=%v, got %+v", tc.text, tc.accept, d)
		}
	}
}

func TestEvaluateIgnoresTotalsAndProps(t *testing.T) {
	t.Parallel()

	d := New(0).Evaluate(result(
		pick.ExtractedPick{BetType: string(pick.BetTotal), PickText: "Over 44.5"},
		pick.ExtractedPick{BetType: string(pick.BetPlayerProp), PickText: "Baker Under 1.5"},
	))
	if !d.Accept {
		t.Fatalf("expected totals and props to pass, got %+v", d)
	}
}

func TestEvaluateOneWeakSubjectRejectsMessage(t *testing.T) {
	t.Parallel()

	d := New(0).Evaluate(result(spread("Cowboys -7.5"), spread("Lock -3")))
	if d.Accept || d.Reason != ReasonGenericSubject {
		t.Fatalf("expected generic subject rejection, got %+v", d)
	}
}

func TestSubject(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Lakers ML":      "Lakers",
		"Cowboys -7.5":   "Cowboys",
		"Chiefs PK":      "Chiefs",
		"Ohio State +10": "Ohio State",
	}
	for in, want := range cases {
		if got := Subject(in); got != want {
			t.Fatalf("Subject(%q): expected %q, got %q", in, want, got)
		}
	}
}

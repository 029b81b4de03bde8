package standardize

import (
	"regexp"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

var exactBetAliases = map[string]pick.BetType{
	"ML":               pick.BetMoneyline,
	"M/L":              pick.BetMoneyline,
	"MONEYLINE":        pick.BetMoneyline,
	"MONEY LINE":       pick.BetMoneyline,
	"H2H":              pick.BetMoneyline,
	"WIN":              pick.BetMoneyline,
	"SPREAD":           pick.BetSpread,
	"POINT SPREAD":     pick.BetSpread,
	"ATS":              pick.BetSpread,
	"RUN LINE":         pick.BetSpread,
	"RUNLINE":          pick.BetSpread,
	"PUCK LINE":        pick.BetSpread,
	"PUCKLINE":         pick.BetSpread,
	"HANDICAP":         pick.BetSpread,
	"TOTAL":            pick.BetTotal,
	"TOTALS":           pick.BetTotal,
	"O/U":              pick.BetTotal,
	"OVER/UNDER":       pick.BetTotal,
	"OVER":             pick.BetTotal,
	"UNDER":            pick.BetTotal,
	"PROP":             pick.BetPlayerProp,
	"PROPS":            pick.BetPlayerProp,
	"PLAYER PROPS":     pick.BetPlayerProp,
	"PRA":              pick.BetPlayerProp,
	"ATD":              pick.BetPlayerProp,
	"ANYTIME TD":       pick.BetPlayerProp,
	"TT":               pick.BetTeamProp,
	"TTO":              pick.BetTeamProp,
	"TTU":              pick.BetTeamProp,
	"TEAM TOTAL":       pick.BetTeamProp,
	"YRFI":             pick.BetGameProp,
	"NRFI":             pick.BetGameProp,
	"SGP":              pick.BetParlay,
	"SAME GAME PARLAY": pick.BetParlay,
	"FUTURES":          pick.BetFuture,
	"TO WIN":           pick.BetFuture,
	"OUTRIGHT":         pick.BetFuture,
	"1H":               pick.BetPeriod,
	"2H":               pick.BetPeriod,
	"1Q":               pick.BetPeriod,
	"2Q":               pick.BetPeriod,
	"3Q":               pick.BetPeriod,
	"4Q":               pick.BetPeriod,
	"1P":               pick.BetPeriod,
	"2P":               pick.BetPeriod,
	"3P":               pick.BetPeriod,
	"F5":               pick.BetPeriod,
	"HALF":             pick.BetPeriod,
	"QUARTER":          pick.BetPeriod,
	"FIRST HALF":       pick.BetPeriod,
}

// betSubstrings are word-bounded aliases tried in order when no exact alias
// matches. More specific phrases come first: "TEAM PROP" before "PROP".
var betSubstrings = []struct {
	alias   string
	betType pick.BetType
}{
	{"TEAM PROP", pick.BetTeamProp},
	{"TEAM TOTAL", pick.BetTeamProp},
	{"GAME PROP", pick.BetGameProp},
	{"PLAYER PROP", pick.BetPlayerProp},
	{"SAME GAME PARLAY", pick.BetParlay},
	{"MONEYLINE", pick.BetMoneyline},
	{"MONEY LINE", pick.BetMoneyline},
	{"POINT SPREAD", pick.BetSpread},
	{"RUN LINE", pick.BetSpread},
	{"PUCK LINE", pick.BetSpread},
	{"SPREAD", pick.BetSpread},
	{"HANDICAP", pick.BetSpread},
	{"OVER/UNDER", pick.BetTotal},
	{"TOTAL", pick.BetTotal},
	{"ANYTIME TD", pick.BetPlayerProp},
	{"PROP", pick.BetPlayerProp},
	{"PARLAY", pick.BetParlay},
	{"SGP", pick.BetParlay},
	{"TEASER", pick.BetTeaser},
	{"OUTRIGHT", pick.BetFuture},
	{"TO WIN", pick.BetFuture},
	{"FUTURE", pick.BetFuture},
	{"FIRST HALF", pick.BetPeriod},
	{"1H", pick.BetPeriod},
	{"2H", pick.BetPeriod},
	{"1Q", pick.BetPeriod},
	{"QUARTER", pick.BetPeriod},
	{"HALF", pick.BetPeriod},
	{"PERIOD", pick.BetPeriod},
	{"ML", pick.BetMoneyline},
	{"ATS", pick.BetSpread},
	{"O/U", pick.BetTotal},
	{"TT", pick.BetTeamProp},
	{"YRFI", pick.BetGameProp},
	{"NRFI", pick.BetGameProp},
}

var betSubstringRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(betSubstrings))
	for i, entry := range betSubstrings {
		out[i] = regexp.MustCompile(`(?:^|[^A-Z0-9])` + regexp.QuoteMeta(entry.alias) + `(?:$|[^A-Z0-9])`)
	}
	return out
}()

// StandardizeBetType maps a bet-type token to the canonical enumeration. It is
// idempotent: canonical names map to themselves.
func StandardizeBetType(token string) pick.BetType {
	key := strings.ToUpper(strings.Join(strings.Fields(token), " "))
	key = strings.Trim(key, "()[]{}:;-|*#.,! ")
	if key == "" {
		return pick.BetUnknown
	}

	for _, bt := range pick.BetTypes() {
		if key == strings.ToUpper(string(bt)) {
			return bt
		}
	}
	if bt, ok := exactBetAliases[key]; ok {
		return bt
	}
	for i, re := range betSubstringRes {
		if re.MatchString(key) {
			return betSubstrings[i].betType
		}
	}
	return pick.BetUnknown
}

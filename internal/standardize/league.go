// Package standardize maps free-text league, bet-type and pick tokens onto the
// canonical vocabulary. Every function here is pure.
package standardize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

var exactLeagues = map[string]pick.League{
	"NFL":                             pick.LeagueNFL,
	"NATIONAL FOOTBALL LEAGUE":        pick.LeagueNFL,
	"PRO FOOTBALL":                    pick.LeagueNFL,
	"NCAAF":                           pick.LeagueNCAAF,
	"NCAAFB":                          pick.LeagueNCAAF,
	"CFB":                             pick.LeagueNCAAF,
	"NBA":                             pick.LeagueNBA,
	"NATIONAL BASKETBALL ASSOCIATION": pick.LeagueNBA,
	"NCAAB":                           pick.LeagueNCAAB,
	"NCAAM":                           pick.LeagueNCAAB,
	"NCAABB":                          pick.LeagueNCAAB,
	"CBB":                             pick.LeagueNCAAB,
	"CBK":                             pick.LeagueNCAAB,
	"WNBA":                            pick.LeagueWNBA,
	"MLB":                             pick.LeagueMLB,
	"MAJOR LEAGUE BASEBALL":           pick.LeagueMLB,
	"BASEBALL":                        pick.LeagueMLB,
	"NHL":                             pick.LeagueNHL,
	"NATIONAL HOCKEY LEAGUE":          pick.LeagueNHL,
	"HOCKEY":                          pick.LeagueNHL,
	"EPL":                             pick.LeagueEPL,
	"ENGLISH PREMIER LEAGUE":          pick.LeagueEPL,
	"MLS":                             pick.LeagueMLS,
	"MAJOR LEAGUE SOCCER":             pick.LeagueMLS,
	"UCL":                             pick.LeagueUCL,
	"UEFA":                            pick.LeagueUCL,
	"UFC":                             pick.LeagueUFC,
	"PGA":                             pick.LeaguePGA,
	"TENNIS":                          pick.LeagueTennis,
	"F1":                              pick.LeagueF1,
}

// leagueAliases are substring aliases checked in order after the exact table.
var leagueAliases = []struct {
	substr string
	league pick.League
}{
	{"NCAA FOOTBALL", pick.LeagueNCAAF},
	{"COLLEGE FOOTBALL", pick.LeagueNCAAF},
	{"NCAA BASKETBALL", pick.LeagueNCAAB},
	{"COLLEGE BASKETBALL", pick.LeagueNCAAB},
	{"COLLEGE HOOPS", pick.LeagueNCAAB},
	{"MARCH MADNESS", pick.LeagueNCAAB},
	{"PREMIER LEAGUE", pick.LeagueEPL},
	{"CHAMPIONS LEAGUE", pick.LeagueUCL},
	{"LA LIGA", pick.LeagueUCL},
	{"BUNDESLIGA", pick.LeagueUCL},
	{"SERIE A", pick.LeagueUCL},
	{"LIGUE 1", pick.LeagueUCL},
	{"EURO SOCCER", pick.LeagueUCL},
	{"MMA", pick.LeagueUFC},
	{"FIGHTING", pick.LeagueUFC},
	{"BOXING", pick.LeagueUFC},
	{"KBO", pick.LeagueMLB},
	{"NPB", pick.LeagueMLB},
	{"FORMULA 1", pick.LeagueF1},
	{"FORMULA ONE", pick.LeagueF1},
	{"PGA TOUR", pick.LeaguePGA},
	{"GOLF", pick.LeaguePGA},
	{"ATP", pick.LeagueTennis},
	{"WTA", pick.LeagueTennis},
}

var leagueTrim = "()[]{}:;-|*#.,!"

// StandardizeLeague maps a league token to its canonical code, or Other.
func StandardizeLeague(token string) pick.League {
	key := leagueKey(token)
	if key == "" {
		return pick.LeagueOther
	}
	if league, ok := exactLeagues[key]; ok {
		return league
	}
	if strings.EqualFold(key, string(pick.LeagueOther)) {
		return pick.LeagueOther
	}
	for _, alias := range leagueAliases {
		if strings.Contains(key, alias.substr) {
			return alias.league
		}
	}
	// "NFL WEEK 5", "NBA PLAYOFFS"
	for _, word := range strings.Fields(key) {
		if league, ok := exactLeagues[strings.Trim(word, leagueTrim)]; ok && len(word) <= 5 {
			return league
		}
	}
	return pick.LeagueOther
}

// LeagueHeader reports whether a whole line is only a league marker such as
// "(NFL)", "NBA:" or "[College Football]".
func LeagueHeader(line string) (pick.League, bool) {
	key := leagueKey(line)
	if key == "" || len(key) > 24 {
		return pick.LeagueOther, false
	}
	if league, ok := exactLeagues[key]; ok {
		return league, true
	}
	for _, alias := range leagueAliases {
		if key == alias.substr {
			return alias.league, true
		}
	}
	return pick.LeagueOther, false
}

func leagueKey(token string) string {
	upper := strings.ToUpper(strings.Join(strings.Fields(token), " "))
	return strings.TrimSpace(strings.Trim(upper, leagueTrim+" "))
}

var (
	inferOnce    sync.Once
	inferMatcher []struct {
		league pick.League
		re     *regexp.Regexp
	}
)

// InferLeague scans text for roster keywords, league by league in a fixed
// order, and returns the first league with a word-boundary hit.
func InferLeague(text string) pick.League {
	if strings.TrimSpace(text) == "" {
		return pick.LeagueOther
	}
	inferOnce.Do(compileInference)
	for _, m := range inferMatcher {
		if m.re.MatchString(text) {
			return m.league
		}
	}
	return pick.LeagueOther
}

func compileInference() {
	for _, league := range inferenceOrder {
		words := leagueKeywords[league]
		parts := make([]string, 0, len(words))
		for _, word := range words {
			parts = append(parts, regexp.QuoteMeta(word))
		}
		inferMatcher = append(inferMatcher, struct {
			league pick.League
			re     *regexp.Regexp
		}{
			league: league,
			re:     regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`),
		})
	}
}

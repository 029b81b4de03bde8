// Package gate decides whether pattern-matcher output can be trusted or the
// message must go to the fallback extractor.
package gate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/Ducky705/Live-Pick-Scraper/internal/matcher"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/standardize"
)

const DefaultTeamSimilarity = 0.92

const (
	ReasonAccepted       = "accepted"
	ReasonNoPicks        = "no_picks"
	ReasonTooLong        = "too_long"
	ReasonWeakSubject    = "implausible_subject"
	ReasonGenericSubject = "generic_subject"
)

// Decision is the gate verdict for one message.
type Decision struct {
	Accept bool
	Reason string
}

var genericWords = map[string]struct{}{
	"bet":     {},
	"bets":    {},
	"play":    {},
	"plays":   {},
	"pick":    {},
	"picks":   {},
	"today":   {},
	"tonight": {},
	"lock":    {},
	"locks":   {},
	"unit":    {},
	"units":   {},
	"payout":  {},
	"wager":   {},
	"odds":    {},
	"free":    {},
	"vip":     {},
	"slip":    {},
	"parlay":  {},
	"risk":    {},
}

var (
	institutionRe = regexp.MustCompile(`(?i)\b(?:state|university|univ|college|tech|a&m)\b|\bst\.`)
	personRe      = regexp.MustCompile(`^[A-Z][a-zA-Z'.-]+(?:\s+[A-Z][a-zA-Z'.-]+)+$`)
	spreadTailRe  = regexp.MustCompile(`\s+(?:[+-]\d+(?:\.\d+)?|PK)$`)
	mlTailRe      = regexp.MustCompile(`\s+ML$`)
)

type Gate struct {
	threshold float64

	once   sync.Once
	tokens []string
	full   map[string]struct{}
	jw     *metrics.JaroWinkler
}

func New(threshold float64) *Gate {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultTeamSimilarity
	}
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false
	return &Gate{threshold: threshold, jw: jw}
}

// Evaluate accepts matcher output only when it found picks on a short message
// and every spread or moneyline names something that looks like a team or
// player.
func (g *Gate) Evaluate(res matcher.Result) Decision {
	if res.TooLong {
		return Decision{Reason: ReasonTooLong}
	}
	if len(res.Picks) == 0 {
		return Decision{Reason: ReasonNoPicks}
	}
	for _, p := range res.Picks {
		betType := pick.BetType(p.BetType)
		if betType != pick.BetSpread && betType != pick.BetMoneyline {
			continue
		}
		subject := Subject(p.PickText)
		if isGeneric(subject) {
			return Decision{Reason: ReasonGenericSubject}
		}
		if !g.Plausible(subject) {
			return Decision{Reason: ReasonWeakSubject}
		}
	}
	return Decision{Accept: true, Reason: ReasonAccepted}
}

// Subject strips the line or ML suffix from a matcher pick text.
func Subject(pickText string) string {
	s := strings.TrimSpace(pickText)
	s = mlTailRe.ReplaceAllString(s, "")
	s = spreadTailRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Plausible reports whether subject reads as a team, school or person.
func (g *Gate) Plausible(subject string) bool {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return false
	}
	g.once.Do(g.loadTeams)

	if _, ok := g.full[strings.ToLower(subject)]; ok {
		return true
	}
	if institutionRe.MatchString(subject) {
		return true
	}
	for _, word := range strings.Fields(subject) {
		if standardize.IsNickname(word) {
			return true
		}
		if g.teamToken(word) {
			return true
		}
	}
	return personRe.MatchString(subject)
}

func (g *Gate) teamToken(word string) bool {
	word = strings.Trim(word, ".,:;()'\"")
	if len(word) < 3 {
		return false
	}
	for _, token := range g.tokens {
		if strutil.Similarity(word, token, g.jw) >= g.threshold {
			return true
		}
	}
	return false
}

func (g *Gate) loadTeams() {
	names := standardize.KnownTeamNames()
	g.full = make(map[string]struct{}, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		g.full[strings.ToLower(name)] = struct{}{}
		for _, token := range strings.Fields(name) {
			key := strings.ToLower(token)
			if len(key) < 3 {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			g.tokens = append(g.tokens, token)
		}
	}
}

func isGeneric(subject string) bool {
	words := strings.Fields(strings.ToLower(subject))
	if len(words) == 0 {
		return true
	}
	for _, word := range words {
		if _, ok := genericWords[strings.Trim(word, ".,:;!?'\"")]; ok {
			return true
		}
	}
	return false
}

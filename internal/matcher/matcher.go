// Package matcher turns normalized message lines into picks with an ordered
// table of line rules. Messages the rules cannot cover are flagged for the
// fallback extractor.
package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/normalize"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/standardize"
)

const (
	DefaultMaxLines = 4
	maxLineLength   = 100

	maxUnit  = 5.0
	podUnit  = 3.0
	unitCeil = 100
)

type Options struct {
	MaxLines int
}

// Result is the matcher output for one message.
type Result struct {
	Picks []pick.ExtractedPick
	// TooLong marks messages with more structural lines than MaxLines.
	TooLong bool
	Lines   int
}

type Matcher struct {
	maxLines int
	rules    []rule
}

var (
	urlRe      = regexp.MustCompile(`(?i)https?://|www\.`)
	bulletRe   = regexp.MustCompile(`^(?:[-*>\x{2022}\x{00b7}]+|\d{1,2}[.)]|#\d+[.):]?)\s+`)
	stitchRe   = regexp.MustCompile(`(?i)^(?:[-+]\d|ml\b|m/l\b|over\b|under\b|o\d|u\d|pk\b)`)
	unitRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:u|units?|stars?)\b`)
	parenNumRe = regexp.MustCompile(`\((\d+(?:\.\d+)?)\)\s*$`)
	oddsRe     = regexp.MustCompile(`(?:^|[\s(])([+-]?\d{3,})(?:$|[\s)])`)
	maxHintRe  = regexp.MustCompile(`(?i)\b(?:max|whale)\b`)
	podHintRe  = regexp.MustCompile(`(?i)\b(?:potd|pod|play of the day)\b`)
)

func New(opts Options) *Matcher {
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultMaxLines
	}
	return &Matcher{maxLines: opts.MaxLines, rules: rules}
}

// Match runs the rule table over every structural line. It never returns an
// error; no picks is an empty slice.
func (m *Matcher) Match(messageID int64, in normalize.Result) Result {
	lines := prepareLines(in.Lines)

	type structural struct {
		text   string
		league pick.League
	}
	var (
		current = pick.LeagueOther
		body    []structural
	)
	for _, line := range lines {
		if league, ok := standardize.LeagueHeader(line); ok {
			current = league
			continue
		}
		body = append(body, structural{text: line, league: current})
	}

	out := Result{Picks: []pick.ExtractedPick{}, Lines: len(body)}
	if len(body) > m.maxLines {
		out.TooLong = true
		return out
	}

	for _, line := range body {
		for _, r := range m.rules {
			if !r.applies(line.text) {
				continue
			}
			ext, ok := r.extract(line.text)
			if !ok {
				continue
			}
			odds := ext.odds
			if odds == nil {
				odds = extractOdds(ext.trailer)
			}
			out.Picks = append(out.Picks, pick.ExtractedPick{
				SourceMessageID: messageID,
				League:          string(line.league),
				BetType:         string(r.betType),
				PickText:        ext.pickText,
				Unit:            extractUnit(ext.trailer, in),
				OddsAmerican:    odds,
				Extractor:       pick.ExtractorRules,
			})
			break
		}
	}
	return out
}

// prepareLines drops links and overlong lines, strips list markers, and joins
// a bare subject line with a following line that starts with the bet signal.
func prepareLines(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxLineLength || urlRe.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}

	out := make([]string, 0, len(cleaned))
	for i := 0; i < len(cleaned); i++ {
		line := cleaned[i]
		if i+1 < len(cleaned) && canStitch(line, cleaned[i+1]) {
			out = append(out, line+" "+cleaned[i+1])
			i++
			continue
		}
		out = append(out, line)
	}
	return out
}

func canStitch(current, next string) bool {
	if stitchRe.MatchString(current) || !stitchRe.MatchString(next) {
		return false
	}
	if normalize.IsBetShaped(current) {
		return false
	}
	_, header := standardize.LeagueHeader(current)
	return !header
}

// extractUnit prefers an explicit label, then hype in the trailer or message.
// A missing unit stays nil.
func extractUnit(trailer string, in normalize.Result) *float64 {
	if m := unitRe.FindStringSubmatch(trailer); m != nil {
		if unit := pick.ParseUnit(m[1]); unit != nil {
			return unit
		}
	}
	if m := parenNumRe.FindStringSubmatch(trailer); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v < unitCeil {
			return pick.SanitizeUnit(v)
		}
	}

	switch {
	case maxHintRe.MatchString(trailer):
		return pick.Float(maxUnit)
	case podHintRe.MatchString(trailer):
		return pick.Float(podUnit)
	}

	for _, term := range in.Hype {
		if maxHintRe.MatchString(term) {
			return pick.Float(maxUnit)
		}
	}
	if in.HasHype("pod", "potd", "play of the day") {
		return pick.Float(podUnit)
	}
	return nil
}

func extractOdds(trailer string) *int {
	for _, m := range oddsRe.FindAllStringSubmatch(trailer, -1) {
		if odds := pick.ParseOdds(m[1]); odds != nil {
			return odds
		}
	}
	return nil
}

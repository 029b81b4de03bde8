package identity

import (
	"regexp"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/normalize"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/standardize"
)

const (
	UnknownAuthor     = "Unknown Capper"
	maxAuthorLineSize = 30
)

// promoPhrases are channel and header phrases that never name a capper.
var promoPhrases = []string{
	"free cappers picks", "capper network", "capper picks", "cappers free", "cappersfree",
	"free picks", "daily picks", "best bets", "pick central", "bet tips", "betting tips",
	"sports picks", "winners only", "pro picks", "the capper", "official", "vip", "bonus", "promo",
}

var (
	promoRe       = phraseRegexp(promoPhrases)
	genericWordRe = regexp.MustCompile(`(?i)\b(?:free|cappers?|picks|locks|betting|official)\b`)
	hypeLineRe    = regexp.MustCompile(`(?i)^\W*(?:whale play|max bet|max play|lock of the day|play of the day|potd|vip pick|free pick|system play|guaranteed)\W*$`)
)

// Author is the capper named by a message and the text left for extraction.
type Author struct {
	Name string
	Body string
}

// AuthorExtractor picks the capper name for messages, reading it from the
// first text line on aggregator channels.
type AuthorExtractor struct {
	aggregators map[string]struct{}
}

func NewAuthorExtractor(aggregatorChannels []string) *AuthorExtractor {
	set := make(map[string]struct{}, len(aggregatorChannels))
	for _, channel := range aggregatorChannels {
		if k := strings.ToLower(strings.TrimSpace(channel)); k != "" {
			set[k] = struct{}{}
		}
	}
	return &AuthorExtractor{aggregators: set}
}

// IsAggregator reports whether a channel reposts picks from many cappers.
func (a *AuthorExtractor) IsAggregator(channel string) bool {
	k := strings.ToLower(strings.TrimSpace(channel))
	if k == "" {
		return false
	}
	if _, ok := a.aggregators[k]; ok {
		return true
	}
	return strings.Contains(k, "cappers")
}

// Extract returns the author and the message body with any author line
// removed. The message is not modified.
func (a *AuthorExtractor) Extract(msg pick.RawMessage) Author {
	body := msg.FullText()
	fallback := channelFallback(msg.ChannelName)
	if !a.IsAggregator(msg.ChannelName) {
		name := strings.TrimSpace(msg.AuthorDisplayName)
		if name == "" {
			name = fallback
		}
		return Author{Name: name, Body: body}
	}

	lines := strings.Split(strings.TrimSpace(msg.Text), "\n")
	var nonEmpty []int
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, i)
		}
		if len(nonEmpty) == 2 {
			break
		}
	}
	if len(nonEmpty) == 0 {
		return Author{Name: fallback, Body: body}
	}

	first := lines[nonEmpty[0]]
	if hypeLineRe.MatchString(strings.TrimSpace(normalize.Fold(first))) {
		return Author{Name: fallback, Body: body}
	}
	if name, ok := authorLine(first); ok {
		return Author{Name: name, Body: withoutLine(msg, lines, nonEmpty[0])}
	}
	if len(nonEmpty) > 1 {
		second := lines[nonEmpty[1]]
		if name, ok := authorLine(second); ok && len([]rune(name)) < maxAuthorLineSize {
			return Author{Name: name, Body: withoutLine(msg, lines, nonEmpty[1])}
		}
	}
	return Author{Name: fallback, Body: body}
}

// authorLine reports whether line can name a capper and returns the cleaned
// name.
func authorLine(line string) (string, bool) {
	line = strings.TrimSpace(normalize.Fold(line))
	if strings.HasPrefix(line, "@") {
		line = strings.TrimPrefix(line, "@")
	}
	if line == "" || normalize.IsBetShaped(line) {
		return "", false
	}
	if _, header := standardize.LeagueHeader(line); header {
		return "", false
	}
	name := StripPromo(line)
	if Validate(Clean(name)) != nil {
		return "", false
	}
	return Clean(name), true
}

// StripPromo removes promotional phrases from a name ("Gold Boys Free Picks"
// becomes "Gold Boys").
func StripPromo(name string) string {
	if promoRe != nil {
		name = promoRe.ReplaceAllString(name, " ")
	}
	return strings.Join(strings.Fields(name), " ")
}

func channelFallback(channel string) string {
	name := StripPromo(normalize.Fold(channel))
	if strings.Contains(strings.ToLower(name), "cappers") {
		return UnknownAuthor
	}
	name = strings.Join(strings.Fields(genericWordRe.ReplaceAllString(name, " ")), " ")
	cleaned := Clean(name)
	if Validate(cleaned) != nil {
		return UnknownAuthor
	}
	return cleaned
}

func withoutLine(msg pick.RawMessage, lines []string, drop int) string {
	kept := make([]string, 0, len(lines)-1)
	for i, line := range lines {
		if i != drop {
			kept = append(kept, line)
		}
	}
	stripped := msg
	stripped.Text = strings.Join(kept, "\n")
	return stripped.FullText()
}

func phraseRegexp(phrases []string) *regexp.Regexp {
	parts := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		words := strings.Fields(phrase)
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		parts = append(parts, strings.Join(words, `\s+`))
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}

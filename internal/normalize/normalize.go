// Package normalize cleans chat and OCR text into candidate pick lines.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultMinLineLength       = 3
	DefaultMinAlnumRatio       = 0.5
	DefaultSimilarityThreshold = 0.85
)

// DefaultNoiseLexicon is sportsbook and chat UI chrome that never carries a pick.
var DefaultNoiseLexicon = []string{
	"deposit", "balance", "bet slip", "betslip", "payout", "potential payout", "potential win",
	"to win", "to pay", "wager", "cash out", "cashout", "my bets", "bet placed", "odds boost",
	"parlay insurance", "share", "copied", "login", "log in", "sign up", "promo code",
	"withdraw", "account", "place bet", "bet id", "ticket", "receipt", "ocr text",
	"join now", "subscribe", "link in bio", "dm for", "tap to", "open bets", "settled",
}

// DefaultHypeTerms are marketing phrases removed from lines.
var DefaultHypeTerms = []string{
	"max bet", "max play", "whale play", "lock of the day", "lock of the week", "guaranteed",
	"bomb", "nuke", "system play", "vip pick", "vip play", "free pick", "free play", "bonus",
	"promo", "hammer", "play of the day", "potd", "pod", "bankroll", "investment", "insider",
	"whale", "lock it in", "best bet",
}

// LanguageDetector reports lines that are confidently not English.
type LanguageDetector interface {
	IsForeign(line string) bool
}

type Options struct {
	MinLineLength       int
	MinAlnumRatio       float64
	SimilarityThreshold float64
	NoiseLexicon        []string
	HypeTerms           []string
	Language            LanguageDetector
}

// Result is the cleaned, line-oriented view of one message.
type Result struct {
	Lines []string
	// Hype holds the lower-cased hype terms removed from the text, first
	// occurrence order.
	Hype []string
}

func (r Result) HasHype(terms ...string) bool {
	for _, have := range r.Hype {
		for _, want := range terms {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Normalizer struct {
	opts       Options
	noise      *regexp.Regexp
	hype       *regexp.Regexp
	similarity *metrics.Levenshtein
}

var (
	betShapedRe = regexp.MustCompile(`(?i)(?:^|[\s(])[+-]\d+(?:\.\d+)?\b|\b(?:o|u|over|under)\s*\d+(?:\.\d+)?\b|\bml\b|\b(?:pk|pick'?em)\b|[+-]\d{3,}`)
	numberRe    = regexp.MustCompile(`\d+(?:\.\d+)?`)
	spaceRe     = regexp.MustCompile(`[ \t\f\v]+`)

	foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	glyphReplacer = strings.NewReplacer(
		"\u00bd", ".5",
		"\u2212", "-",
		"\u2013", "-",
		"\u2014", "-",
		"\u2018", "'",
		"\u2019", "'",
		"\u201c", "\"",
		"\u201d", "\"",
		"\r\n", "\n",
		"\r", "\n",
	)
)

func New(opts Options) *Normalizer {
	if opts.MinLineLength <= 0 {
		opts.MinLineLength = DefaultMinLineLength
	}
	if opts.MinAlnumRatio <= 0 {
		opts.MinAlnumRatio = DefaultMinAlnumRatio
	}
	if opts.SimilarityThreshold <= 0 || opts.SimilarityThreshold > 1 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if opts.NoiseLexicon == nil {
		opts.NoiseLexicon = DefaultNoiseLexicon
	}
	if opts.HypeTerms == nil {
		opts.HypeTerms = DefaultHypeTerms
	}

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false

	return &Normalizer{
		opts:       opts,
		noise:      lexiconRegexp(opts.NoiseLexicon),
		hype:       lexiconRegexp(opts.HypeTerms),
		similarity: lev,
	}
}

// Normalize is pure: the same text always yields the same Result.
func (n *Normalizer) Normalize(text string) Result {
	folded := Fold(text)

	var (
		out      Result
		seenHype = map[string]struct{}{}
		previous string
	)
	for _, raw := range strings.Split(folded, "\n") {
		line := n.stripHype(raw, &out, seenHype)
		line = collapseSpace(line)
		if len([]rune(line)) < n.opts.MinLineLength {
			continue
		}

		betShaped := IsBetShaped(line)
		if !betShaped {
			if n.noise != nil && n.noise.MatchString(line) {
				continue
			}
			if alnumRatio(line) < n.opts.MinAlnumRatio {
				continue
			}
			if n.opts.Language != nil && n.opts.Language.IsForeign(line) {
				continue
			}
		}

		if previous != "" && n.nearDuplicate(previous, line) {
			continue
		}
		out.Lines = append(out.Lines, line)
		previous = line
	}
	return out
}

// Fold applies compatibility decomposition, drops combining marks, symbols
// and control runes, and maps typographic punctuation to ASCII.
func Fold(text string) string {
	replaced := glyphReplacer.Replace(text)
	folded, _, err := transform.String(foldTransformer, replaced)
	if err != nil {
		folded = replaced
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\ufeff':
			return -1
		case unicode.IsControl(r):
			return -1
		case unicode.In(r, unicode.So, unicode.Sk, unicode.Cs, unicode.Co):
			return -1
		case unicode.Is(unicode.Variation_Selector, r):
			return -1
		default:
			return r
		}
	}, folded)
}

// IsBetShaped reports whether line carries an odds, total, or spread token.
func IsBetShaped(line string) bool {
	return betShapedRe.MatchString(line)
}

func (n *Normalizer) stripHype(line string, out *Result, seen map[string]struct{}) string {
	if n.hype == nil {
		return line
	}
	stripped := n.hype.ReplaceAllStringFunc(line, func(match string) string {
		term := strings.ToLower(collapseSpace(match))
		if _, ok := seen[term]; !ok {
			seen[term] = struct{}{}
			out.Hype = append(out.Hype, term)
		}
		return " "
	})
	if stripped == line {
		return line
	}
	return strings.Trim(stripped, " \t:|*!~.,")
}

// nearDuplicate treats two lines as the same OCR pass only when their numeric
// tokens agree; OCR mangles letters, not the numbers that carry the pick.
func (n *Normalizer) nearDuplicate(a, b string) bool {
	if !sameNumbers(a, b) {
		return false
	}
	return strutil.Similarity(a, b, n.similarity) >= n.opts.SimilarityThreshold
}

func sameNumbers(a, b string) bool {
	left := numberRe.FindAllString(a, -1)
	right := numberRe.FindAllString(b, -1)
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func alnumRatio(line string) float64 {
	total, alnum := 0, 0
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// lexiconRegexp builds a case-insensitive, word-bounded alternation with the
// longest terms first so "max bet" wins over "max".
func lexiconRegexp(terms []string) *regexp.Regexp {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		cleaned = append(cleaned, term)
	}
	if len(cleaned) == 0 {
		return nil
	}
	sort.SliceStable(cleaned, func(i, j int) bool {
		return len(cleaned[i]) > len(cleaned[j])
	})

	parts := make([]string, 0, len(cleaned))
	for _, term := range cleaned {
		words := strings.Fields(term)
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		parts = append(parts, strings.Join(words, `\s*`))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}

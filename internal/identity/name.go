package identity

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Ducky705/Live-Pick-Scraper/internal/normalize"
)

var (
	ErrInvalidName      = errors.New("invalid identity name")
	ErrIdentityConflict = errors.New("identity already exists")
)

const minNameLength = 3

// aliases maps cleaned, lower-cased names to the canonical spelling.
var aliases = map[string]string{
	"big al":          "Al McMordie",
	"the big al":      "Al McMordie",
	"big al mcmordie": "Al McMordie",
	"al mcmordie":     "Al McMordie",
	"al mc mordie":    "Al McMordie",
}

var (
	oddsLikeRe   = regexp.MustCompile(`^[+-]?\d{3,}$`)
	matchupRe    = regexp.MustCompile(`(?i)\s(?:vs\.?|v\.)\s|\S\s*@\s*\S|[A-Za-z]\s*/\s*[A-Za-z]`)
	mcPrefixRe   = regexp.MustCompile(`\bMc([a-z])`)
	apostropheRe = regexp.MustCompile(`\b([A-Z])'([a-z])`)
)

// Clean folds name to Latin letters, digits and a few separators, collapses
// whitespace and title-cases the result.
func Clean(name string) string {
	folded := normalize.Fold(name)
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) && unicode.Is(unicode.Latin, r):
			return r
		case unicode.IsDigit(r):
			return r
		case r == ' ' || r == '\t' || r == '\n':
			return ' '
		case r == '.' || r == '\'' || r == '&' || r == '-':
			return r
		default:
			return ' '
		}
	}, folded)
	kept = strings.Join(strings.Fields(kept), " ")
	kept = strings.Trim(kept, " .'&-")
	if kept == "" {
		return ""
	}
	return titleCase(kept)
}

func titleCase(s string) string {
	// Casers carry state; one per call keeps Clean safe for concurrent use.
	out := cases.Title(language.English).String(s)
	out = mcPrefixRe.ReplaceAllStringFunc(out, func(m string) string {
		return "Mc" + strings.ToUpper(m[2:])
	})
	return apostropheRe.ReplaceAllStringFunc(out, func(m string) string {
		return m[:2] + strings.ToUpper(m[2:])
	})
}

// Canonical cleans, validates and applies the alias table.
func Canonical(raw string) (string, error) {
	if matchupRe.MatchString(raw) || oddsLikeRe.MatchString(strings.TrimSpace(raw)) {
		return "", ErrInvalidName
	}
	name := Clean(raw)
	if err := Validate(name); err != nil {
		return "", err
	}
	if alias, ok := aliases[key(name)]; ok {
		return alias, nil
	}
	return name, nil
}

// Validate rejects names that cannot identify a person or brand.
func Validate(name string) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < minNameLength {
		return ErrInvalidName
	}
	if oddsLikeRe.MatchString(trimmed) || matchupRe.MatchString(trimmed) {
		return ErrInvalidName
	}
	if !strings.ContainsFunc(trimmed, unicode.IsLetter) {
		return ErrInvalidName
	}
	return nil
}

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

package matcher

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// extraction is what a rule pulls out of one line.
type extraction struct {
	pickText string
	trailer  string
	odds     *int
}

type rule struct {
	name    string
	betType pick.BetType
	applies func(line string) bool
	extract func(line string) (extraction, bool)
}

var (
	leadTotalRe    = regexp.MustCompile(`(?i)^(o|over|u|under)\s*(\d+(?:\.\d+)?)(?:\s+(.*))?$`)
	matchupTotalRe = regexp.MustCompile(`(?i)^(.+?(?:\s*/\s*|\s+vs\.?\s+|\s+v\.?\s+|\s*@\s*).+?)\s+(o|over|u|under)\s*(\d+(?:\.\d+)?)(?:\s+(.*))?$`)
	matchupRe      = regexp.MustCompile(`(?i)\S\s*/\s*\S|\s(?:vs\.?|v\.)\s|\s?@\s?`)

	propOverRe    = regexp.MustCompile(`(?i)^(.+?)\s+(o|over|u|under)\s*(\d+(?:\.\d+)?)(?:\s+(.*))?$`)
	propPlusRe    = regexp.MustCompile(`(?i)^(.+?)\s+(\d+)\+\s*([a-z][a-z .']*?)(?:\s+([-+(\d].*))?$`)
	propAnytimeRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:anytime\s+td|anytime\s+touchdown|atd)\b(?:\s+(.*))?$`)

	moneylineTokRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:ml|m/l|moneyline)(?:\s+(.*))?$`)
	signedNumberRe = regexp.MustCompile(`^(.+?)\s+\(?([+-]\d+(?:\.\d+)?)\)?(?:\s+(.*))?$`)
	pickemRe       = regexp.MustCompile(`(?i)^(.+?)\s+(?:pk|pick'?em|pick|ev|even)(?:\s+(.*))?$`)

	statWordRe = regexp.MustCompile(`(?i)^[a-z][a-z.']*$`)
)

// rules are evaluated in order; the first rule that applies and extracts wins.
var rules = []rule{
	{name: "total", betType: pick.BetTotal, applies: looksLikeTotal, extract: extractTotal},
	{name: "player_prop", betType: pick.BetPlayerProp, applies: looksLikeProp, extract: extractProp},
	{name: "moneyline", betType: pick.BetMoneyline, applies: looksLikeMoneyline, extract: extractMoneyline},
	{name: "spread", betType: pick.BetSpread, applies: looksLikeSpread, extract: extractSpread},
}

func looksLikeTotal(line string) bool {
	return leadTotalRe.MatchString(line) || matchupTotalRe.MatchString(line)
}

func extractTotal(line string) (extraction, bool) {
	if m := leadTotalRe.FindStringSubmatch(line); m != nil {
		return extraction{pickText: direction(m[1]) + " " + m[2], trailer: m[3]}, true
	}
	m := matchupTotalRe.FindStringSubmatch(line)
	if m == nil {
		return extraction{}, false
	}
	subject := cleanSubject(m[1])
	if subject == "" {
		return extraction{}, false
	}
	return extraction{pickText: subject + " " + direction(m[2]) + " " + m[3], trailer: m[4]}, true
}

func looksLikeProp(line string) bool {
	return propAnytimeRe.MatchString(line) || propPlusRe.MatchString(line) || propOverRe.MatchString(line)
}

func extractProp(line string) (extraction, bool) {
	if m := propAnytimeRe.FindStringSubmatch(line); m != nil {
		subject := cleanSubject(m[1])
		if subject == "" || matchupRe.MatchString(subject) {
			return extraction{}, false
		}
		return extraction{pickText: subject + " Anytime TD", trailer: m[2]}, true
	}
	if m := propPlusRe.FindStringSubmatch(line); m != nil {
		subject := cleanSubject(m[1])
		stat := strings.TrimSpace(m[3])
		if subject != "" && stat != "" && !matchupRe.MatchString(subject) {
			return extraction{pickText: subject + " " + m[2] + "+ " + stat, trailer: m[4]}, true
		}
	}
	m := propOverRe.FindStringSubmatch(line)
	if m == nil {
		return extraction{}, false
	}
	subject := cleanSubject(m[1])
	if subject == "" || matchupRe.MatchString(subject) {
		return extraction{}, false
	}
	stat, trailer := splitStat(m[4])
	text := subject + " " + direction(m[2]) + " " + m[3]
	if stat != "" {
		text += " " + stat
	}
	return extraction{pickText: text, trailer: trailer}, true
}

func looksLikeMoneyline(line string) bool {
	if moneylineTokRe.MatchString(line) {
		return true
	}
	m := signedNumberRe.FindStringSubmatch(line)
	return m != nil && isOddsMagnitude(m[2])
}

func extractMoneyline(line string) (extraction, bool) {
	if m := moneylineTokRe.FindStringSubmatch(line); m != nil {
		subject := cleanSubject(m[1])
		if subject == "" {
			return extraction{}, false
		}
		return extraction{pickText: subject + " ML", trailer: m[2]}, true
	}
	m := signedNumberRe.FindStringSubmatch(line)
	if m == nil || !isOddsMagnitude(m[2]) {
		return extraction{}, false
	}
	subject := cleanSubject(m[1])
	if subject == "" {
		return extraction{}, false
	}
	out := extraction{pickText: subject + " ML", trailer: m[3]}
	if v, err := strconv.Atoi(m[2]); err == nil {
		out.odds = pick.SanitizeOdds(v)
	}
	return out, true
}

func looksLikeSpread(line string) bool {
	return signedNumberRe.MatchString(line) || pickemRe.MatchString(line)
}

func extractSpread(line string) (extraction, bool) {
	if m := signedNumberRe.FindStringSubmatch(line); m != nil {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil || math.Abs(value) >= pick.MinOdds {
			return extraction{}, false
		}
		subject := cleanSubject(m[1])
		if subject == "" {
			return extraction{}, false
		}
		return extraction{pickText: subject + " " + m[2], trailer: m[3]}, true
	}
	m := pickemRe.FindStringSubmatch(line)
	if m == nil {
		return extraction{}, false
	}
	subject := cleanSubject(m[1])
	if subject == "" {
		return extraction{}, false
	}
	return extraction{pickText: subject + " PK", trailer: m[2]}, true
}

// isOddsMagnitude reports whether a signed token is a price rather than a line.
func isOddsMagnitude(token string) bool {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return false
	}
	return math.Abs(value) >= pick.MinOdds && value == math.Trunc(value)
}

func direction(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "o") {
		return "Over"
	}
	return "Under"
}

// splitStat separates leading stat words ("pts", "rec yds") from the odds and
// unit trailer that follows them.
func splitStat(rest string) (string, string) {
	words := strings.Fields(rest)
	i := 0
	for i < len(words) && statWordRe.MatchString(words[i]) && !isUnitWord(words[i]) {
		i++
	}
	return strings.Join(words[:i], " "), strings.Join(words[i:], " ")
}

func isUnitWord(word string) bool {
	switch strings.ToLower(strings.Trim(word, "()")) {
	case "u", "unit", "units", "star", "stars", "max", "whale":
		return true
	}
	return false
}

func cleanSubject(s string) string {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ":-|,"))
	if !strings.ContainsFunc(s, isLetter) {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

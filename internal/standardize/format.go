package standardize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// nicknames maps lower-cased shorthand to the canonical team name.
var nicknames = map[string]string{
	"bama":     "Alabama",
	"uga":      "Georgia",
	"osu":      "Ohio State",
	"fsu":      "Florida State",
	"unc":      "North Carolina",
	"niners":   "49ers",
	"pats":     "Patriots",
	"bucs":     "Buccaneers",
	"jags":     "Jaguars",
	"commies":  "Commanders",
	"mavs":     "Mavericks",
	"cavs":     "Cavaliers",
	"wolves":   "Timberwolves",
	"t-wolves": "Timberwolves",
	"twolves":  "Timberwolves",
	"sixers":   "76ers",
	"nugs":     "Nuggets",
	"grizz":    "Grizzlies",
	"pels":     "Pelicans",
	"blazers":  "Trail Blazers",
	"habs":     "Canadiens",
	"sens":     "Senators",
	"caps":     "Capitals",
	"jackets":  "Blue Jackets",
	"preds":    "Predators",
	"bolts":    "Lightning",
	"canes":    "Hurricanes",
	"d-backs":  "Diamondbacks",
	"dbacks":   "Diamondbacks",
	"jays":     "Blue Jays",
	"nats":     "Nationals",
	"yanks":    "Yankees",
	"phils":    "Phillies",
	"cards":    "Cardinals",
}

// acronyms maps lower-cased tokens to their fixed spelling.
var acronyms = map[string]string{
	"ml":    "ML",
	"m/l":   "ML",
	"pk":    "PK",
	"ats":   "ATS",
	"o/u":   "O/U",
	"nfl":   "NFL",
	"ncaaf": "NCAAF",
	"ncaab": "NCAAB",
	"nba":   "NBA",
	"wnba":  "WNBA",
	"mlb":   "MLB",
	"nhl":   "NHL",
	"epl":   "EPL",
	"mls":   "MLS",
	"ucl":   "UCL",
	"ufc":   "UFC",
	"pga":   "PGA",
	"f1":    "F1",
	"pra":   "PRA",
	"sog":   "SOG",
	"ttu":   "TTU",
	"tto":   "TTO",
	"tds":   "TDs",
	"td":    "TD",
	"yrfi":  "YRFI",
	"nrfi":  "NRFI",
	"sgp":   "SGP",
	"atd":   "Anytime TD",
	"ot":    "OT",
	"vs":    "vs",
	"vs.":   "vs",
	"v.":    "vs",
	"lsu":   "LSU",
	"usc":   "USC",
	"tcu":   "TCU",
	"smu":   "SMU",
	"ucla":  "UCLA",
	"unlv":  "UNLV",
	"byu":   "BYU",
	"ucf":   "UCF",
	"uconn": "UConn",
	"a&m":   "A&M",
	"nc":    "NC",
	"utsa":  "UTSA",
	"1h":    "1H",
	"2h":    "2H",
	"1q":    "1Q",
	"2q":    "2Q",
	"3q":    "3Q",
	"4q":    "4Q",
	"1p":    "1P",
	"2p":    "2P",
	"3p":    "3P",
	"f5":    "F5",
	"rbi":   "RBI",
	"rbis":  "RBIs",
	"okc":   "OKC",
	"la":    "LA",
	"ny":    "NY",
}

const tokenPunct = "()[]{},:;!?\""

var (
	spreadRe     = regexp.MustCompile(`^(.+?)\s*([+-]\d+(?:\.\d+)?)(?:\s|$)`)
	overRe       = regexp.MustCompile(`(?i)(^|\s)(?:o|over)\s*(\d)`)
	underRe      = regexp.MustCompile(`(?i)(^|\s)(?:u|under)\s*(\d)`)
	anytimeTDRe  = regexp.MustCompile(`(?i)\b(?:anytime\s+td|anytime\s+touchdown|anytime\s+scorer)\b`)
	trailerTokRe = regexp.MustCompile(`(?i)^(?:\(?[+-]\d{3,}\)?|\(\d{3,}\)|\(?\d+(?:\.\d+)?(?:u|units?|stars?)\)?)$`)
	moneylineTok = regexp.MustCompile(`(?i)^(?:ml|m/l|moneyline)$`)
	propSignalRe = regexp.MustCompile(`(?i)^(?:o|u|over|under|[ou]\d.*|\d.*)$`)
	leadTagRe    = regexp.MustCompile(`(?i)^(?:[(\[](?:NFL|NCAAF|NCAAB|NBA|WNBA|MLB|NHL|EPL|MLS|UCL|UFC|PGA|F1|CFB|CBB)[)\]]:?|(?:NFL|NCAAF|NCAAB|NBA|WNBA|MLB|NHL|EPL|MLS|UCL|UFC|PGA|F1|CFB|CBB):)\s+`)
	tailTagRe    = regexp.MustCompile(`(?i)\s+[(\[](?:NFL|NCAAF|NCAAB|NBA|WNBA|MLB|NHL|EPL|MLS|UCL|UFC|PGA|F1|CFB|CBB)[)\]]$`)
)

// FormatPickValue renders a pick in its canonical surface form for betType.
// Applying it to its own output returns the same string.
func FormatPickValue(text string, betType pick.BetType, league pick.League) string {
	s := collapse(text)
	if s == "" {
		return ""
	}
	s = stripLeagueTags(s, league)
	s = SmartTitle(s)

	switch betType {
	case pick.BetMoneyline:
		s = formatMoneyline(s)
	case pick.BetSpread:
		s = formatSpread(s)
	case pick.BetTotal:
		s = formatTotal(s)
	case pick.BetPlayerProp:
		s = formatPlayerProp(s)
	}
	return collapse(s)
}

// SmartTitle title-cases words, keeps tokens that carry digits, and applies
// the nickname and acronym tables.
func SmartTitle(s string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, word := range words {
		lead, core, trail := splitPunct(word)
		if core == "" {
			out = append(out, word)
			continue
		}
		key := strings.ToLower(core)

		switch {
		case acronyms[key] != "":
			core = acronyms[key]
		case hasDigit(core):
			// 49ers, -7.5, o44.5
		case nicknames[key] != "":
			expansion := nicknames[key]
			if alreadyExpanded(out, expansion) {
				core = titleWord(core)
			} else {
				core = expansion
			}
		default:
			core = titleWord(core)
		}
		out = append(out, lead+core+trail)
	}
	return strings.Join(out, " ")
}

// alreadyExpanded reports whether the words before a nickname already spell
// the head of its expansion ("Golden" before "Knights").
func alreadyExpanded(previous []string, expansion string) bool {
	parts := strings.Fields(expansion)
	if len(parts) < 2 {
		return false
	}
	head := parts[:len(parts)-1]
	if len(previous) < len(head) {
		return false
	}
	tail := previous[len(previous)-len(head):]
	for i := range head {
		_, core, _ := splitPunct(tail[i])
		if !strings.EqualFold(core, head[i]) {
			return false
		}
	}
	return true
}

func titleWord(word string) string {
	lower := strings.ToLower(word)
	if strings.HasPrefix(lower, "mc") && len(lower) > 3 {
		rs := []rune(lower)
		return "Mc" + string(unicode.ToUpper(rs[2])) + string(rs[3:])
	}

	rs := []rune(lower)
	upperNext := true
	for i, r := range rs {
		if upperNext && unicode.IsLetter(r) {
			rs[i] = unicode.ToUpper(r)
			upperNext = false
			continue
		}
		switch r {
		case '-', '/', '&':
			upperNext = true
		case '\'':
			// O'Brien, D'Andre; not Pick'em
			upperNext = i == 1
		default:
			upperNext = false
		}
	}
	return string(rs)
}

func formatMoneyline(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		_, core, _ := splitPunct(word)
		if moneylineTok.MatchString(core) {
			continue
		}
		kept = append(kept, word)
	}
	kept = dropTrailers(kept)
	if len(kept) == 0 {
		return "ML"
	}
	return strings.Join(kept, " ") + " ML"
}

func formatSpread(s string) string {
	m := spreadRe.FindStringSubmatch(s)
	if m == nil {
		return strings.Join(dropTrailers(strings.Fields(s)), " ")
	}
	return strings.TrimSpace(m[1]) + " " + m[2]
}

func formatTotal(s string) string {
	s = normalizeOverUnder(s)
	return strings.Join(dropTrailers(strings.Fields(s)), " ")
}

func formatPlayerProp(s string) string {
	if loc := anytimeTDRe.FindStringIndex(s); loc != nil {
		name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s[:loc[0]]), ":"))
		if name == "" {
			return "Anytime TD"
		}
		return name + " Anytime TD"
	}

	if idx := strings.Index(s, ":"); idx > 0 {
		name := strings.TrimSpace(s[:idx])
		rest := strings.TrimSpace(s[idx+1:])
		if rest == "" {
			return name
		}
		rest = strings.Join(dropTrailers(strings.Fields(normalizeOverUnder(rest))), " ")
		return name + ": " + rest
	}

	words := strings.Fields(s)
	for i, word := range words {
		if i == 0 || !propSignalRe.MatchString(word) {
			continue
		}
		name := strings.Join(words[:i], " ")
		rest := strings.Join(dropTrailers(strings.Fields(normalizeOverUnder(strings.Join(words[i:], " ")))), " ")
		if rest == "" {
			return name
		}
		return name + ": " + rest
	}
	return s
}

func normalizeOverUnder(s string) string {
	s = overRe.ReplaceAllString(s, "${1}Over ${2}")
	return underRe.ReplaceAllString(s, "${1}Under ${2}")
}

// dropTrailers removes trailing odds and unit tokens.
func dropTrailers(words []string) []string {
	for len(words) > 1 && trailerTokRe.MatchString(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return words
}

func stripLeagueTags(s string, league pick.League) string {
	if stripped := leadTagRe.ReplaceAllString(s, ""); strings.TrimSpace(stripped) != "" {
		s = stripped
	}
	if league.Known() {
		prefix := string(league) + " "
		if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
		}
	}
	return tailTagRe.ReplaceAllString(s, "")
}

func splitPunct(word string) (lead, core, trail string) {
	core = strings.TrimLeft(word, tokenPunct)
	lead = word[:len(word)-len(core)]
	trimmed := strings.TrimRight(core, tokenPunct)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

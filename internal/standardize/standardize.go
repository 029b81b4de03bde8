package standardize

import "github.com/Ducky705/Live-Pick-Scraper/internal/pick"

// Standardized is the canonical view of one extracted pick.
type Standardized struct {
	League   pick.League
	BetType  pick.BetType
	PickText string
}

// Apply runs the league, bet-type and pick-text mappings over an extracted
// pick. League inference from the pick text only runs when the reported
// league maps to Other.
func Apply(p pick.ExtractedPick) Standardized {
	league := StandardizeLeague(p.League)
	if league == pick.LeagueOther {
		league = InferLeague(p.PickText)
	}
	betType := StandardizeBetType(p.BetType)
	return Standardized{
		League:   league,
		BetType:  betType,
		PickText: FormatPickValue(p.PickText, betType, league),
	}
}

package pick

// League is the closed set of canonical league codes.
type League string

const (
	LeagueNFL    League = "NFL"
	LeagueNCAAF  League = "NCAAF"
	LeagueNBA    League = "NBA"
	LeagueNCAAB  League = "NCAAB"
	LeagueWNBA   League = "WNBA"
	LeagueMLB    League = "MLB"
	LeagueNHL    League = "NHL"
	LeagueEPL    League = "EPL"
	LeagueMLS    League = "MLS"
	LeagueUCL    League = "UCL"
	LeagueUFC    League = "UFC"
	LeaguePGA    League = "PGA"
	LeagueTennis League = "TENNIS"
	LeagueF1     League = "F1"
	LeagueOther  League = "Other"
)

var allLeagues = []League{
	LeagueNFL, LeagueNCAAF, LeagueNBA, LeagueNCAAB, LeagueWNBA, LeagueMLB, LeagueNHL,
	LeagueEPL, LeagueMLS, LeagueUCL, LeagueUFC, LeaguePGA, LeagueTennis, LeagueF1,
}

// Leagues lists the known leagues, excluding the Other fallback.
func Leagues() []League {
	out := make([]League, len(allLeagues))
	copy(out, allLeagues)
	return out
}

func (l League) String() string { return string(l) }

func (l League) Known() bool {
	for _, known := range allLeagues {
		if l == known {
			return true
		}
	}
	return false
}

// BetType is the closed set of canonical bet types.
type BetType string

const (
	BetMoneyline  BetType = "Moneyline"
	BetSpread     BetType = "Spread"
	BetTotal      BetType = "Total"
	BetPlayerProp BetType = "Player Prop"
	BetTeamProp   BetType = "Team Prop"
	BetGameProp   BetType = "Game Prop"
	BetParlay     BetType = "Parlay"
	BetTeaser     BetType = "Teaser"
	BetFuture     BetType = "Future"
	BetPeriod     BetType = "Period"
	BetUnknown    BetType = "Unknown"
)

var allBetTypes = []BetType{
	BetMoneyline, BetSpread, BetTotal, BetPlayerProp, BetTeamProp,
	BetGameProp, BetParlay, BetTeaser, BetFuture, BetPeriod,
}

// BetTypes lists the known bet types, excluding the Unknown fallback.
func BetTypes() []BetType {
	out := make([]BetType, len(allBetTypes))
	copy(out, allBetTypes)
	return out
}

func (b BetType) String() string { return string(b) }

func (b BetType) Known() bool {
	for _, known := range allBetTypes {
		if b == known {
			return true
		}
	}
	return false
}

package standardize

import (
	"sort"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// leagueKeywords are roster tokens used to infer a league from pick text.
// Order in inferenceOrder decides ambiguous names (Giants, Cardinals, Rangers).
var leagueKeywords = map[pick.League][]string{
	pick.LeagueNFL: {
		"Cardinals", "Falcons", "Ravens", "Bills", "Panthers", "Bears", "Bengals", "Browns",
		"Cowboys", "Broncos", "Lions", "Packers", "Texans", "Colts", "Jaguars", "Chiefs",
		"Raiders", "Chargers", "Rams", "Dolphins", "Vikings", "Patriots", "Saints", "Giants",
		"Jets", "Eagles", "Steelers", "49ers", "Seahawks", "Buccaneers", "Titans", "Commanders",
		"Mahomes", "Kelce", "Burrow", "Jalen Hurts", "Lamar Jackson", "Josh Allen", "McCaffrey",
		"Justin Jefferson", "Ja'Marr Chase", "Tyreek Hill", "Derrick Henry", "Saquon",
	},
	pick.LeagueNBA: {
		"Hawks", "Celtics", "Nets", "Hornets", "Bulls", "Cavaliers", "Mavericks", "Nuggets",
		"Pistons", "Warriors", "Rockets", "Pacers", "Clippers", "Lakers", "Grizzlies", "Heat",
		"Bucks", "Timberwolves", "Pelicans", "Knicks", "Thunder", "Magic", "76ers", "Suns",
		"Trail Blazers", "Kings", "Spurs", "Raptors", "Jazz", "Wizards",
		"LeBron", "Curry", "Jokic", "Doncic", "Giannis", "Tatum", "Embiid", "Durant",
		"Shai Gilgeous-Alexander", "Wembanyama", "Anthony Edwards", "Jaylen Brown",
	},
	pick.LeagueNHL: {
		"Ducks", "Bruins", "Sabres", "Flames", "Hurricanes", "Blackhawks", "Avalanche",
		"Blue Jackets", "Stars", "Red Wings", "Oilers", "Wild", "Canadiens", "Predators",
		"Devils", "Islanders", "Rangers", "Senators", "Flyers", "Penguins", "Sharks", "Kraken",
		"Blues", "Lightning", "Maple Leafs", "Canucks", "Golden Knights", "Capitals", "Utah Hockey Club",
		"McDavid", "Draisaitl", "Ovechkin", "Crosby", "MacKinnon", "Auston Matthews", "Kucherov",
	},
	pick.LeagueMLB: {
		"Diamondbacks", "Braves", "Orioles", "Red Sox", "Cubs", "White Sox", "Reds", "Guardians",
		"Rockies", "Tigers", "Astros", "Royals", "Angels", "Dodgers", "Marlins", "Brewers",
		"Twins", "Mets", "Yankees", "Athletics", "Phillies", "Pirates", "Padres", "Mariners",
		"Blue Jays", "Nationals",
		"Ohtani", "Aaron Judge", "Juan Soto", "Mookie Betts", "Freddie Freeman", "Acuna",
	},
	pick.LeagueNCAAF: {
		"Alabama", "Georgia", "Ohio State", "Michigan", "Texas", "LSU", "Clemson", "Oregon",
		"Notre Dame", "USC", "Penn State", "Florida State", "Oklahoma", "Tennessee", "Auburn",
		"Florida", "Wisconsin", "Iowa", "Utah", "Washington", "Ole Miss", "Kentucky", "Missouri",
		"Texas A&M", "TCU", "Baylor", "Kansas State", "Oklahoma State", "Iowa State", "Arkansas",
		"Mississippi State", "South Carolina", "Nebraska", "Minnesota", "Purdue", "Illinois",
		"Northwestern", "Rutgers", "Maryland", "Virginia Tech", "North Carolina", "NC State",
		"Duke", "Louisville", "Pittsburgh", "Syracuse", "Boston College", "Wake Forest",
		"Georgia Tech", "UCLA", "Stanford", "California", "Arizona State", "Colorado", "BYU",
		"Boise State", "UCF", "Cincinnati", "Houston", "SMU", "Tulane", "Memphis", "Navy",
		"Army", "Air Force", "UNLV", "San Diego State", "Fresno State", "Appalachian State",
		"Liberty", "James Madison", "Crimson Tide", "Bulldogs", "Buckeyes", "Wolverines",
		"Longhorns", "Tigers", "Ducks", "Fighting Irish", "Trojans", "Nittany Lions", "Seminoles",
		"Sooners", "Volunteers", "Gators", "Badgers", "Hawkeyes", "Huskies", "Aggies", "Razorbacks",
		"Cornhuskers", "Gophers", "Boilermakers", "Hurricanes",
	},
}

var inferenceOrder = []pick.League{
	pick.LeagueNFL, pick.LeagueNBA, pick.LeagueNHL, pick.LeagueMLB, pick.LeagueNCAAF,
}

// teamCities are the market names pro teams are commonly written as.
var teamCities = []string{
	"Arizona", "Atlanta", "Baltimore", "Boston", "Brooklyn", "Buffalo", "Calgary", "Carolina",
	"Charlotte", "Chicago", "Cincinnati", "Cleveland", "Colorado", "Columbus", "Dallas",
	"Denver", "Detroit", "Edmonton", "Golden State", "Green Bay", "Houston", "Indiana",
	"Indianapolis", "Jacksonville", "Kansas City", "Las Vegas", "Los Angeles", "LA", "Memphis",
	"Miami", "Milwaukee", "Minnesota", "Montreal", "Nashville", "New England", "New Jersey",
	"New Orleans", "New York", "NY", "Oakland", "Oklahoma City", "OKC", "Orlando", "Ottawa",
	"Philadelphia", "Philly", "Phoenix", "Pittsburgh", "Portland", "Sacramento", "San Antonio",
	"San Diego", "San Francisco", "San Jose", "Seattle", "St. Louis", "St Louis", "Tampa Bay",
	"Tampa", "Tennessee", "Texas", "Toronto", "Utah", "Vancouver", "Vegas", "Washington",
	"Winnipeg", "Anaheim", "Florida",
}

// KnownTeamNames returns every roster keyword, city and nickname expansion,
// sorted and de-duplicated.
func KnownTeamNames() []string {
	seen := map[string]struct{}{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		seen[name] = struct{}{}
	}
	for _, names := range leagueKeywords {
		for _, name := range names {
			add(name)
		}
	}
	for _, city := range teamCities {
		add(city)
	}
	for _, exp := range nicknames {
		add(exp)
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsNickname reports whether word is a known shorthand for a team.
func IsNickname(word string) bool {
	_, ok := nicknames[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

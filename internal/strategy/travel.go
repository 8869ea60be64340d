package strategy

import "github.com/samber/lo"

// Travel summarizes one team's season.
type Travel struct {
	Team        int
	Games       int
	Interleague int
	Distance    int
}

// TravelSummary totals games and travel distance for every team on r.
func TravelSummary(r *Roster, distances *DistanceTable) []Travel {
	return lo.Map(r.Teams, func(team Team, ti int) Travel {
		return Travel{
			Team:  ti,
			Games: team.NumGames,
			Interleague: lo.CountBy(team.Opponents, func(oi int) bool {
				return r.Teams[oi].League != team.League
			}),
			Distance: lo.SumBy(team.Opponents, func(oi int) int {
				return distances.Between(team.League, r.Teams[oi].League)
			}),
		}
	})
}

package strategy

import (
	"cmp"
	"fmt"
)

// Game is an unordered pairing of two teams (Team0 < Team1) together with
// the travel distance between their leagues. Multiple games between the
// same pair are separate values.
type Game struct {
	Team0    int
	Team1    int
	Distance int
}

// NewGame orders the team indices so equal pairings compare equal.
func NewGame(a, b, distance int) Game {
	if a > b {
		a, b = b, a
	}
	return Game{Team0: a, Team1: b, Distance: distance}
}

// Compare orders games by (Team0, Team1, Distance).
func (g Game) Compare(o Game) int {
	return cmp.Or(
		cmp.Compare(g.Team0, o.Team0),
		cmp.Compare(g.Team1, o.Team1),
		cmp.Compare(g.Distance, o.Distance),
	)
}

// Has reports whether team ti plays in the game.
func (g Game) Has(ti int) bool {
	return g.Team0 == ti || g.Team1 == ti
}

// Result is the output of matchup generation.
type Result struct {
	Roster *Roster
	Matrix Matrix
	Games  []Game
}

// Strategy decides who plays whom, and how often, for a season.
type Strategy interface {
	BuildMatchups(roster *Roster, distances *DistanceTable, maxGames int) (*Result, error)
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	switch name {
	case "interleague_greedy":
		return &InterleagueGreedy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

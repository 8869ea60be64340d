package schedule

import "github.com/district8/interleague/internal/strategy"

// pairings is the set of distinct team pairs that still have a game to play.
type pairings map[[2]int]bool

func newPairings(games []strategy.Game) pairings {
	p := make(pairings, len(games))
	for _, g := range games {
		p[[2]int{g.Team0, g.Team1}] = true
	}
	return p
}

func (p pairings) has(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return p[[2]int{a, b}]
}

// canPairAll pairs the lowest team with each legal partner in turn and
// recurses on what is left.
func (p pairings) canPairAll(teams TeamSet) bool {
	if len(teams) == 0 {
		return true
	}
	if len(teams)%2 != 0 {
		return false
	}

	first, rest := teams[0], teams[1:]
	for i, partner := range rest {
		if !p.has(first, partner) {
			continue
		}
		reduced := make(TeamSet, 0, len(rest)-1)
		reduced = append(reduced, rest[:i]...)
		reduced = append(reduced, rest[i+1:]...)
		if p.canPairAll(reduced) {
			return true
		}
	}
	return false
}

// CanPairAll reports whether teams can be split entirely into pairs that
// each have a game among games.
func CanPairAll(teams TeamSet, games []strategy.Game) bool {
	return newPairings(games).canPairAll(teams)
}

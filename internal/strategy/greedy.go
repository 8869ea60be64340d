package strategy

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/tiendc/go-deepcopy"
)

// ErrInLeagueOverCap is returned when a league's fixed in-league schedule
// alone would push its teams past the per-team game cap.
var ErrInLeagueOverCap = errors.New("in-league games exceed the per-team cap")

// InterleagueGreedy plays every in-league pair twice, then spreads the
// remaining games across other leagues, closest leagues first.
// It is a heuristic: the resulting travel is not guaranteed minimal.
type InterleagueGreedy struct{}

// BuildMatchups runs the three passes on a copy of roster and returns the
// mutated copy, the symmetric team×team game matrix and the game list
// sorted by ascending travel distance. The caller's roster is untouched,
// so identical input always yields identical output.
func (s *InterleagueGreedy) BuildMatchups(roster *Roster, distances *DistanceTable, maxGames int) (*Result, error) {
	var r Roster
	if err := deepcopy.Copy(&r, roster); err != nil {
		return nil, fmt.Errorf("copying roster: %w", err)
	}
	if distances.Len() < len(r.Leagues) {
		return nil, fmt.Errorf("distance table covers %d leagues, roster has %d", distances.Len(), len(r.Leagues))
	}

	for _, l := range r.Leagues {
		if need := (l.NumTeams() - 1) * 2; need > maxGames {
			return nil, fmt.Errorf("league %q needs %d in-league games per team, cap is %d: %w",
				l.Name, need, maxGames, ErrInLeagueOverCap)
		}
	}

	b := newBuilder(&r, distances, maxGames)
	b.assignInLeagueGames()
	b.assignMinimumInterleagueGames()
	b.assignRemainingGames()

	return &Result{
		Roster: &r,
		Matrix: b.matrix,
		Games:  b.gameList(),
	}, nil
}

type builder struct {
	roster    *Roster
	distances *DistanceTable
	maxGames  int
	matrix    Matrix

	// team -> league -> games played against that league
	leagueGames [][]int
}

func newBuilder(r *Roster, distances *DistanceTable, maxGames int) *builder {
	leagueGames := make([][]int, len(r.Teams))
	for i := range leagueGames {
		leagueGames[i] = make([]int, len(r.Leagues))
	}
	return &builder{
		roster:      r,
		distances:   distances,
		maxGames:    maxGames,
		matrix:      NewMatrix(len(r.Teams)),
		leagueGames: leagueGames,
	}
}

func (b *builder) addGame(ti0, ti1 int) {
	b.roster.addGame(b.matrix, ti0, ti1)
	b.leagueGames[ti0][b.roster.Teams[ti1].League]++
	b.leagueGames[ti1][b.roster.Teams[ti0].League]++
}

func (b *builder) atCap(ti int) bool {
	return b.roster.Teams[ti].NumGames >= b.maxGames
}

func (b *builder) distance(ti0, ti1 int) int {
	return b.distances.Between(b.roster.Teams[ti0].League, b.roster.Teams[ti1].League)
}

// assignInLeagueGames plays every in-league pair twice (home and away),
// pairs in lexicographic order.
func (b *builder) assignInLeagueGames() {
	for _, l := range b.roster.Leagues {
		for ti0 := l.Start; ti0 < l.End; ti0++ {
			for ti1 := ti0 + 1; ti1 < l.End; ti1++ {
				b.addGame(ti0, ti1)
				b.addGame(ti0, ti1)
			}
		}
	}
}

// assignMinimumInterleagueGames has every league pair play
// min(teams in either league) games, closest league pairs first, rotating
// each league's cursor so games spread over its teams.
func (b *builder) assignMinimumInterleagueGames() {
	type leaguePair struct {
		li0, li1 int
		distance int
	}
	var pairs []leaguePair
	for li0 := range b.roster.Leagues {
		for li1 := li0 + 1; li1 < len(b.roster.Leagues); li1++ {
			pairs = append(pairs, leaguePair{li0, li1, b.distances.Between(li0, li1)})
		}
	}
	slices.SortStableFunc(pairs, func(a, c leaguePair) int {
		return cmp.Compare(a.distance, c.distance)
	})

	for _, p := range pairs {
		l0, l1 := &b.roster.Leagues[p.li0], &b.roster.Leagues[p.li1]
		for range min(l0.NumTeams(), l1.NumTeams()) {
			ti0, ti1 := l0.NextIndex, l1.NextIndex
			if b.atCap(ti0) || b.atCap(ti1) {
				// One of the leagues is full.
				break
			}
			b.addGame(ti0, ti1)
			l0.bumpNextIndex()
			l1.bumpNextIndex()
		}
	}
}

// priority ranks a candidate inter-league pair. Fields are listed in
// tie-break order.
type priority struct {
	pairGames     int // games already between the two teams; fewer wins
	leagueGames   int // games each team has against the other's league; fewer wins
	combinedGames int // total games of both teams; more wins
	distance      int // league distance; more wins
}

// compare is negative when p should be picked over o.
func (p priority) compare(o priority) int {
	return cmp.Or(
		cmp.Compare(p.pairGames, o.pairGames),
		cmp.Compare(p.leagueGames, o.leagueGames),
		cmp.Compare(o.combinedGames, p.combinedGames),
		cmp.Compare(o.distance, p.distance),
	)
}

func (b *builder) priority(ti0, ti1 int) priority {
	t0, t1 := b.roster.Teams[ti0], b.roster.Teams[ti1]
	return priority{
		pairGames:     b.matrix.Get(ti0, ti1),
		leagueGames:   b.leagueGames[ti0][t1.League] + b.leagueGames[ti1][t0.League],
		combinedGames: t0.NumGames + t1.NumGames,
		distance:      b.distances.Between(t0.League, t1.League),
	}
}

// assignRemainingGames adds one inter-league game at a time, always the
// best-ranked pair of teams still under the cap, until no such pair is left.
// Earlier pairs win exact ties.
func (b *builder) assignRemainingGames() {
	teams := b.roster.Teams
	for {
		best := priority{}
		bestTi0, bestTi1 := -1, -1
		for ti0 := range teams {
			if b.atCap(ti0) {
				continue
			}
			for ti1 := ti0 + 1; ti1 < len(teams); ti1++ {
				if teams[ti0].League == teams[ti1].League || b.atCap(ti1) {
					continue
				}
				p := b.priority(ti0, ti1)
				if bestTi0 < 0 || p.compare(best) < 0 {
					best, bestTi0, bestTi1 = p, ti0, ti1
				}
			}
		}
		if bestTi0 < 0 {
			return
		}
		b.addGame(bestTi0, bestTi1)
	}
}

// gameList expands the matrix into one Game per required game, sorted by
// ascending distance. Equal distances keep pair order.
func (b *builder) gameList() []Game {
	var games []Game
	for ti0 := range b.matrix {
		for ti1 := ti0 + 1; ti1 < len(b.matrix); ti1++ {
			for range b.matrix.Get(ti0, ti1) {
				games = append(games, NewGame(ti0, ti1, b.distance(ti0, ti1)))
			}
		}
	}
	slices.SortStableFunc(games, func(a, c Game) int {
		return cmp.Compare(a.Distance, c.Distance)
	})
	return games
}

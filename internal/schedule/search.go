package schedule

import (
	"fmt"
	"iter"
	"slices"

	"github.com/samber/lo"

	"github.com/district8/interleague/internal/backtrack"
	"github.com/district8/interleague/internal/strategy"
)

// State is one node of the day assignment search: the calendar, the
// index of the day being filled and the games not yet placed.
//
// States are never modified once built. Successors share untouched days
// and game slices with their parent and copy only what they change.
type State struct {
	Days      []Day
	Cursor    int
	Remaining []strategy.Game
}

// NewState returns the root state. Games are tried in the order given.
func NewState(days []Day, games []strategy.Game) *State {
	return &State{Days: days, Remaining: games}
}

// IsGoal reports whether every day has been finalized. Games may remain.
func (s *State) IsGoal() bool {
	return s.Cursor == len(s.Days)
}

// Successors yields the moves from s. A full day has exactly one
// successor, which moves on to the next day. Otherwise each remaining
// game both of whose teams are free today is placed in turn, in
// Remaining order.
func (s *State) Successors() iter.Seq[*State] {
	return func(yield func(*State) bool) {
		if s.IsGoal() {
			return
		}

		day := s.Days[s.Cursor]
		if day.Full() {
			yield(&State{Days: s.Days, Cursor: s.Cursor + 1, Remaining: s.Remaining})
			return
		}

		// Every placement leaves one game fewer and two teams fewer to
		// fill; stop when what is left cannot cover the rest of the day.
		if len(s.Remaining)-1 < (day.Available.Len()-2)/2 {
			return
		}

		// Identical games lead to identical subtrees.
		tried := make(map[strategy.Game]bool)
		for i, g := range s.Remaining {
			if tried[g] || !day.Available.Contains(g.Team0) || !day.Available.Contains(g.Team1) {
				continue
			}
			tried[g] = true
			if !yield(s.place(i)) {
				return
			}
		}
	}
}

func (s *State) place(i int) *State {
	g := s.Remaining[i]

	days := slices.Clone(s.Days)
	day := days[s.Cursor]
	day.Available = day.Available.Without(g.Team0, g.Team1)
	day.Games = append(slices.Clip(day.Games), g)
	days[s.Cursor] = day

	return &State{
		Days:      days,
		Cursor:    s.Cursor,
		Remaining: slices.Delete(slices.Clone(s.Remaining), i, i+1),
	}
}

// IsValid reports whether every day not yet started can still be paired
// off completely from the distinct remaining games.
func (s *State) IsValid() bool {
	if s.IsGoal() {
		return true
	}
	p := newPairings(s.Remaining)
	for _, day := range s.Days[s.Cursor:] {
		if len(day.Games) > 0 {
			continue
		}
		if !p.canPairAll(day.Available) {
			return false
		}
	}
	return true
}

// Options tunes Solve.
type Options struct {
	// MaxNodes bounds the number of search states visited. Zero means
	// unbounded.
	MaxNodes int
}

// Result is the output of the day assignment search.
type Result struct {
	Solved   bool
	Days     []Day           // finalized days; the input days when not solved
	Unplaced []strategy.Game // games left over once the last day is full
	Stats    backtrack.Stats
}

// Placed returns the number of games assigned to a day.
func (r *Result) Placed() int {
	return lo.SumBy(r.Days, func(d Day) int { return len(d.Games) })
}

// Solve assigns games to days so that every available team plays exactly
// once per day. Exhausting the search is not an error: the result is
// returned with Solved false. An error is returned only when the node
// budget runs out.
func Solve(days []Day, games []strategy.Game, opts Options) (*Result, error) {
	search := backtrack.Search[*State]{MaxNodes: opts.MaxNodes}
	solution, ok, err := search.Solve(NewState(days, games))

	result := &Result{Days: days, Stats: search.Stats}
	if err != nil {
		return result, fmt.Errorf("assigning %d games to %d days: %w", len(games), len(days), err)
	}
	if ok {
		result.Solved = true
		result.Days = solution.Days
		result.Unplaced = solution.Remaining
	}
	return result, nil
}

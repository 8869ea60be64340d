// Package backtrack runs a depth-first search over problem states.
//
// A problem is described by a state type implementing Config: it lists
// its successors in the order they should be tried, reports whether it
// can still lead to a goal, and reports whether it is a goal. The driver
// knows nothing else about the problem, so any search with that shape
// (a calendar, a puzzle, an assignment) can reuse it.
package backtrack

import (
	"errors"
	"iter"
)

// ErrBudgetExhausted is returned by Search.Solve when MaxNodes states
// have been visited without reaching a goal.
var ErrBudgetExhausted = errors.New("search node budget exhausted")

// Config is one search state.
type Config[C any] interface {
	// Successors yields the states reachable in one step, best first.
	// The search stops pulling as soon as a goal is found below one.
	Successors() iter.Seq[C]

	// IsValid reports whether the state may still lead to a goal.
	// Invalid states are discarded without being expanded.
	IsValid() bool

	// IsGoal reports whether the state is a solution.
	IsGoal() bool
}

// Stats counts work done by a search.
type Stats struct {
	Visited int // states expanded or goal-tested
	Pruned  int // states rejected by IsValid
}

// Search is a depth-first driver with an optional node budget.
// A Search may be reused; each Solve resets Stats.
type Search[C Config[C]] struct {
	// MaxNodes bounds the number of visited states. Zero means unbounded.
	MaxNodes int

	Stats Stats
}

// Solve returns the first goal reached depth-first from root, trying
// successors in the order they are yielded. ok is false when the space
// is exhausted; err is non-nil only when the budget ran out.
func (s *Search[C]) Solve(root C) (solution C, ok bool, err error) {
	s.Stats = Stats{}
	if !root.IsValid() {
		s.Stats.Pruned++
		return solution, false, nil
	}
	return s.solve(root)
}

func (s *Search[C]) solve(c C) (C, bool, error) {
	var zero C

	s.Stats.Visited++
	if s.MaxNodes > 0 && s.Stats.Visited > s.MaxNodes {
		return zero, false, ErrBudgetExhausted
	}
	if c.IsGoal() {
		return c, true, nil
	}

	for next := range c.Successors() {
		if !next.IsValid() {
			s.Stats.Pruned++
			continue
		}
		solution, ok, err := s.solve(next)
		if ok || err != nil {
			return solution, ok, err
		}
	}
	return zero, false, nil
}

// Solve runs an unbounded search from root.
func Solve[C Config[C]](root C) (C, bool) {
	var s Search[C]
	solution, ok, _ := s.Solve(root)
	return solution, ok
}

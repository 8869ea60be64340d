package schedule

import "slices"

// TeamSet is a sorted set of team indices. Operations return new sets and
// never modify the receiver, so sets can be shared between search states.
type TeamSet []int

// NewTeamSet builds a set from teams in any order, dropping duplicates.
func NewTeamSet(teams ...int) TeamSet {
	s := slices.Clone(teams)
	slices.Sort(s)
	return slices.Compact(s)
}

// Range returns the set {0, ..., n-1}.
func Range(n int) TeamSet {
	s := make(TeamSet, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// Len returns the number of teams in the set.
func (s TeamSet) Len() int {
	return len(s)
}

// Contains reports whether ti is in the set.
func (s TeamSet) Contains(ti int) bool {
	_, found := slices.BinarySearch(s, ti)
	return found
}

// Without returns the set minus the given teams.
func (s TeamSet) Without(teams ...int) TeamSet {
	out := make(TeamSet, 0, len(s))
	for _, ti := range s {
		if !slices.Contains(teams, ti) {
			out = append(out, ti)
		}
	}
	return out
}

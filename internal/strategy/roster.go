package strategy

import (
	"fmt"
	"strings"

	"github.com/district8/interleague/internal/config"
)

// League is a contiguous range of team indices [Start, End).
// NextIndex is the rotating cursor used when handing out inter-league
// games; it always lies inside the range.
type League struct {
	Name      string
	Start     int
	End       int
	NextIndex int
}

// NumTeams returns the number of teams in the league.
func (l *League) NumTeams() int {
	return l.End - l.Start
}

// Contains reports whether team index ti belongs to the league.
func (l *League) Contains(ti int) bool {
	return ti >= l.Start && ti < l.End
}

func (l *League) bumpNextIndex() {
	l.NextIndex++
	if l.NextIndex >= l.End {
		l.NextIndex = l.Start
	}
}

// Team is one roster entry. Opponents lists every game played so far,
// so a team met twice appears twice.
type Team struct {
	Name      string
	League    int
	NumGames  int
	Opponents []int
}

// Roster owns all leagues and teams. Builder passes mutate it in place.
type Roster struct {
	Leagues []League
	Teams   []Team
}

// NewRoster lays teams out league by league in config order.
func NewRoster(leagues []config.League) *Roster {
	r := &Roster{}
	for li, l := range leagues {
		start := len(r.Teams)
		for _, name := range l.Teams {
			r.Teams = append(r.Teams, Team{Name: name, League: li})
		}
		r.Leagues = append(r.Leagues, League{
			Name:      l.Name,
			Start:     start,
			End:       len(r.Teams),
			NextIndex: start,
		})
	}
	return r
}

// TeamName returns the display name of team ti, falling back to its
// league-relative label ("NE2") when the roster was built without names.
func (r *Roster) TeamName(ti int) string {
	t := r.Teams[ti]
	if t.Name != "" {
		return t.Name
	}
	l := r.Leagues[t.League]
	return fmt.Sprintf("%s%d", l.Name, ti-l.Start+1)
}

func (r *Roster) addGame(m Matrix, ti0, ti1 int) {
	r.Teams[ti0].NumGames++
	r.Teams[ti0].Opponents = append(r.Teams[ti0].Opponents, ti1)
	r.Teams[ti1].NumGames++
	r.Teams[ti1].Opponents = append(r.Teams[ti1].Opponents, ti0)
	m.increment(ti0, ti1)
}

// String renders leagues with their cursors and each team's opponents.
func (r *Roster) String() string {
	var b strings.Builder
	for _, l := range r.Leagues {
		fmt.Fprintf(&b, "%s, next index: %d\n", l.Name, l.NextIndex)
		for i, ti := 0, l.Start; ti < l.End; i, ti = i+1, ti+1 {
			team := r.Teams[ti]
			fmt.Fprintf(&b, " %d. %s (idx %d), #games: %d, ", i+1, r.TeamName(ti), ti, team.NumGames)
			opponents := make([]string, len(team.Opponents))
			for k, oi := range team.Opponents {
				opponents[k] = r.TeamName(oi)
			}
			b.WriteString(strings.Join(opponents, ","))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Matrix is a square table of counts. Game matrices are kept symmetric.
type Matrix [][]int

// NewMatrix returns an n×n matrix of zeros.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

// Get returns the value at (i, j).
func (m Matrix) Get(i, j int) int {
	return m[i][j]
}

func (m Matrix) increment(i, j int) {
	m[i][j]++
	if i != j {
		m[j][i]++
	}
}

// DistanceTable holds travel cost between league pairs. Only the upper
// triangle is stored; lookups are symmetric and a league is 0 from itself.
type DistanceTable struct {
	m Matrix
}

// NewDistanceTable returns a table for n leagues with every distance 0.
func NewDistanceTable(n int) *DistanceTable {
	return &DistanceTable{m: NewMatrix(n)}
}

// DistancesFromConfig builds the table from the config's named entries.
func DistancesFromConfig(cfg *config.Config) *DistanceTable {
	index := cfg.LeagueIndex()
	d := NewDistanceTable(len(cfg.Leagues))
	for _, entry := range cfg.Distances {
		d.Set(index[entry.Leagues[0]], index[entry.Leagues[1]], entry.Distance)
	}
	return d
}

// Set records the distance between leagues a and b.
func (d *DistanceTable) Set(a, b, distance int) {
	if a > b {
		a, b = b, a
	}
	d.m[a][b] = distance
}

// Between returns the distance between leagues a and b.
func (d *DistanceTable) Between(a, b int) int {
	if a == b {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	return d.m[a][b]
}

// Len returns the number of leagues covered.
func (d *DistanceTable) Len() int {
	return len(d.m)
}

package validator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/district8/interleague/internal/config"
	"github.com/district8/interleague/internal/excel"
	"github.com/district8/interleague/internal/schedule"
	"github.com/district8/interleague/internal/strategy"
)

// Violation represents a constraint violation found during validation.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule Excel file and checks it against the config.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	games, err := readGames(f)
	if err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}

	days, err := schedule.GenerateDays(cfg)
	if err != nil {
		return nil, fmt.Errorf("generating days: %w", err)
	}

	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	matchups, err := strat.BuildMatchups(strategy.NewRoster(cfg.Leagues), strategy.DistancesFromConfig(cfg), cfg.MaxGamesPerTeam)
	if err != nil {
		return nil, fmt.Errorf("building matchups: %w", err)
	}

	v := &checker{
		cfg:       cfg,
		teamIndex: cfg.TeamIndex(),
		days:      make(map[time.Time]schedule.Day, len(days)),
		matchups:  matchups,
	}
	for _, d := range days {
		v.days[d.Date] = d
	}

	// Unknown teams make the remaining per-team checks meaningless.
	violations := v.checkUnknownTeams(games)
	if len(violations) > 0 {
		return violations, nil
	}

	// Check hard constraints
	violations = append(violations, v.checkCalendar(games)...)
	violations = append(violations, v.checkDoubleBooked(games)...)
	violations = append(violations, v.checkUnavailable(games)...)
	violations = append(violations, v.checkPairCounts(games)...)

	// Check soft constraints
	violations = append(violations, v.checkIdleTeams(games)...)
	violations = append(violations, v.checkGameCompleteness(games)...)

	return violations, nil
}

type parsedGame struct {
	Row   int
	Date  time.Time
	Team0 string
	Team1 string
}

func readGames(f *excelize.File) ([]parsedGame, error) {
	rows, err := f.GetRows(excel.MasterSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", excel.MasterSheet, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", excel.MasterSheet)
	}

	// Header row determines game columns
	var gameCols []int
	for i, h := range rows[0] {
		if strings.HasPrefix(h, "Game ") {
			gameCols = append(gameCols, i)
		}
	}

	var games []parsedGame
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}

		date, err := time.Parse(excel.DateFormat, row[0])
		if err != nil {
			continue
		}

		for _, col := range gameCols {
			if col >= len(row) || row[col] == "" {
				continue
			}
			team0, team1, ok := excel.ParseGameCell(row[col])
			if !ok {
				continue
			}
			games = append(games, parsedGame{Row: i + 1, Date: date, Team0: team0, Team1: team1})
		}
	}

	return games, nil
}

type checker struct {
	cfg       *config.Config
	teamIndex map[string]int
	days      map[time.Time]schedule.Day
	matchups  *strategy.Result
}

func (v *checker) checkUnknownTeams(games []parsedGame) []Violation {
	var violations []Violation
	for _, g := range games {
		for _, team := range []string{g.Team0, g.Team1} {
			if _, ok := v.teamIndex[team]; !ok {
				violations = append(violations, Violation{
					Row:     g.Row,
					Type:    "error",
					Message: fmt.Sprintf("unknown team %q on %s", team, g.Date.Format("01/02")),
				})
			}
		}
	}
	return violations
}

func (v *checker) checkCalendar(games []parsedGame) []Violation {
	var violations []Violation
	for _, g := range games {
		if _, ok := v.days[g.Date]; !ok {
			violations = append(violations, Violation{
				Row:     g.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s vs %s on %s, which is not a play day", g.Team0, g.Team1, g.Date.Format("01/02")),
			})
		}
	}
	return violations
}

func (v *checker) checkDoubleBooked(games []parsedGame) []Violation {
	type teamDay struct {
		team string
		date time.Time
	}
	counts := make(map[teamDay][]int)
	for _, g := range games {
		counts[teamDay{g.Team0, g.Date}] = append(counts[teamDay{g.Team0, g.Date}], g.Row)
		counts[teamDay{g.Team1, g.Date}] = append(counts[teamDay{g.Team1, g.Date}], g.Row)
	}

	var violations []Violation
	for td, rows := range counts {
		if len(rows) > 1 {
			violations = append(violations, Violation{
				Row:     rows[0],
				Type:    "error",
				Message: fmt.Sprintf("%s plays %d games on %s", td.team, len(rows), td.date.Format("01/02")),
			})
		}
	}
	sortViolations(violations)
	return violations
}

func (v *checker) checkUnavailable(games []parsedGame) []Violation {
	var violations []Violation
	for _, g := range games {
		day, ok := v.days[g.Date]
		if !ok {
			continue
		}
		for _, team := range []string{g.Team0, g.Team1} {
			if day.Unavailable.Contains(v.teamIndex[team]) {
				violations = append(violations, Violation{
					Row:     g.Row,
					Type:    "error",
					Message: fmt.Sprintf("%s plays on %s but is unavailable", team, g.Date.Format("01/02")),
				})
			}
		}
	}
	return violations
}

// checkPairCounts compares how often each pair meets with the opponent
// matrix. Extra meetings are errors; missing ones are unplaced games.
func (v *checker) checkPairCounts(games []parsedGame) []Violation {
	counts := strategy.NewMatrix(len(v.teamIndex))
	lastRow := make(map[[2]int]int)
	for _, g := range games {
		g0 := strategy.NewGame(v.teamIndex[g.Team0], v.teamIndex[g.Team1], 0)
		counts[g0.Team0][g0.Team1]++
		lastRow[[2]int{g0.Team0, g0.Team1}] = g.Row
	}

	roster := v.matchups.Roster
	var violations []Violation
	for i := range counts {
		for j := i + 1; j < len(counts); j++ {
			got, want := counts[i][j], v.matchups.Matrix.Get(i, j)
			switch {
			case got > want:
				violations = append(violations, Violation{
					Row:     lastRow[[2]int{i, j}],
					Type:    "error",
					Message: fmt.Sprintf("%s vs %s played %d times (matrix has %d)", roster.TeamName(i), roster.TeamName(j), got, want),
				})
			case got < want:
				violations = append(violations, Violation{
					Type:    "warning",
					Message: fmt.Sprintf("%s vs %s unplaced: %d of %d scheduled", roster.TeamName(i), roster.TeamName(j), got, want),
				})
			}
		}
	}
	return violations
}

// checkIdleTeams warns about available teams left without a game on a day
// that has games.
func (v *checker) checkIdleTeams(games []parsedGame) []Violation {
	type dayInfo struct {
		row     int
		playing map[int]bool
	}
	byDate := make(map[time.Time]*dayInfo)
	for _, g := range games {
		info, ok := byDate[g.Date]
		if !ok {
			info = &dayInfo{row: g.Row, playing: make(map[int]bool)}
			byDate[g.Date] = info
		}
		info.playing[v.teamIndex[g.Team0]] = true
		info.playing[v.teamIndex[g.Team1]] = true
	}

	roster := v.matchups.Roster
	var violations []Violation
	for date, info := range byDate {
		day, ok := v.days[date]
		if !ok {
			continue
		}
		for _, ti := range day.Available {
			if !info.playing[ti] {
				violations = append(violations, Violation{
					Row:     info.row,
					Type:    "warning",
					Message: fmt.Sprintf("%s has no game on %s", roster.TeamName(ti), date.Format("01/02")),
				})
			}
		}
	}
	sortViolations(violations)
	return violations
}

func (v *checker) checkGameCompleteness(games []parsedGame) []Violation {
	counts := make(map[string]int)
	for _, g := range games {
		counts[g.Team0]++
		counts[g.Team1]++
	}

	var violations []Violation
	for _, team := range v.cfg.AllTeams() {
		if counts[team] == 0 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s has no games scheduled", team),
			})
		}
	}
	return violations
}

func sortViolations(violations []Violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Row != violations[j].Row {
			return violations[i].Row < violations[j].Row
		}
		return violations[i].Message < violations[j].Message
	})
}

package validator

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/district8/interleague/internal/config"
	"github.com/district8/interleague/internal/excel"
	"github.com/district8/interleague/internal/schedule"
	"github.com/district8/interleague/internal/strategy"
)

const testConfigYAML = `
max_games_per_team: 4
leagues:
  - name: East
    teams: [A, B]
  - name: West
    teams: [C, D]
distances:
  - leagues: [East, West]
    distance: 5
days:
  - date: "2023-05-01"
  - date: "2023-05-02"
  - date: "2023-05-03"
    unavailable: [A, B]
  - date: "2023-05-04"
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes() error: %v", err)
	}
	return cfg
}

// writeSchedule saves a master sheet with one row per entry: the date
// followed by its game cells.
func writeSchedule(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := excel.MasterSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName error: %v", err)
	}

	header := []string{"Date", "Day", "Weekend", "Game 1", "Game 2", "Off"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		f.SetCellValue(sheet, cell, row[0])
		for i, game := range row[1:] {
			cell, _ := excelize.CoordinatesToCellName(4+i, r+2)
			f.SetCellValue(sheet, cell, game)
		}
	}

	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

func validate(t *testing.T, rows [][]string) []Violation {
	t.Helper()
	violations, err := Validate(testConfig(t), writeSchedule(t, rows))
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	return violations
}

func hasViolation(violations []Violation, typ, message string) bool {
	for _, v := range violations {
		if v.Type == typ && v.Message == message {
			return true
		}
	}
	return false
}

func countType(violations []Violation, typ string) int {
	n := 0
	for _, v := range violations {
		if v.Type == typ {
			n++
		}
	}
	return n
}

func TestValidateGeneratedSchedule(t *testing.T) {
	cfg := testConfig(t)
	days, err := schedule.GenerateDays(cfg)
	if err != nil {
		t.Fatalf("GenerateDays() error: %v", err)
	}
	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	matchups, err := strat.BuildMatchups(strategy.NewRoster(cfg.Leagues), strategy.DistancesFromConfig(cfg), cfg.MaxGamesPerTeam)
	if err != nil {
		t.Fatalf("BuildMatchups() error: %v", err)
	}

	result, err := schedule.Solve(days, matchups.Games, schedule.Options{})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if !result.Solved {
		t.Fatal("expected a solution")
	}

	f, err := excel.Generate(cfg, matchups, result, schedule.GenerateBlackouts(cfg))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	t.Run("no hard constraint violations", func(t *testing.T) {
		for _, v := range violations {
			if v.Type == "error" {
				t.Errorf("hard violation: %s", v.Message)
			}
		}
	})

	// Three full days and a day for C and D hold 7 of the 8 games.
	t.Run("reports the unplaced game", func(t *testing.T) {
		if len(result.Unplaced) != 1 {
			t.Fatalf("unplaced = %d, want 1", len(result.Unplaced))
		}
		g := result.Unplaced[0]
		want := fmt.Sprintf("%s vs %s unplaced: 1 of 2 scheduled", matchups.Roster.TeamName(g.Team0), matchups.Roster.TeamName(g.Team1))
		if g.Distance > 0 {
			want = fmt.Sprintf("%s vs %s unplaced: 0 of 1 scheduled", matchups.Roster.TeamName(g.Team0), matchups.Roster.TeamName(g.Team1))
		}
		if !hasViolation(violations, "warning", want) {
			t.Errorf("missing warning %q in %v", want, violations)
		}
		if got := countType(violations, "warning"); got != 1 {
			t.Errorf("warnings = %d, want 1: %v", got, violations)
		}
	})
}

func TestValidateDoubleBooked(t *testing.T) {
	violations := validate(t, [][]string{
		{"05/01/2023", "A vs B", "A vs C"},
	})

	if !hasViolation(violations, "error", "A plays 2 games on 05/01") {
		t.Errorf("expected double booking error, got %v", violations)
	}
	if !hasViolation(violations, "warning", "D has no game on 05/01") {
		t.Errorf("expected idle warning for D, got %v", violations)
	}
	if !hasViolation(violations, "error", "D has no games scheduled") {
		t.Errorf("expected completeness error for D, got %v", violations)
	}
}

func TestValidateUnavailableTeam(t *testing.T) {
	violations := validate(t, [][]string{
		{"05/03/2023", "A vs B"},
	})

	for _, team := range []string{"A", "B"} {
		want := team + " plays on 05/03 but is unavailable"
		if !hasViolation(violations, "error", want) {
			t.Errorf("missing %q in %v", want, violations)
		}
	}
	if !hasViolation(violations, "warning", "C has no game on 05/03") {
		t.Errorf("expected idle warning for C, got %v", violations)
	}
}

func TestValidateNotAPlayDay(t *testing.T) {
	violations := validate(t, [][]string{
		{"05/09/2023", "C vs D"},
	})

	if !hasViolation(violations, "error", "C vs D on 05/09, which is not a play day") {
		t.Errorf("expected calendar error, got %v", violations)
	}
}

func TestValidatePairOverMatrix(t *testing.T) {
	violations := validate(t, [][]string{
		{"05/01/2023", "A vs B", "C vs D"},
		{"05/02/2023", "B vs A", "C vs D"},
		{"05/04/2023", "A vs B", "C vs D"},
	})

	for _, want := range []string{
		"A vs B played 3 times (matrix has 2)",
		"C vs D played 3 times (matrix has 2)",
	} {
		if !hasViolation(violations, "error", want) {
			t.Errorf("missing %q in %v", want, violations)
		}
	}
	for _, v := range violations {
		if v.Message == "A vs B played 3 times (matrix has 2)" && v.Row != 4 {
			t.Errorf("row = %d, want 4", v.Row)
		}
	}
	if !hasViolation(violations, "warning", "A vs C unplaced: 0 of 1 scheduled") {
		t.Errorf("expected unplaced warning, got %v", violations)
	}
}

func TestValidateUnknownTeam(t *testing.T) {
	violations := validate(t, [][]string{
		{"05/01/2023", "A vs Z", "C vs D"},
	})

	if len(violations) != 1 {
		t.Fatalf("expected only the unknown team, got %v", violations)
	}
	v := violations[0]
	if v.Type != "error" || v.Row != 2 || v.Message != `unknown team "Z" on 05/01` {
		t.Errorf("got %+v", v)
	}
}

func TestValidateIgnoresNonGameCells(t *testing.T) {
	violations := validate(t, [][]string{
		{"05/01/2023", "A vs B", "C vs D"},
		{"05/02/2023", "Rained out"},
		{"not a date", "A vs B"},
	})

	if got := countType(violations, "error"); got != 0 {
		t.Errorf("errors = %d, want 0: %v", got, violations)
	}
	for _, v := range violations {
		if strings.Contains(v.Message, "05/02") {
			t.Errorf("text cell treated as a game: %s", v.Message)
		}
	}
}

func TestValidateMissingMasterSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	if _, err := Validate(testConfig(t), path); err == nil {
		t.Error("expected error for workbook without a master sheet")
	}
}

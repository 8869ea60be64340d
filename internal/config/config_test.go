package config

import (
	"strings"
	"testing"
	"time"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

const testConfigYAML = `
max_games_per_team: 16

leagues:
  - name: NE
    teams: [NE1, NE2, NE3]
  - name: SL
    teams: [SL1]
  - name: MAG
    teams: [MAG1, MAG2]

distances:
  - leagues: [NE, SL]
    distance: 3
  - leagues: [NE, MAG]
    distance: 3
  - leagues: [SL, MAG]
    distance: 4

season:
  start_date: "2023-04-22"
  end_date: "2023-06-10"
  play_days: [Tuesday, thu, Saturday]
  blackout_dates:
    - date: "2023-05-27"
      reason: "Memorial Day Weekend"

unavailable:
  - team: NE1
    date: "2023-04-25"
    reason: "Tournament"
  - team: SL1
    start_date: "2023-05-01"
    end_date: "2023-05-03"
    reason: "Spring break"

search:
  max_nodes: 50000
`

// minimalYAML is a valid single-league config; tests splice in the
// fragment under test.
func minimalYAML(extra string) string {
	return `
max_games_per_team: 6
leagues:
  - name: A
    teams: [T1, T2, T3, T4]
days:
  - date: "2023-05-01"
` + extra
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("game cap", func(t *testing.T) {
		if cfg.MaxGamesPerTeam != 16 {
			t.Errorf("max games = %d, want 16", cfg.MaxGamesPerTeam)
		}
	})

	t.Run("default strategy", func(t *testing.T) {
		if cfg.Strategy != "interleague_greedy" {
			t.Errorf("strategy = %q, want %q", cfg.Strategy, "interleague_greedy")
		}
	})

	t.Run("leagues", func(t *testing.T) {
		if len(cfg.Leagues) != 3 {
			t.Fatalf("leagues = %d, want 3", len(cfg.Leagues))
		}
		if cfg.Leagues[0].Name != "NE" || len(cfg.Leagues[0].Teams) != 3 {
			t.Errorf("first league = %+v, want NE with 3 teams", cfg.Leagues[0])
		}
	})

	t.Run("distances", func(t *testing.T) {
		if len(cfg.Distances) != 3 {
			t.Fatalf("distances = %d, want 3", len(cfg.Distances))
		}
		if cfg.Distances[2].Distance != 4 {
			t.Errorf("SL-MAG distance = %d, want 4", cfg.Distances[2].Distance)
		}
	})

	t.Run("season", func(t *testing.T) {
		if cfg.Season == nil {
			t.Fatal("season missing")
		}
		if cfg.Season.StartDate.Time != mustDate("2023-04-22") {
			t.Errorf("start date = %v, want 2023-04-22", cfg.Season.StartDate.Time)
		}
		want := []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}
		if len(cfg.Season.PlayDays) != len(want) {
			t.Fatalf("play days = %v, want %v", cfg.Season.PlayDays, want)
		}
		for i, w := range want {
			if cfg.Season.PlayDays[i].Weekday != w {
				t.Errorf("play day %d = %v, want %v", i, cfg.Season.PlayDays[i].Weekday, w)
			}
		}
		if len(cfg.Season.BlackoutDates) != 1 || cfg.Season.BlackoutDates[0].Reason != "Memorial Day Weekend" {
			t.Errorf("blackout dates = %+v", cfg.Season.BlackoutDates)
		}
	})

	t.Run("unavailability", func(t *testing.T) {
		if len(cfg.Unavailable) != 2 {
			t.Fatalf("unavailable = %d, want 2", len(cfg.Unavailable))
		}
		if got := cfg.Unavailable[0].Dates(); len(got) != 1 || got[0] != mustDate("2023-04-25") {
			t.Errorf("single date = %v", got)
		}
		if got := cfg.Unavailable[1].Dates(); len(got) != 3 {
			t.Errorf("range dates = %d, want 3", len(got))
		}
	})

	t.Run("search budget", func(t *testing.T) {
		if cfg.Search.MaxNodes != 50000 {
			t.Errorf("max nodes = %d, want 50000", cfg.Search.MaxNodes)
		}
	})
}

func TestLoadExplicitDays(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(minimalYAML(`    weekend: true
    unavailable: [T1, T2]
  - date: "2023-05-02"
`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(cfg.Days))
	}
	if cfg.Days[0].Weekend == nil || !*cfg.Days[0].Weekend {
		t.Error("first day should be flagged as weekend")
	}
	if cfg.Days[1].Weekend != nil {
		t.Error("second day weekend flag should be unset")
	}
	if len(cfg.Days[0].Unavailable) != 2 {
		t.Errorf("unavailable = %v, want [T1 T2]", cfg.Days[0].Unavailable)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "zero game cap",
			yaml: `
max_games_per_team: 0
leagues:
  - name: A
    teams: [T1, T2]
days:
  - date: "2023-05-01"
`,
			want: "max_games_per_team",
		},
		{
			name: "no leagues",
			yaml: `
max_games_per_team: 4
leagues: []
days:
  - date: "2023-05-01"
`,
			want: "at least one league",
		},
		{
			name: "duplicate team names",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
  - name: B
    teams: [T1, T3]
distances:
  - leagues: [A, B]
    distance: 1
days:
  - date: "2023-05-01"
`,
			want: "appears in both",
		},
		{
			name: "missing distance",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
  - name: B
    teams: [T3, T4]
days:
  - date: "2023-05-01"
`,
			want: "missing distance",
		},
		{
			name: "negative distance",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
  - name: B
    teams: [T3, T4]
distances:
  - leagues: [A, B]
    distance: -1
days:
  - date: "2023-05-01"
`,
			want: "must not be negative",
		},
		{
			name: "unknown league in distance",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
distances:
  - leagues: [A, Z]
    distance: 2
days:
  - date: "2023-05-01"
`,
			want: "unknown league",
		},
		{
			name: "no calendar",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
`,
			want: "season or an explicit list of days",
		},
		{
			name: "season without play days",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
season:
  start_date: "2023-05-01"
  end_date: "2023-05-10"
`,
			want: "play day",
		},
		{
			name: "end before start",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
season:
  start_date: "2023-06-01"
  end_date: "2023-05-01"
  play_days: [Saturday]
`,
			want: "must not be before",
		},
		{
			name: "unknown team on a day",
			yaml: minimalYAML(`    unavailable: [T9]
`),
			want: "unknown team",
		},
		{
			name: "unavailability with date and range",
			yaml: minimalYAML(`unavailable:
  - team: T1
    date: "2023-05-01"
    start_date: "2023-05-01"
    end_date: "2023-05-02"
`),
			want: "cannot have both",
		},
		{
			name: "unavailability with half a range",
			yaml: minimalYAML(`unavailable:
  - team: T1
    start_date: "2023-05-01"
`),
			want: "must have both",
		},
		{
			name: "bad weekday",
			yaml: `
max_games_per_team: 8
leagues:
  - name: A
    teams: [T1, T2]
season:
  start_date: "2023-05-01"
  end_date: "2023-05-10"
  play_days: [Someday]
`,
			want: "invalid weekday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestAllTeams(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	teams := cfg.AllTeams()
	if len(teams) != 6 {
		t.Errorf("AllTeams() = %d teams, want 6", len(teams))
	}

	index := cfg.TeamIndex()
	if index["SL1"] != 3 || index["MAG2"] != 5 {
		t.Errorf("TeamIndex() = %v", index)
	}

	leagues := cfg.LeagueIndex()
	if leagues["MAG"] != 2 {
		t.Errorf("LeagueIndex()[MAG] = %d, want 2", leagues["MAG"])
	}
}

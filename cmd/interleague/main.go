package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/district8/interleague/internal/backtrack"
	"github.com/district8/interleague/internal/config"
	"github.com/district8/interleague/internal/excel"
	"github.com/district8/interleague/internal/schedule"
	"github.com/district8/interleague/internal/strategy"
	"github.com/district8/interleague/internal/validator"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "interleague",
		Short: "Interleague game scheduler",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print roster state and search statistics")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	matrixCmd := &cobra.Command{
		Use:          "matrix",
		Short:        "Print the opponent matrix and travel summary",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runMatrix(configPath, verbose)
		},
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate schedules",
	}

	var outputFile string
	var maxNodes int
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			opts := generateOptions{output: outputFile, verbose: verbose, maxNodes: -1}
			if cmd.Flags().Changed("max-nodes") {
				opts.maxNodes = maxNodes
			}
			return runGenerate(configPath, opts)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "Stop after visiting this many search states (0 = unbounded; default from config)")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule against the config",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, matrixCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Interleague Season Configuration
# ================================
# This file defines the parameters for generating an interleague schedule.

# Every team plays at most this many games. Each league's in-league games
# (two against every league mate) must fit under the cap.
max_games_per_team: 16

# Strategy determines how the opponent matrix is built.
# "interleague_greedy" plays every in-league opponent twice, gives each
# league pair (closest first) one round of games, then fills remaining
# capacity with the pairs that have played least.
strategy: interleague_greedy

# Leagues and their teams. League sizes can vary. Team names must be
# unique across all leagues.
leagues:
  - name: NE
    teams: [NE1, NE2, NE3]
  - name: SL
    teams: [SL1]
  - name: MAG
    teams: [MAG1, MAG2]
  - name: QA
    teams: [QA1]
  - name: NW
    teams: [NW1]
  - name: RUG
    teams: [RUG1]
  - name: BAL
    teams: [BAL1, BAL2]
  - name: NC
    teams: [NC1]

# Travel distance between every pair of leagues. A league is always 0
# from itself.
distances:
  - leagues: [NE, SL]
    distance: 3
  - leagues: [NE, MAG]
    distance: 3
  - leagues: [NE, QA]
    distance: 3
  - leagues: [NE, NW]
    distance: 3
  - leagues: [NE, RUG]
    distance: 1
  - leagues: [NE, BAL]
    distance: 3
  - leagues: [NE, NC]
    distance: 2
  - leagues: [SL, MAG]
    distance: 4
  - leagues: [SL, QA]
    distance: 4
  - leagues: [SL, NW]
    distance: 1
  - leagues: [SL, RUG]
    distance: 1
  - leagues: [SL, BAL]
    distance: 2
  - leagues: [SL, NC]
    distance: 2
  - leagues: [MAG, QA]
    distance: 1
  - leagues: [MAG, NW]
    distance: 2
  - leagues: [MAG, RUG]
    distance: 2
  - leagues: [MAG, BAL]
    distance: 1
  - leagues: [MAG, NC]
    distance: 1
  - leagues: [QA, NW]
    distance: 2
  - leagues: [QA, RUG]
    distance: 2
  - leagues: [QA, BAL]
    distance: 1
  - leagues: [QA, NC]
    distance: 1
  - leagues: [NW, RUG]
    distance: 2
  - leagues: [NW, BAL]
    distance: 1
  - leagues: [NW, NC]
    distance: 1
  - leagues: [RUG, BAL]
    distance: 2
  - leagues: [RUG, NC]
    distance: 1
  - leagues: [BAL, NC]
    distance: 1

# Season defines the calendar. Games are played on each play day between
# start_date and end_date, except blackout dates.
season:
  start_date: "2023-04-22"
  end_date: "2023-06-10"
  play_days: [Tuesday, Saturday]
  blackout_dates:
    - date: "2023-05-27"
      reason: "Memorial Day Weekend"

# Teams that cannot play on a date or date range. Every day must leave an
# even number of teams available.
#
# Single date:
#   - team: NE1
#     date: "2023-04-25"
#     reason: "Tournament"
#
# Date range:
#   - team: NE1
#     start_date: "2023-05-01"
#     end_date: "2023-05-07"
#     reason: "Spring break"
unavailable: []

# Explicit days replace the season calendar when present.
#   - date: "2023-04-22"
#     weekend: true
#     unavailable: [NE2, SL1]
days: []

# Search limits the number of states the scheduler visits. 0 = unbounded.
search:
  max_nodes: 2000000
`

// buildMatchups loads the config and runs its strategy.
func buildMatchups(configPath string) (*config.Config, *strategy.Result, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return nil, nil, err
	}

	matchups, err := strat.BuildMatchups(strategy.NewRoster(cfg.Leagues), strategy.DistancesFromConfig(cfg), cfg.MaxGamesPerTeam)
	if err != nil {
		return nil, nil, fmt.Errorf("building matchups: %w", err)
	}
	return cfg, matchups, nil
}

func runMatrix(configPath string, verbose bool) error {
	cfg, matchups, err := buildMatchups(configPath)
	if err != nil {
		return err
	}
	roster := matchups.Roster

	fmt.Printf("Opponent matrix (%d games, cap %d per team):\n\n", len(matchups.Games), cfg.MaxGamesPerTeam)
	fmt.Printf("  %-8s", "")
	for ti := range roster.Teams {
		fmt.Printf(" %5s", roster.TeamName(ti))
	}
	fmt.Println()
	for i := range matchups.Matrix {
		fmt.Printf("  %-8s", roster.TeamName(i))
		for j := range matchups.Matrix[i] {
			fmt.Printf(" %5d", matchups.Matrix.Get(i, j))
		}
		fmt.Println()
	}

	printTravel(roster, strategy.TravelSummary(roster, strategy.DistancesFromConfig(cfg)))

	if verbose {
		fmt.Println("\nRoster:")
		fmt.Print(roster.String())
	}
	return nil
}

func printTravel(roster *strategy.Roster, travel []strategy.Travel) {
	fmt.Println("\nPer Team Travel:")
	fmt.Printf("  %-15s %-8s %6s %12s %9s\n", "Team", "League", "Games", "Interleague", "Distance")
	for _, t := range travel {
		league := roster.Leagues[roster.Teams[t.Team].League].Name
		fmt.Printf("  %-15s %-8s %6d %12d %9d\n", roster.TeamName(t.Team), league, t.Games, t.Interleague, t.Distance)
	}
}

type generateOptions struct {
	output   string
	verbose  bool
	maxNodes int // negative means use the config value
}

func runGenerate(configPath string, opts generateOptions) error {
	cfg, matchups, err := buildMatchups(configPath)
	if err != nil {
		return err
	}

	days, err := schedule.GenerateDays(cfg)
	if err != nil {
		return fmt.Errorf("generating days: %w", err)
	}
	blackouts := schedule.GenerateBlackouts(cfg)

	maxNodes := cfg.Search.MaxNodes
	if opts.maxNodes >= 0 {
		maxNodes = opts.maxNodes
	}

	fmt.Printf("Scheduling %d games into %d days...\n", len(matchups.Games), len(days))

	result, err := schedule.Solve(days, matchups.Games, schedule.Options{MaxNodes: maxNodes})
	if opts.verbose {
		fmt.Printf("  search visited %d states, pruned %d\n", result.Stats.Visited, result.Stats.Pruned)
	}
	if errors.Is(err, backtrack.ErrBudgetExhausted) {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", err)
		return fmt.Errorf("search stopped after %d states; raise --max-nodes or search.max_nodes", maxNodes)
	}
	if err != nil {
		return err
	}
	if !result.Solved {
		fmt.Fprintln(os.Stderr, "✗ No solution found")
		return fmt.Errorf("no assignment fills all %d days from %d games", len(days), len(matchups.Games))
	}

	fmt.Printf("✓ %d of %d games placed on %d days\n", result.Placed(), len(matchups.Games), len(result.Days))

	printTravel(matchups.Roster, strategy.TravelSummary(matchups.Roster, strategy.DistancesFromConfig(cfg)))

	if len(result.Unplaced) > 0 {
		fmt.Printf("\nUnplaced games (%d):\n", len(result.Unplaced))
		for _, g := range result.Unplaced {
			fmt.Printf("  ⚠ %s\n", excel.GameCell(matchups.Roster, g))
		}
	} else {
		fmt.Println("\n✓ Every game placed")
	}

	if opts.verbose {
		fmt.Println("\nDays:")
		for _, d := range result.Days {
			games := make([]string, len(d.Games))
			for i, g := range d.Games {
				games[i] = excel.GameCell(matchups.Roster, g)
			}
			fmt.Printf("  %s  %s  (distance %d)\n", d.Label(), strings.Join(games, ", "), d.Distance())
		}
	}

	f, err := excel.Generate(cfg, matchups, result, blackouts)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(opts.output); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", opts.output)
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	ruleViolations := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			ruleViolations++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Warning: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d warnings\n", ruleViolations, warnings)

	if ruleViolations > 0 {
		return fmt.Errorf("%d constraint violations found", ruleViolations)
	}
	return nil
}

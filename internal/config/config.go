package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// Weekday is a wrapper around time.Weekday accepting "Saturday" or "sat".
type Weekday struct {
	time.Weekday
}

func (w *Weekday) UnmarshalYAML(value *yaml.Node) error {
	name := strings.ToLower(strings.TrimSpace(value.Value))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			w.Weekday = d
			return nil
		}
	}
	return fmt.Errorf("invalid weekday %q", value.Value)
}

type BlackoutDate struct {
	Date   Date   `yaml:"date"`
	Reason string `yaml:"reason"`
}

type Season struct {
	StartDate     Date           `yaml:"start_date"`
	EndDate       Date           `yaml:"end_date"`
	PlayDays      []Weekday      `yaml:"play_days"`
	BlackoutDates []BlackoutDate `yaml:"blackout_dates"`
}

// Unavailability keeps one team off the calendar for a date or date range.
type Unavailability struct {
	Team      string `yaml:"team"`
	Date      *Date  `yaml:"date"`
	StartDate *Date  `yaml:"start_date"`
	EndDate   *Date  `yaml:"end_date"`
	Reason    string `yaml:"reason"`
}

// Dates returns all dates covered by this entry.
// Supports single date (date:) or range (start_date:/end_date:).
func (u *Unavailability) Dates() []time.Time {
	if u.StartDate != nil && u.EndDate != nil {
		var dates []time.Time
		d := u.StartDate.Time
		for !d.After(u.EndDate.Time) {
			dates = append(dates, d)
			d = d.AddDate(0, 0, 1)
		}
		return dates
	}
	if u.Date != nil {
		return []time.Time{u.Date.Time}
	}
	return nil
}

type League struct {
	Name  string   `yaml:"name"`
	Teams []string `yaml:"teams"`
}

// Distance is the travel cost between two leagues.
type Distance struct {
	Leagues  []string `yaml:"leagues"`
	Distance int      `yaml:"distance"`
}

// Day is an explicit calendar entry. When any are present they replace
// the days generated from the season window.
type Day struct {
	Date        Date     `yaml:"date"`
	Weekend     *bool    `yaml:"weekend"`
	Unavailable []string `yaml:"unavailable"`
}

type Search struct {
	MaxNodes int `yaml:"max_nodes"`
}

type Config struct {
	MaxGamesPerTeam int              `yaml:"max_games_per_team"`
	Strategy        string           `yaml:"strategy"`
	Leagues         []League         `yaml:"leagues"`
	Distances       []Distance       `yaml:"distances"`
	Season          *Season          `yaml:"season"`
	Unavailable     []Unavailability `yaml:"unavailable"`
	Days            []Day            `yaml:"days"`
	Search          Search           `yaml:"search"`
}

// AllTeams returns all team names across all leagues, in index order.
func (c *Config) AllTeams() []string {
	var teams []string
	for _, l := range c.Leagues {
		teams = append(teams, l.Teams...)
	}
	return teams
}

// TeamIndex maps each team name to its index in AllTeams.
func (c *Config) TeamIndex() map[string]int {
	index := make(map[string]int)
	for i, team := range c.AllTeams() {
		index[team] = i
	}
	return index
}

// LeagueIndex maps each league name to its position in Leagues.
func (c *Config) LeagueIndex() map[string]int {
	index := make(map[string]int)
	for i, l := range c.Leagues {
		index[l.Name] = i
	}
	return index
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "interleague_greedy"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.MaxGamesPerTeam < 1 {
		return fmt.Errorf("max_games_per_team must be at least 1, got %d", c.MaxGamesPerTeam)
	}

	if len(c.Leagues) == 0 {
		return fmt.Errorf("at least one league is required")
	}

	// Check for duplicate league and team names
	leagues := make(map[string]bool)
	seen := make(map[string]string)
	for _, l := range c.Leagues {
		if leagues[l.Name] {
			return fmt.Errorf("league %q is defined twice", l.Name)
		}
		leagues[l.Name] = true
		if len(l.Teams) == 0 {
			return fmt.Errorf("league %q has no teams", l.Name)
		}
		for _, team := range l.Teams {
			if prev, ok := seen[team]; ok {
				return fmt.Errorf("team %q appears in both %q and %q leagues", team, prev, l.Name)
			}
			seen[team] = l.Name
		}
	}

	type leaguePair struct{ a, b string }
	distances := make(map[leaguePair]bool)
	for _, d := range c.Distances {
		if len(d.Leagues) != 2 {
			return fmt.Errorf("distance entry must name exactly two leagues, got %v", d.Leagues)
		}
		a, b := d.Leagues[0], d.Leagues[1]
		for _, name := range d.Leagues {
			if !leagues[name] {
				return fmt.Errorf("distance references unknown league %q", name)
			}
		}
		if a == b {
			return fmt.Errorf("distance from league %q to itself is always 0", a)
		}
		if d.Distance < 0 {
			return fmt.Errorf("distance %s-%s must not be negative, got %d", a, b, d.Distance)
		}
		if a > b {
			a, b = b, a
		}
		if distances[leaguePair{a, b}] {
			return fmt.Errorf("distance %s-%s is defined twice", a, b)
		}
		distances[leaguePair{a, b}] = true
	}
	for i := 0; i < len(c.Leagues); i++ {
		for j := i + 1; j < len(c.Leagues); j++ {
			a, b := c.Leagues[i].Name, c.Leagues[j].Name
			if a > b {
				a, b = b, a
			}
			if !distances[leaguePair{a, b}] {
				return fmt.Errorf("missing distance between leagues %q and %q", c.Leagues[i].Name, c.Leagues[j].Name)
			}
		}
	}

	if len(c.Days) == 0 && c.Season == nil {
		return fmt.Errorf("either a season or an explicit list of days is required")
	}

	if c.Season != nil && len(c.Days) == 0 {
		if c.Season.EndDate.Time.Before(c.Season.StartDate.Time) {
			return fmt.Errorf("end date %s must not be before start date %s",
				c.Season.EndDate.Time.Format("2006-01-02"),
				c.Season.StartDate.Time.Format("2006-01-02"))
		}
		if len(c.Season.PlayDays) == 0 {
			return fmt.Errorf("season needs at least one play day")
		}
	}

	for _, u := range c.Unavailable {
		if _, ok := seen[u.Team]; !ok {
			return fmt.Errorf("unavailability references unknown team %q", u.Team)
		}
		hasDate := u.Date != nil
		hasRange := u.StartDate != nil || u.EndDate != nil
		if !hasDate && !hasRange {
			return fmt.Errorf("team %q: unavailability must have either 'date' or 'start_date'/'end_date'", u.Team)
		}
		if hasDate && hasRange {
			return fmt.Errorf("team %q: unavailability cannot have both 'date' and 'start_date'/'end_date'", u.Team)
		}
		if hasRange && (u.StartDate == nil || u.EndDate == nil) {
			return fmt.Errorf("team %q: unavailability with date range must have both 'start_date' and 'end_date'", u.Team)
		}
		if hasRange && u.EndDate.Time.Before(u.StartDate.Time) {
			return fmt.Errorf("team %q: unavailability end_date must be on or after start_date", u.Team)
		}
	}

	days := make(map[time.Time]bool)
	for _, d := range c.Days {
		if days[d.Date.Time] {
			return fmt.Errorf("day %s is listed twice", d.Date.Time.Format("2006-01-02"))
		}
		days[d.Date.Time] = true
		for _, team := range d.Unavailable {
			if _, ok := seen[team]; !ok {
				return fmt.Errorf("day %s references unknown team %q", d.Date.Time.Format("2006-01-02"), team)
			}
		}
	}

	return nil
}

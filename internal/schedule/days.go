package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/district8/interleague/internal/config"
	"github.com/district8/interleague/internal/strategy"
)

// ErrOddDay is returned when a day leaves an odd number of teams
// available, which can never be paired off completely.
var ErrOddDay = errors.New("odd number of teams available")

// Day is one calendar day. Available shrinks as games are placed; a day
// is full once it is empty. Weekend is informational only.
type Day struct {
	Date        time.Time
	Weekend     bool
	Unavailable TeamSet
	Available   TeamSet
	Games       []strategy.Game
}

// NewDay returns a pristine day on which every team of numTeams except
// unavailable may play.
func NewDay(date time.Time, weekend bool, numTeams int, unavailable ...int) Day {
	out := NewTeamSet(unavailable...)
	return Day{
		Date:        date,
		Weekend:     weekend,
		Unavailable: out,
		Available:   Range(numTeams).Without(out...),
	}
}

// Label formats the date for display.
func (d Day) Label() string {
	return d.Date.Format("2006-01-02")
}

// Full reports whether every available team has been given a game.
func (d Day) Full() bool {
	return d.Available.Len() == 0
}

// Distance returns the total travel of the day's games.
func (d Day) Distance() int {
	return lo.SumBy(d.Games, func(g strategy.Game) int { return g.Distance })
}

// Blackout is a season date with no games for anybody.
type Blackout struct {
	Date   time.Time
	Reason string
}

// GenerateDays builds the calendar from the config: the explicit day list
// when present, otherwise every play day in the season window that is not
// blacked out. Team unavailability entries apply to both.
func GenerateDays(cfg *config.Config) ([]Day, error) {
	teamIndex := cfg.TeamIndex()
	numTeams := len(teamIndex)

	// date -> unavailable team indices
	unavailable := make(map[time.Time][]int)
	for _, u := range cfg.Unavailable {
		for _, d := range u.Dates() {
			unavailable[d] = append(unavailable[d], teamIndex[u.Team])
		}
	}

	var days []Day
	if len(cfg.Days) > 0 {
		for _, cd := range cfg.Days {
			weekend := isWeekend(cd.Date.Time)
			if cd.Weekend != nil {
				weekend = *cd.Weekend
			}
			out := unavailable[cd.Date.Time]
			for _, team := range cd.Unavailable {
				out = append(out, teamIndex[team])
			}
			days = append(days, NewDay(cd.Date.Time, weekend, numTeams, out...))
		}
		sort.SliceStable(days, func(i, j int) bool {
			return days[i].Date.Before(days[j].Date)
		})
	} else {
		blackoutDates := make(map[time.Time]bool)
		for _, b := range cfg.Season.BlackoutDates {
			blackoutDates[b.Date.Time] = true
		}
		playDays := make(map[time.Weekday]bool)
		for _, w := range cfg.Season.PlayDays {
			playDays[w.Weekday] = true
		}

		d := cfg.Season.StartDate.Time
		for !d.After(cfg.Season.EndDate.Time) {
			if playDays[d.Weekday()] && !blackoutDates[d] {
				days = append(days, NewDay(d, isWeekend(d), numTeams, unavailable[d]...))
			}
			d = d.AddDate(0, 0, 1)
		}
	}

	for _, day := range days {
		if n := day.Available.Len(); n%2 != 0 {
			return nil, fmt.Errorf("day %s has %d teams available: %w", day.Label(), n, ErrOddDay)
		}
	}
	return days, nil
}

// GenerateBlackouts returns the season's blackout dates in date order.
func GenerateBlackouts(cfg *config.Config) []Blackout {
	if cfg.Season == nil {
		return nil
	}
	blackouts := lo.Map(cfg.Season.BlackoutDates, func(b config.BlackoutDate, _ int) Blackout {
		return Blackout{Date: b.Date.Time, Reason: b.Reason}
	})
	sort.Slice(blackouts, func(i, j int) bool {
		return blackouts[i].Date.Before(blackouts[j].Date)
	})
	return blackouts
}

func isWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}

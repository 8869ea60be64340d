package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/district8/interleague/internal/config"
	"github.com/district8/interleague/internal/schedule"
	"github.com/district8/interleague/internal/strategy"
)

const (
	MasterSheet   = "Master Schedule"
	MatrixSheet   = "Opponent Matrix"
	TravelSheet   = "Travel"
	UnplacedSheet = "Unplaced"

	DateFormat = "01/02/2006"

	// GameSeparator joins the two teams of a game cell.
	GameSeparator = " vs "
)

// firstGameCol is the 1-based column of the first game on the master
// sheet, after Date, Day and Weekend.
const firstGameCol = 4

// Generate creates an Excel workbook with the master schedule, per-team
// sheets, the opponent matrix and the travel summary.
func Generate(cfg *config.Config, matchups *strategy.Result, result *schedule.Result, blackouts []schedule.Blackout) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	w := &writer{f: f, roster: matchups.Roster}
	if err := w.styles(); err != nil {
		return nil, fmt.Errorf("creating styles: %w", err)
	}

	if err := w.writeMasterSheet(result, blackouts); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}

	if err := w.writeTeamSheets(result); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	if err := w.writeMatrixSheet(matchups.Matrix); err != nil {
		return nil, fmt.Errorf("writing matrix sheet: %w", err)
	}

	travel := strategy.TravelSummary(matchups.Roster, strategy.DistancesFromConfig(cfg))
	if err := w.writeTravelSheet(travel); err != nil {
		return nil, fmt.Errorf("writing travel sheet: %w", err)
	}

	if len(result.Unplaced) > 0 {
		if err := w.writeUnplacedSheet(result.Unplaced); err != nil {
			return nil, fmt.Errorf("writing unplaced sheet: %w", err)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// GameCell renders a game the way the master sheet stores it.
func GameCell(r *strategy.Roster, g strategy.Game) string {
	return r.TeamName(g.Team0) + GameSeparator + r.TeamName(g.Team1)
}

// ParseGameCell splits "A vs B" into its two team names.
// Returns ("", "", false) if the cell doesn't match the game format.
func ParseGameCell(cell string) (team0, team1 string, ok bool) {
	team0, team1, ok = strings.Cut(cell, GameSeparator)
	if !ok || team0 == "" || team1 == "" {
		return "", "", false
	}
	return team0, team1, true
}

type writer struct {
	f      *excelize.File
	roster *strategy.Roster

	headerStyle int
	cellStyle   int
	gameStyle   int
	offStyle    int
}

func (w *writer) styles() error {
	var err error
	w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	w.cellStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})
	if err != nil {
		return err
	}
	w.gameStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	w.offStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial", Italic: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	return err
}

func (w *writer) writeHeader(sheet string, headers []string) error {
	for i, h := range headers {
		if err := w.f.SetCellValue(sheet, cellRef(i+1, 1), h); err != nil {
			return err
		}
	}
	return w.f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), w.headerStyle)
}

func (w *writer) writeRow(sheet string, row int, values []any, style int) error {
	for i, v := range values {
		if err := w.f.SetCellValue(sheet, cellRef(i+1, row), v); err != nil {
			return err
		}
	}
	if len(values) == 0 {
		return nil
	}
	return w.f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), style)
}

func (w *writer) teamNames(set schedule.TeamSet) string {
	names := make([]string, len(set))
	for i, ti := range set {
		names[i] = w.roster.TeamName(ti)
	}
	return strings.Join(names, ", ")
}

// writeMasterSheet lays out one row per calendar day:
// Date, Day, Weekend, Game 1..Game N, Off.
// Blackout dates get a row with the reason in the Off column.
func (w *writer) writeMasterSheet(result *schedule.Result, blackouts []schedule.Blackout) error {
	sheet := MasterSheet
	if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}

	gameCols := len(w.roster.Teams) / 2
	headers := []string{"Date", "Day", "Weekend"}
	for i := range gameCols {
		headers = append(headers, fmt.Sprintf("Game %d", i+1))
	}
	headers = append(headers, "Off")
	offCol := len(headers)
	if err := w.writeHeader(sheet, headers); err != nil {
		return err
	}

	type masterRow struct {
		date    time.Time
		weekend bool
		games   []strategy.Game
		off     string
		blocked bool
	}
	var rows []masterRow
	for _, d := range result.Days {
		rows = append(rows, masterRow{date: d.Date, weekend: d.Weekend, games: d.Games, off: w.teamNames(d.Unavailable)})
	}
	for _, b := range blackouts {
		rows = append(rows, masterRow{date: b.Date, weekend: b.Date.Weekday() == time.Saturday || b.Date.Weekday() == time.Sunday, off: b.Reason, blocked: true})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date.Before(rows[j].date)
	})

	for i, r := range rows {
		row := i + 2
		weekend := ""
		if r.weekend {
			weekend = "Yes"
		}
		if err := w.writeRow(sheet, row, []any{r.date.Format(DateFormat), r.date.Format("Mon"), weekend}, w.cellStyle); err != nil {
			return err
		}
		for gi, g := range r.games {
			col := firstGameCol + gi
			if err := w.f.SetCellValue(sheet, cellRef(col, row), GameCell(w.roster, g)); err != nil {
				return err
			}
			if err := w.f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), w.gameStyle); err != nil {
				return err
			}
		}
		if r.off != "" {
			style := w.cellStyle
			if r.blocked {
				style = w.offStyle
			}
			if err := w.f.SetCellValue(sheet, cellRef(offCol, row), r.off); err != nil {
				return err
			}
			if err := w.f.SetCellStyle(sheet, cellRef(offCol, row), cellRef(offCol, row), style); err != nil {
				return err
			}
		}
	}

	w.f.SetColWidth(sheet, "A", "A", 16)
	w.f.SetColWidth(sheet, "B", "B", 8)
	w.f.SetColWidth(sheet, "C", "C", 12)
	if gameCols > 0 {
		w.f.SetColWidth(sheet, colLetter(firstGameCol), colLetter(firstGameCol+gameCols-1), 24)
	}
	w.f.SetColWidth(sheet, colLetter(offCol), colLetter(offCol), 40)
	return nil
}

func (w *writer) writeTeamSheets(result *schedule.Result) error {
	for ti := range w.roster.Teams {
		sheet := w.roster.TeamName(ti)
		if _, err := w.f.NewSheet(sheet); err != nil {
			return err
		}

		headers := []string{"Date", "Day", "Opponent", "League", "Distance"}
		if err := w.writeHeader(sheet, headers); err != nil {
			return err
		}

		row := 2
		for _, d := range result.Days {
			for _, g := range d.Games {
				if !g.Has(ti) {
					continue
				}
				opponent := g.Team0
				if opponent == ti {
					opponent = g.Team1
				}
				league := w.roster.Leagues[w.roster.Teams[opponent].League].Name
				values := []any{d.Date.Format(DateFormat), d.Date.Format("Mon"), w.roster.TeamName(opponent), league, g.Distance}
				if err := w.writeRow(sheet, row, values, w.cellStyle); err != nil {
					return err
				}
				row++
			}
		}

		widths := map[string]float64{"A": 16, "B": 8, "C": 18, "D": 12, "E": 12}
		for col, width := range widths {
			w.f.SetColWidth(sheet, col, col, width)
		}
	}
	return nil
}

func (w *writer) writeMatrixSheet(m strategy.Matrix) error {
	sheet := MatrixSheet
	if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{""}
	for ti := range w.roster.Teams {
		headers = append(headers, w.roster.TeamName(ti))
	}
	if err := w.writeHeader(sheet, headers); err != nil {
		return err
	}

	for i := range m {
		values := []any{w.roster.TeamName(i)}
		for j := range m[i] {
			values = append(values, m.Get(i, j))
		}
		if err := w.writeRow(sheet, i+2, values, w.gameStyle); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeTravelSheet(travel []strategy.Travel) error {
	sheet := TravelSheet
	if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Team", "League", "Games", "Interleague", "Distance"}
	if err := w.writeHeader(sheet, headers); err != nil {
		return err
	}

	for i, t := range travel {
		league := w.roster.Leagues[w.roster.Teams[t.Team].League].Name
		values := []any{w.roster.TeamName(t.Team), league, t.Games, t.Interleague, t.Distance}
		if err := w.writeRow(sheet, i+2, values, w.cellStyle); err != nil {
			return err
		}
	}
	w.f.SetColWidth(sheet, "A", "E", 16)
	return nil
}

func (w *writer) writeUnplacedSheet(games []strategy.Game) error {
	sheet := UnplacedSheet
	if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}

	if err := w.writeHeader(sheet, []string{"Game", "Distance"}); err != nil {
		return err
	}
	for i, g := range games {
		if err := w.writeRow(sheet, i+2, []any{GameCell(w.roster, g), g.Distance}, w.cellStyle); err != nil {
			return err
		}
	}
	w.f.SetColWidth(sheet, "A", "A", 24)
	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

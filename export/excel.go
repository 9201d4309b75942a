package export

import (
	"fmt"
	"strings"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/xuri/excelize/v2"
)

const (
	MasterSheet  = "Schedule"
	maxSheetName = 31
	headerColor  = "#4472C4"
	fontFamily   = "Arial"
	defaultSheet = "Sheet1"
)

// Workbook renders a schedule with one master sheet and one sheet per team.
func Workbook(competition *models.Competition) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetDefaultFont(fontFamily); err != nil {
		return nil, fmt.Errorf("setting default font: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeMasterSheet(f, styles, competition); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}
	if err := writeTeamSheets(f, styles, competition); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}
	return f, nil
}

// FromPlans wraps unsaved round plans so they can be rendered without a database.
func FromPlans(name string, format models.CompetitionFormat, teamIDs []string, plans []*brackets.RoundPlan) *models.Competition {
	competition := &models.Competition{
		Name:    name,
		Format:  format,
		State:   models.StateDraft,
		TeamIDs: teamIDs,
		Rounds:  make([]models.Round, 0, len(plans)),
	}
	for _, plan := range plans {
		round := models.Round{Number: plan.Number, Name: plan.Name}
		for _, p := range plan.Matches {
			round.Matches = append(round.Matches, models.Match{
				Number:     p.Number,
				HomeTeamID: p.HomeTeamID,
				AwayTeamID: p.AwayTeamID,
			})
		}
		competition.Rounds = append(competition.Rounds, round)
	}
	return competition
}

type styles struct {
	header int
	cell   int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: fontFamily},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return styles{}, fmt.Errorf("creating header style: %w", err)
	}
	cell, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Family: fontFamily},
	})
	if err != nil {
		return styles{}, fmt.Errorf("creating cell style: %w", err)
	}
	return styles{header: header, cell: cell}, nil
}

func writeRow(f *excelize.File, sheet string, row int, style int, values ...interface{}) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func writeMasterSheet(f *excelize.File, st styles, competition *models.Competition) error {
	// the default sheet becomes the master, so no team sheet can collide with it
	if err := f.SetSheetName(defaultSheet, MasterSheet); err != nil {
		return err
	}

	if err := writeRow(f, MasterSheet, 1, st.header, "Round", "Name", "Match", "Home", "Away"); err != nil {
		return err
	}

	row := 2
	for _, round := range competition.Rounds {
		for _, m := range round.Matches {
			if err := writeRow(f, MasterSheet, row, st.cell, round.Number, round.Name, m.Number, m.HomeTeamID, m.AwayTeamID); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(MasterSheet, "A", "A", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(MasterSheet, "B", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(MasterSheet, "C", "C", 8); err != nil {
		return err
	}
	return f.SetColWidth(MasterSheet, "D", "E", 24)
}

func writeTeamSheets(f *excelize.File, st styles, competition *models.Competition) error {
	used := map[string]bool{strings.ToLower(MasterSheet): true}
	for _, team := range teamsOf(competition) {
		sheet := uniqueSheetName(team, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet for %q: %w", team, err)
		}

		if err := writeRow(f, sheet, 1, st.header, "Round", "Name", "Opponent", "Home/Away"); err != nil {
			return err
		}

		row := 2
		for _, round := range competition.Rounds {
			for _, m := range round.Matches {
				var opponent, side string
				switch team {
				case m.HomeTeamID:
					opponent, side = m.AwayTeamID, "Home"
				case m.AwayTeamID:
					opponent, side = m.HomeTeamID, "Away"
				default:
					continue
				}
				if err := writeRow(f, sheet, row, st.cell, round.Number, round.Name, opponent, side); err != nil {
					return err
				}
				row++
			}
		}

		widths := map[string]float64{"A": 8, "B": 18, "C": 24, "D": 12}
		for col, w := range widths {
			if err := f.SetColWidth(sheet, col, col, w); err != nil {
				return err
			}
		}
	}
	return nil
}

// teamsOf returns the entered teams, or every team seen in a match when none are listed.
func teamsOf(competition *models.Competition) []string {
	if len(competition.TeamIDs) > 0 {
		return competition.TeamIDs
	}
	seen := make(map[string]bool)
	var teams []string
	for _, round := range competition.Rounds {
		for _, m := range round.Matches {
			for _, id := range []string{m.HomeTeamID, m.AwayTeamID} {
				if !seen[id] {
					seen[id] = true
					teams = append(teams, id)
				}
			}
		}
	}
	return teams
}

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

// uniqueSheetName maps a team id to a valid sheet name. Sheet names compare case-insensitively.
func uniqueSheetName(teamID string, used map[string]bool) string {
	base := strings.Trim(sheetNameReplacer.Replace(teamID), "'")
	if base == "" {
		base = "Team"
	}
	base = truncate(base, maxSheetName)

	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

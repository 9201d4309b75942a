package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTeams(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunPreviewKnockout(t *testing.T) {
	path := writeTeams(t, `
name: Spring Cup
format: KNOCKOUT
teams: [Lions, Tigers, Bears, Wolves, Hawks]
`)

	var out bytes.Buffer
	require.NoError(t, runPreview(&out, path, ""))

	text := out.String()
	assert.Contains(t, text, "Spring Cup (Knockout, 5 teams)")
	assert.Contains(t, text, "bracket of 8, 3 byes, 3 rounds")
	assert.Contains(t, text, "Round 1: Quarter-Final")
	assert.Contains(t, text, "Bears: no match")
}

func TestRunPreviewSeededPlayoffShowsBracket(t *testing.T) {
	path := writeTeams(t, `
name: Playoffs
format: SEEDED_PLAYOFF
teams: [S1, S2, S3, S4, S5, S6]
`)

	var out bytes.Buffer
	require.NoError(t, runPreview(&out, path, ""))

	text := out.String()
	assert.Contains(t, text, "Playoffs (SeededPlayoff, 6 teams)")
	assert.Contains(t, text, "bracket of 8, 2 byes, 3 rounds")
}

func TestRunPreviewWritesWorkbook(t *testing.T) {
	path := writeTeams(t, `
name: League
format: SINGLE_ROUND_ROBIN
teams: [A, B, C, D]
`)
	output := filepath.Join(t.TempDir(), "schedule.xlsx")

	var out bytes.Buffer
	require.NoError(t, runPreview(&out, path, output))
	assert.Contains(t, out.String(), "Round 3")
	assert.Contains(t, out.String(), "Schedule written to")

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Schedule")
}

func TestRunPreviewRejectsBadFile(t *testing.T) {
	path := writeTeams(t, `
name: Lonely
format: KNOCKOUT
teams: [Solo]
`)
	err := runPreview(&bytes.Buffer{}, path, "")
	assert.Error(t, err)

	err = runPreview(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

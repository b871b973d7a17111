package census

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "ts003.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadHouseholdsSumsPerConstituency(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{headerCode, headerName, headerCompo, headerObs},
		{"E14001000", "Cities of London and Westminster", "One person household", 5000},
		{"E14001000", "Cities of London and Westminster", "Married couple", 7000},
		{"E14001000", "Cities of London and Westminster", excludedCompo, 999},
		{"E14001001", "Islington North", "One person household", 4000},
	})

	hh, err := LoadHouseholds(path)
	require.NoError(t, err)
	assert.Equal(t, 12000, hh["E14001000"], "excluded category must not count")
	assert.Equal(t, 4000, hh["E14001001"])
}

func TestLoadHouseholdsMissingColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"wrong", "headers", "entirely", "here"},
		{"E14001000", "x", "y", 1},
	})

	_, err := LoadHouseholds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadHouseholdsBadObservation(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{headerCode, headerName, headerCompo, headerObs},
		{"E14001000", "x", "One person household", "not-a-number"},
	})

	_, err := LoadHouseholds(path)
	require.Error(t, err)
}

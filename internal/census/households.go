// Package census loads Census 2021 household counts per constituency.
package census

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers in the ONS TS003 household-composition workbook.
const (
	sheetName     = "Dataset"
	headerCode    = "Post-2019 Westminster Parliamentary constituencies Code"
	headerName    = "Post-2019 Westminster Parliamentary constituencies"
	headerCompo   = "Household composition (15 categories)"
	headerObs     = "Observation"
	excludedCompo = "Does not apply"
)

// Households maps constituency code to total household count.
type Households map[string]int

// LoadHouseholds reads the TS003 workbook and sums observations per
// constituency, excluding the "Does not apply" composition category.
func LoadHouseholds(path string) (Households, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening census workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheetName)
	}

	codeCol, err := findColumn(rows[0], headerCode)
	if err != nil {
		return nil, err
	}
	compoCol, err := findColumn(rows[0], headerCompo)
	if err != nil {
		return nil, err
	}
	obsCol, err := findColumn(rows[0], headerObs)
	if err != nil {
		return nil, err
	}

	totals := make(Households)
	for i, row := range rows[1:] {
		if codeCol >= len(row) || compoCol >= len(row) || obsCol >= len(row) {
			continue
		}
		if row[compoCol] == excludedCompo {
			continue
		}
		obs, err := strconv.Atoi(strings.TrimSpace(row[obsCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing observation %q: %w", i+2, row[obsCol], err)
		}
		totals[row[codeCol]] += obs
	}
	return totals, nil
}

func findColumn(header []string, want string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("census workbook missing column %q", want)
}

package policy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GrowthSchedule maps a year to its annual growth rate in per cent
// (change on the previous year). The base year carries a zero rate.
type GrowthSchedule map[int]decimal.Decimal

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Factor returns the cumulative growth factor from fromYear to toYear.
// Rates chain multiplicatively: uprating by r1 then r2 yields
// (1+r1)(1+r2), never (1+r1+r2). fromYear == toYear yields 1.
func (s GrowthSchedule) Factor(fromYear, toYear int) (decimal.Decimal, error) {
	if toYear < fromYear {
		return decimal.Decimal{}, fmt.Errorf("cannot uprate backwards: %d to %d", fromYear, toYear)
	}
	factor := one
	for year := fromYear + 1; year <= toYear; year++ {
		rate, ok := s[year]
		if !ok {
			return decimal.Decimal{}, fmt.Errorf("growth schedule has no rate for %d", year)
		}
		factor = factor.Mul(one.Add(rate.Div(hundred)))
	}
	return factor, nil
}

// Uprate applies the cumulative factor from fromYear to toYear to a value.
func (s GrowthSchedule) Uprate(value decimal.Decimal, fromYear, toYear int) (decimal.Decimal, error) {
	factor, err := s.Factor(fromYear, toYear)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return value.Mul(factor), nil
}

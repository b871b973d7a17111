// Package analysis joins the price-paid ledger to constituencies and
// aggregates surcharge impact per constituency.
package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/proptax-dev/proptax/internal/census"
	"github.com/proptax-dev/proptax/internal/geography"
	"github.com/proptax-dev/proptax/internal/model"
	"github.com/proptax-dev/proptax/internal/policy"
	"github.com/proptax-dev/proptax/internal/postcode"
)

// Inputs holds the loaded datasets shared by both analysis modes.
type Inputs struct {
	Sales      []model.Sale
	Lookup     *postcode.Table
	Register   *geography.Register
	Households census.Households // optional; enables household percentages
}

// FlatPolicy is the mansion-tax mode: every sale at or above Threshold
// pays the same annual charge. Prices are compared as sold, without
// uprating.
type FlatPolicy struct {
	Threshold    decimal.Decimal
	AnnualCharge decimal.Decimal
}

// SurchargePolicy is the banded mode: sale prices are uprated to the
// valuation year by a house-price growth schedule, then classified into
// surcharge bands. Band boundaries are defined in valuation-year prices
// and may themselves be uprated by a separate schedule (typically CPI)
// to the charge year.
type SurchargePolicy struct {
	Bands          policy.BandSchedule
	PriceGrowth    policy.GrowthSchedule
	ValuationYear  int
	BoundaryGrowth policy.GrowthSchedule // nil = boundaries stay at valuation-year prices
	ChargeYear     int                   // ignored unless BoundaryGrowth is set
}

// MatchStats reports how many in-scope sales resolved to a registered
// constituency. Matched requires both a lookup hit and a code present
// in the register; everything else is unmatched, excluded from
// per-constituency aggregates but never dropped silently.
type MatchStats struct {
	InScope   int
	Matched   int
	Unmatched int
}

// Rate returns the match rate as a fraction, or 1 for an empty scope.
func (m MatchStats) Rate() decimal.Decimal {
	if m.InScope == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(m.Matched)).Div(decimal.NewFromInt(int64(m.InScope)))
}

// Result is the aggregate outcome of one run. Rows are zero-filled:
// every registered constituency appears exactly once, sorted by sale
// count descending then code.
type Result struct {
	Rows         []model.ConstituencyAggregate
	Match        MatchStats
	TotalImplied decimal.Decimal // national sum of implied surcharge
	TotalSales   int             // matched in-scope sales
	BandCounts   []int           // per-band matched sale counts (banded mode)
}

// RunFlat runs the flat-charge analysis.
func RunFlat(in Inputs, pol FlatPolicy) (*Result, error) {
	if !pol.Threshold.IsPositive() {
		return nil, fmt.Errorf("threshold must be positive, got %s", pol.Threshold)
	}
	if !pol.AnnualCharge.IsPositive() {
		return nil, fmt.Errorf("annual charge must be positive, got %s", pol.AnnualCharge)
	}

	agg := newAccumulator(in)
	for _, sale := range in.Sales {
		if sale.Price.LessThan(pol.Threshold) {
			continue
		}
		agg.add(sale.Postcode, sale.Price, pol.AnnualCharge, -1)
	}
	return agg.finish(0), nil
}

// RunSurcharge runs the banded analysis with price uprating.
func RunSurcharge(in Inputs, pol SurchargePolicy) (*Result, error) {
	if verrs := policy.ValidateBands(pol.Bands); len(verrs) > 0 {
		return nil, fmt.Errorf("invalid band schedule: %s", verrs[0])
	}

	bands := pol.Bands
	if pol.BoundaryGrowth != nil && pol.ChargeYear > pol.ValuationYear {
		up, err := bands.Uprated(pol.BoundaryGrowth, pol.ValuationYear, pol.ChargeYear)
		if err != nil {
			return nil, fmt.Errorf("uprating band boundaries: %w", err)
		}
		bands = up
	}

	// Cumulative factors are the same for every sale in a year.
	factors := make(map[int]decimal.Decimal)
	factorFor := func(year int) (decimal.Decimal, error) {
		if f, ok := factors[year]; ok {
			return f, nil
		}
		f, err := pol.PriceGrowth.Factor(year, pol.ValuationYear)
		if err != nil {
			return decimal.Decimal{}, err
		}
		factors[year] = f
		return f, nil
	}

	threshold := bands.Threshold()
	agg := newAccumulator(in)
	for _, sale := range in.Sales {
		factor, err := factorFor(sale.Date.Year())
		if err != nil {
			return nil, fmt.Errorf("uprating sale %s: %w", sale.TransactionID, err)
		}
		uprated := sale.Price.Mul(factor)
		if uprated.LessThan(threshold) {
			continue
		}
		agg.add(sale.Postcode, uprated, bands.SurchargeFor(uprated), bands.BandFor(uprated))
	}
	return agg.finish(len(bands)), nil
}

// AllocateTotal distributes an externally supplied grand total across
// constituencies in proportion to their share of the implied surcharge.
// The raw implied numbers are untouched, so both raw and share-scaled
// views come from the same aggregate without recomputing the join.
func (r *Result) AllocateTotal(grandTotal decimal.Decimal) {
	for i := range r.Rows {
		r.Rows[i].AllocatedRevenue = r.Rows[i].Share.Mul(grandTotal)
	}
}

// accumulator folds (postcode, price, surcharge, band) tuples into
// per-constituency cells.
type accumulator struct {
	in         Inputs
	cells      map[string]*cell
	match      MatchStats
	bandCounts map[int]int
}

type cell struct {
	prices    []decimal.Decimal
	total     decimal.Decimal
	surcharge decimal.Decimal
}

func newAccumulator(in Inputs) *accumulator {
	return &accumulator{
		in:         in,
		cells:      make(map[string]*cell),
		bandCounts: make(map[int]int),
	}
}

// add folds one in-scope sale into its constituency cell. A lookup hit
// whose code is absent from the register counts as unmatched: every
// cell must map to a row, or shares stop summing to one and the
// allocation mode leaks part of the grand total.
func (a *accumulator) add(rawPostcode string, price, surcharge decimal.Decimal, band int) {
	a.match.InScope++
	code, ok := a.in.Lookup.Lookup(rawPostcode)
	if !ok || !a.in.Register.Exists(code) {
		a.match.Unmatched++
		return
	}
	a.match.Matched++

	c := a.cells[code]
	if c == nil {
		c = &cell{}
		a.cells[code] = c
	}
	c.prices = append(c.prices, price)
	c.total = c.total.Add(price)
	c.surcharge = c.surcharge.Add(surcharge)
	if band >= 0 {
		a.bandCounts[band]++
	}
}

func (a *accumulator) finish(numBands int) *Result {
	res := &Result{Match: a.match}

	for _, c := range a.cells {
		res.TotalImplied = res.TotalImplied.Add(c.surcharge)
		res.TotalSales += len(c.prices)
	}

	// Zero-fill: one row per registered constituency, sales or not.
	for _, con := range a.in.Register.All() {
		row := model.ConstituencyAggregate{Code: con.Code, Name: con.Name}
		if hh, ok := a.in.Households[con.Code]; ok {
			row.Households = hh
		}
		if c, ok := a.cells[con.Code]; ok {
			row.Sales = len(c.prices)
			row.TotalValue = c.total
			row.MeanPrice = c.total.Div(decimal.NewFromInt(int64(len(c.prices))))
			row.MedianPrice = median(c.prices)
			row.ImpliedSurcharge = c.surcharge
			if res.TotalImplied.IsPositive() {
				row.Share = c.surcharge.Div(res.TotalImplied)
			}
			if row.Households > 0 {
				row.PctHouseholds = decimal.NewFromInt(int64(row.Sales)).
					Div(decimal.NewFromInt(int64(row.Households))).
					Mul(decimal.NewFromInt(100))
			}
		}
		res.Rows = append(res.Rows, row)
	}

	sort.SliceStable(res.Rows, func(i, j int) bool {
		if res.Rows[i].Sales != res.Rows[j].Sales {
			return res.Rows[i].Sales > res.Rows[j].Sales
		}
		return res.Rows[i].Code < res.Rows[j].Code
	})

	if numBands > 0 {
		res.BandCounts = make([]int, numBands)
		for band, n := range a.bandCounts {
			if band < numBands {
				res.BandCounts[band] = n
			}
		}
	}
	return res
}

func median(values []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}

// Package report writes constituency aggregates as CSV tables.
// Rounding happens here, at the display boundary; the engine keeps
// exact decimals throughout.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/proptax-dev/proptax/internal/model"
)

// ImpactHeader is the header of the full per-constituency impact table.
const ImpactHeader = "constituency_code,constituency_name,num_sales,mean_price,median_price,total_value,estimated_annual_revenue,share_pct,total_households,pct_households_affected"

const (
	impactNumFields  = 10
	colCode          = 0
	colName          = 1
	colSales         = 2
	colMean          = 3
	colMedian        = 4
	colTotal         = 5
	colRevenue       = 6
	colShare         = 7
	colHouseholds    = 8
	colPctHouseholds = 9
)

// WriteImpact writes the full impact table, one row per constituency.
func WriteImpact(w io.Writer, rows []model.ConstituencyAggregate) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ImpactHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		rec := make([]string, impactNumFields)
		rec[colCode] = r.Code
		rec[colName] = r.Name
		rec[colSales] = strconv.Itoa(r.Sales)
		rec[colMean] = pounds(r.MeanPrice)
		rec[colMedian] = pounds(r.MedianPrice)
		rec[colTotal] = pounds(r.TotalValue)
		rec[colRevenue] = pounds(r.ImpliedSurcharge)
		rec[colShare] = sharePct(r.Share)
		rec[colHouseholds] = strconv.Itoa(r.Households)
		rec[colPctHouseholds] = r.PctHouseholds.StringFixed(3)

		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// SummaryHeader is the header of the condensed surcharge summary.
const SummaryHeader = "constituency,properties,median_price,implied_from_sales,share_pct,allocated_revenue"

const (
	summaryNumFields = 6
	sumColName       = 0
	sumColProperties = 1
	sumColMedian     = 2
	sumColImplied    = 3
	sumColShare      = 4
	sumColAllocated  = 5
)

// WriteSummary writes the condensed summary used by the map renderer.
func WriteSummary(w io.Writer, rows []model.ConstituencyAggregate) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(SummaryHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		rec := make([]string, summaryNumFields)
		rec[sumColName] = r.Name
		rec[sumColProperties] = strconv.Itoa(r.Sales)
		rec[sumColMedian] = pounds(r.MedianPrice)
		rec[sumColImplied] = pounds(r.ImpliedSurcharge)
		rec[sumColShare] = sharePct(r.Share)
		rec[sumColAllocated] = pounds(r.AllocatedRevenue)

		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadSummary parses a summary table back into aggregate rows, so the
// map renderer can work from a published table instead of re-running
// the join. Shares come back as fractions, prices as whole pounds.
func ReadSummary(r io.Reader) ([]model.ConstituencyAggregate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = summaryNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading summary CSV: %w", err)
	}
	if len(records) == 0 || records[0][sumColName] != "constituency" {
		return nil, fmt.Errorf("not a summary table: missing header")
	}

	rows := make([]model.ConstituencyAggregate, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := unmarshalSummaryRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadSummary reads a summary table from a file.
func LoadSummary(path string) ([]model.ConstituencyAggregate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadSummary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func unmarshalSummaryRow(rec []string) (model.ConstituencyAggregate, error) {
	sales, err := strconv.Atoi(rec[sumColProperties])
	if err != nil {
		return model.ConstituencyAggregate{}, fmt.Errorf("parsing properties %q: %w", rec[sumColProperties], err)
	}
	median, err := decimal.NewFromString(rec[sumColMedian])
	if err != nil {
		return model.ConstituencyAggregate{}, fmt.Errorf("parsing median_price %q: %w", rec[sumColMedian], err)
	}
	implied, err := decimal.NewFromString(rec[sumColImplied])
	if err != nil {
		return model.ConstituencyAggregate{}, fmt.Errorf("parsing implied_from_sales %q: %w", rec[sumColImplied], err)
	}
	sharePct, err := decimal.NewFromString(rec[sumColShare])
	if err != nil {
		return model.ConstituencyAggregate{}, fmt.Errorf("parsing share_pct %q: %w", rec[sumColShare], err)
	}
	allocated, err := decimal.NewFromString(rec[sumColAllocated])
	if err != nil {
		return model.ConstituencyAggregate{}, fmt.Errorf("parsing allocated_revenue %q: %w", rec[sumColAllocated], err)
	}

	return model.ConstituencyAggregate{
		Name:             rec[sumColName],
		Sales:            sales,
		MedianPrice:      median,
		ImpliedSurcharge: implied,
		Share:            sharePct.Div(decimal.NewFromInt(100)),
		AllocatedRevenue: allocated,
	}, nil
}

// HouseholdHeader is the header of the household impact table.
const HouseholdHeader = "constituency_name,pct_households_affected,avg_loss_per_household"

// WriteHouseholdImpact writes the household impact table, sorted by the
// caller. Every row carries the same flat annual charge.
func WriteHouseholdImpact(w io.Writer, rows []model.ConstituencyAggregate, annualCharge decimal.Decimal) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(HouseholdHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		rec := []string{
			r.Name,
			r.PctHouseholds.StringFixed(3),
			pounds(annualCharge),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteFile writes a table to a file via one of the writer funcs.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func pounds(d decimal.Decimal) string {
	return d.Round(0).StringFixed(0)
}

func sharePct(share decimal.Decimal) string {
	return share.Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// Package hexmap renders constituency aggregates as an interactive D3
// choropleth (geographic and hex-cartogram views) and a static SVG.
package hexmap

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/proptax-dev/proptax/internal/geography"
	"github.com/proptax-dev/proptax/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Datum is the per-constituency payload embedded in the map, keyed by
// constituency name to match the boundary and hex-grid metadata.
type Datum struct {
	Pct float64 `json:"pct"` // share of national revenue, per cent
	Num int     `json:"num"` // in-scope sales
	Rev int64   `json:"rev"` // allocated revenue, whole pounds
}

// Data is everything the renderers need for one map.
type Data struct {
	Title    string
	Subtitle string
	Source   string

	Impact     map[string]Datum
	Names      []string // sorted, for the search box
	Grid       *geography.HexGrid
	Boundaries *geography.Boundaries
	MaxPct     float64
}

// Build assembles map data from aggregate rows and layout files.
// Constituencies absent from the rows render as zeros, never as gaps.
func Build(rows []model.ConstituencyAggregate, grid *geography.HexGrid, boundaries *geography.Boundaries) *Data {
	d := &Data{
		Impact:     make(map[string]Datum, len(rows)),
		Grid:       grid,
		Boundaries: boundaries,
	}
	for _, r := range rows {
		pct, _ := r.Share.Mul(hundred).Float64()
		rev := r.AllocatedRevenue
		if rev.IsZero() {
			rev = r.ImpliedSurcharge
		}
		d.Impact[r.Name] = Datum{
			Pct: pct,
			Num: r.Sales,
			Rev: rev.Round(0).IntPart(),
		}
		d.Names = append(d.Names, r.Name)
		if pct > d.MaxPct {
			d.MaxPct = pct
		}
	}
	sort.Strings(d.Names)
	return d
}

// pctScale normalizes a percentage onto [0,1] for the color scale.
func (d *Data) pctScale(pct float64) float64 {
	if d.MaxPct <= 0 {
		return 0
	}
	return pct / d.MaxPct
}

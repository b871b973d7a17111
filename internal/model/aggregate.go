package model

import "github.com/shopspring/decimal"

// ConstituencyAggregate holds the per-constituency statistics for one
// analysis run. Constituencies with no in-scope sales appear with zero
// counts so the map renders them as zeros rather than gaps.
type ConstituencyAggregate struct {
	Code             string
	Name             string
	Sales            int
	MeanPrice        decimal.Decimal
	MedianPrice      decimal.Decimal
	TotalValue       decimal.Decimal
	ImpliedSurcharge decimal.Decimal // sum of per-sale surcharge amounts
	Share            decimal.Decimal // fraction of national implied surcharge
	AllocatedRevenue decimal.Decimal // share x external grand total
	Households       int             // Census household count, 0 if unknown
	PctHouseholds    decimal.Decimal // sales / households * 100
}

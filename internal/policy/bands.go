package policy

import (
	"github.com/shopspring/decimal"
)

// Band is one step of a surcharge schedule: properties valued in
// [Lower, Upper) pay Charge per year. A zero Upper marks the terminal
// band, unbounded above.
type Band struct {
	Lower  decimal.Decimal
	Upper  decimal.Decimal // zero = unbounded
	Charge decimal.Decimal
}

// Unbounded reports whether the band has no upper limit.
func (b Band) Unbounded() bool {
	return b.Upper.IsZero()
}

// Contains reports whether value falls in [Lower, Upper). The lower
// bound is inclusive, so a value exactly at the first band's threshold
// is in scope, not below it.
func (b Band) Contains(value decimal.Decimal) bool {
	if value.LessThan(b.Lower) {
		return false
	}
	return b.Unbounded() || value.LessThan(b.Upper)
}

// BandSchedule is an ordered set of surcharge bands. Values below the
// first band's lower bound are out of scope and pay nothing.
type BandSchedule []Band

// SurchargeFor returns the annual charge for a property value, or zero
// if the value is below the schedule. Validated schedules are gapless
// with an unbounded terminal band, so every in-scope value maps to
// exactly one band.
func (s BandSchedule) SurchargeFor(value decimal.Decimal) decimal.Decimal {
	for _, b := range s {
		if b.Contains(value) {
			return b.Charge
		}
	}
	return decimal.Zero
}

// BandFor returns the index of the band containing value, or -1 if the
// value is below the schedule.
func (s BandSchedule) BandFor(value decimal.Decimal) int {
	for i, b := range s {
		if b.Contains(value) {
			return i
		}
	}
	return -1
}

// Threshold returns the schedule's entry threshold (the first band's
// lower bound), or zero for an empty schedule.
func (s BandSchedule) Threshold() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	return s[0].Lower
}

// Uprated returns a copy of the schedule with boundaries scaled by a
// growth schedule from baseYear to targetYear. Charges are unchanged;
// the terminal band stays unbounded. Band boundaries are anchored to
// the valuation year, so their uprating schedule (typically CPI) is
// independent of the one applied to sale prices.
func (s BandSchedule) Uprated(growth GrowthSchedule, baseYear, targetYear int) (BandSchedule, error) {
	factor, err := growth.Factor(baseYear, targetYear)
	if err != nil {
		return nil, err
	}
	out := make(BandSchedule, len(s))
	for i, b := range s {
		out[i] = Band{
			Lower:  b.Lower.Mul(factor),
			Charge: b.Charge,
		}
		if !b.Unbounded() {
			out[i].Upper = b.Upper.Mul(factor)
		}
	}
	return out, nil
}

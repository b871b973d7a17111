package policy

import (
	"fmt"
)

// ValidationError describes a single invariant violation in a policy
// scenario.
type ValidationError struct {
	Invariant   int
	Subject     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Subject, e.Description)
}

// ValidateBands enforces 5 invariants on a surcharge schedule:
//
//  1. the schedule is non-empty
//  2. bands are sorted by lower bound
//  3. bands are contiguous (each upper bound equals the next lower bound)
//  4. only the final band is unbounded, and it must be unbounded
//  5. charges are positive and non-decreasing up the schedule
//
// Together with lower-inclusive/upper-exclusive band membership these
// make band assignment a total function over in-scope values.
func ValidateBands(bands BandSchedule) []ValidationError {
	var errs []ValidationError

	if len(bands) == 0 {
		errs = append(errs, ValidationError{
			Invariant:   1,
			Subject:     "schedule",
			Description: "no bands defined",
		})
		return errs
	}

	for i, b := range bands {
		subject := fmt.Sprintf("band %d", i+1)
		last := i == len(bands)-1

		if !last && b.Unbounded() {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Subject:     subject,
				Description: "only the final band may be unbounded",
			})
			continue
		}
		if last && !b.Unbounded() {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Subject:     subject,
				Description: fmt.Sprintf("final band must be unbounded, has upper bound %s", b.Upper),
			})
		}

		if !b.Unbounded() && !b.Lower.LessThan(b.Upper) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Subject:     subject,
				Description: fmt.Sprintf("lower bound %s not below upper bound %s", b.Lower, b.Upper),
			})
		}

		if i > 0 {
			prev := bands[i-1]
			if !prev.Upper.Equal(b.Lower) {
				errs = append(errs, ValidationError{
					Invariant:   3,
					Subject:     subject,
					Description: fmt.Sprintf("lower bound %s does not meet previous upper bound %s", b.Lower, prev.Upper),
				})
			}
			if b.Charge.LessThan(bands[i-1].Charge) {
				errs = append(errs, ValidationError{
					Invariant:   5,
					Subject:     subject,
					Description: fmt.Sprintf("charge %s below previous band's %s", b.Charge, bands[i-1].Charge),
				})
			}
		}

		if !b.Charge.IsPositive() {
			errs = append(errs, ValidationError{
				Invariant:   5,
				Subject:     subject,
				Description: fmt.Sprintf("charge %s must be positive", b.Charge),
			})
		}
	}

	return errs
}

// ValidateSchedule checks that a growth schedule covers every year from
// baseYear to targetYear with no gaps.
func ValidateSchedule(s GrowthSchedule, baseYear, targetYear int) []ValidationError {
	var errs []ValidationError
	for year := baseYear + 1; year <= targetYear; year++ {
		if _, ok := s[year]; !ok {
			errs = append(errs, ValidationError{
				Invariant:   6,
				Subject:     fmt.Sprintf("year %d", year),
				Description: "missing growth rate",
			})
		}
	}
	return errs
}

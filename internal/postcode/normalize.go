package postcode

import "strings"

// Normalize reduces a raw postcode to its canonical lookup key:
// uppercase with all whitespace removed. UK postcodes have a fixed
// outward+inward structure, so dropping the separator entirely
// reconciles single-space, double-space, and unspaced variants.
// Returns "" for postcodes that cannot form a key.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == ' ' || r == '\t':
			// drop
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	// Shortest real postcode is 5 characters (e.g. N19GU).
	if len(s) < 5 || len(s) > 7 {
		return ""
	}
	return s
}

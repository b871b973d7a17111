package model

// Constituency is a Westminster parliamentary constituency, the
// aggregation unit for all outputs.
type Constituency struct {
	Code string // GSS or MySoc short code
	Name string
}

// PostcodeRecord maps a normalized postcode to a constituency code.
type PostcodeRecord struct {
	Postcode string // normalized: uppercase, no internal spaces
	Code     string
}

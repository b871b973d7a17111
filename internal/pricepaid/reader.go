package pricepaid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/proptax-dev/proptax/internal/model"
)

// The Land Registry price-paid file has no header and 16 fixed columns.
const (
	numFields       = 16
	colTxnID        = 0
	colPrice        = 1
	colDate         = 2
	colPostcode     = 3
	colPropertyType = 4
	colOldNew       = 5
	colDuration     = 6
	colPPDCategory  = 14
)

const dateFormat = "2006-01-02 15:04"

// Stats counts data-quality exclusions from one read. Bad rows are
// dropped and counted, never fatal.
type Stats struct {
	Rows            int // total ledger rows seen
	BadPrice        int // unparseable or non-positive price
	BadDate         int // unparseable date
	MissingPostcode int // empty postcode field
}

// Excluded returns the total number of dropped rows.
func (s Stats) Excluded() int {
	return s.BadPrice + s.BadDate + s.MissingPostcode
}

// Read parses a price-paid ledger, returning the usable sales and the
// exclusion counts.
func Read(r io.Reader) ([]model.Sale, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	var sales []model.Sale
	var stats Stats
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading price-paid row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		sale, reason := parseRow(rec)
		switch reason {
		case rowOK:
			sales = append(sales, sale)
		case rowBadPrice:
			stats.BadPrice++
		case rowBadDate:
			stats.BadDate++
		case rowMissingPostcode:
			stats.MissingPostcode++
		}
	}
	return sales, stats, nil
}

// Load reads a price-paid ledger file.
func Load(path string) ([]model.Sale, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening price-paid ledger: %w", err)
	}
	defer f.Close()

	sales, stats, err := Read(f)
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s: %w", path, err)
	}
	return sales, stats, nil
}

type rowResult int

const (
	rowOK rowResult = iota
	rowBadPrice
	rowBadDate
	rowMissingPostcode
)

func parseRow(rec []string) (model.Sale, rowResult) {
	price, err := decimal.NewFromString(strings.TrimSpace(rec[colPrice]))
	if err != nil || !price.IsPositive() {
		return model.Sale{}, rowBadPrice
	}

	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		// Some extracts drop the time component.
		date, err = time.Parse("2006-01-02", rec[colDate])
		if err != nil {
			return model.Sale{}, rowBadDate
		}
	}

	pc := strings.TrimSpace(rec[colPostcode])
	if pc == "" {
		return model.Sale{}, rowMissingPostcode
	}

	return model.Sale{
		TransactionID: strings.Trim(rec[colTxnID], "{}"),
		Price:         price,
		Date:          date,
		Postcode:      pc,
		PropertyType:  rec[colPropertyType],
		NewBuild:      rec[colOldNew] == "Y",
		Duration:      rec[colDuration],
		PPDCategory:   rec[colPPDCategory],
	}, rowOK
}

package postcode

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/proptax-dev/proptax/internal/model"
)

// Table provides in-memory postcode to constituency-code lookup.
type Table struct {
	byPostcode map[string]string

	// Duplicates counts rows whose normalized postcode was already
	// present. The first occurrence wins; later rows are dropped so
	// resolution never depends on input order beyond first-seen.
	Duplicates int
	// Skipped counts rows with an unusable postcode or empty code.
	Skipped int
}

// NewTable creates an empty lookup table.
func NewTable() *Table {
	return &Table{byPostcode: make(map[string]string)}
}

// Add inserts a postcode/code pair, normalizing the postcode. Rows that
// cannot form a key or carry no code are counted and dropped.
func (t *Table) Add(rawPostcode, code string) {
	key := Normalize(rawPostcode)
	if key == "" || code == "" {
		t.Skipped++
		return
	}
	if _, ok := t.byPostcode[key]; ok {
		t.Duplicates++
		return
	}
	t.byPostcode[key] = code
}

// Lookup resolves a raw postcode to a constituency code.
func (t *Table) Lookup(rawPostcode string) (string, bool) {
	code, ok := t.byPostcode[Normalize(rawPostcode)]
	return code, ok
}

// Len returns the number of distinct postcodes in the table.
func (t *Table) Len() int {
	return len(t.byPostcode)
}

// Records returns the table contents. Intended for tests and exports;
// iteration order is unspecified.
func (t *Table) Records() []model.PostcodeRecord {
	out := make([]model.PostcodeRecord, 0, len(t.byPostcode))
	for pc, code := range t.byPostcode {
		out = append(out, model.PostcodeRecord{Postcode: pc, Code: code})
	}
	return out
}

// Column headers accepted for the postcode and constituency-code fields.
// MySoc publishes postcode/short_code, ONS NSPL publishes pcds/pcon.
var (
	postcodeHeaders = []string{"postcode", "pcds"}
	codeHeaders     = []string{"short_code", "pcon"}
)

// Read loads lookup rows from a headed CSV into the table.
func (t *Table) Read(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // source files carry many columns we ignore

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading lookup header: %w", err)
	}

	pcCol, err := findColumn(header, postcodeHeaders)
	if err != nil {
		return err
	}
	codeCol, err := findColumn(header, codeHeaders)
	if err != nil {
		return err
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading lookup row: %w", err)
		}
		if pcCol >= len(rec) || codeCol >= len(rec) {
			t.Skipped++
			continue
		}
		t.Add(rec[pcCol], rec[codeCol])
	}
	return nil
}

// Load reads a single lookup CSV file into a new table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening postcode lookup: %w", err)
	}
	defer f.Close()

	t := NewTable()
	if err := t.Read(f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// LoadDir reads every CSV file in a directory into one table. The NSPL
// release ships as a directory of per-area CSVs sharing one schema.
func LoadDir(dir string) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading lookup dir: %w", err)
	}

	t := NewTable()
	files := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		err = t.Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		files++
	}
	if files == 0 {
		return nil, fmt.Errorf("no CSV files in %s", dir)
	}
	return t, nil
}

func findColumn(header, candidates []string) (int, error) {
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if name == c {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("lookup CSV has none of the columns %s", strings.Join(candidates, "/"))
}

package geography

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/proptax-dev/proptax/internal/model"
)

// Register provides in-memory lookup over the reference set of
// constituencies. Every aggregate output carries one row per registered
// constituency, so the register is the zero-fill source for the map.
type Register struct {
	constituencies []model.Constituency
	byCode         map[string]model.Constituency
	nameByCode     map[string]string
}

// NewRegister creates a Register from a slice of constituencies.
func NewRegister(constituencies []model.Constituency) *Register {
	byCode := make(map[string]model.Constituency, len(constituencies))
	nameByCode := make(map[string]string, len(constituencies))
	for _, c := range constituencies {
		byCode[c.Code] = c
		nameByCode[c.Code] = c.Name
	}
	return &Register{constituencies: constituencies, byCode: byCode, nameByCode: nameByCode}
}

// All returns all constituencies sorted by code.
func (r *Register) All() []model.Constituency {
	out := make([]model.Constituency, len(r.constituencies))
	copy(out, r.constituencies)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Get returns a constituency by code.
func (r *Register) Get(code string) (model.Constituency, bool) {
	c, ok := r.byCode[code]
	return c, ok
}

// Exists reports whether a constituency code is registered.
func (r *Register) Exists(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Name returns the display name for a code, or the code itself when the
// register has no entry for it.
func (r *Register) Name(code string) string {
	if name, ok := r.nameByCode[code]; ok {
		return name
	}
	return code
}

// Len returns the number of registered constituencies.
func (r *Register) Len() int {
	return len(r.constituencies)
}

// Column headers accepted for the code and name fields. ONS publishes
// PCON24CD/PCON24NM, MySoc publishes short_code/name.
var (
	regCodeHeaders = []string{"pcon24cd", "short_code", "code"}
	regNameHeaders = []string{"pcon24nm", "name"}
)

// ReadConstituencies reads a constituency names/codes CSV.
func ReadConstituencies(rd io.Reader) ([]model.Constituency, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading constituency header: %w", err)
	}

	codeCol, err := findColumn(header, regCodeHeaders)
	if err != nil {
		return nil, err
	}
	nameCol, err := findColumn(header, regNameHeaders)
	if err != nil {
		return nil, err
	}

	var out []model.Constituency
	seen := make(map[string]bool)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading constituency row: %w", err)
		}
		if codeCol >= len(rec) || nameCol >= len(rec) {
			continue
		}
		code := strings.TrimSpace(rec[codeCol])
		name := strings.TrimSpace(rec[nameCol])
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, model.Constituency{Code: code, Name: name})
	}
	return out, nil
}

// LoadRegister reads a constituency CSV file and returns a Register.
func LoadRegister(path string) (*Register, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening constituency list: %w", err)
	}
	defer f.Close()

	cs, err := ReadConstituencies(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewRegister(cs), nil
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
	return 0, fmt.Errorf("constituency CSV has none of the columns %s", strings.Join(candidates, "/"))
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/proptax-dev/proptax/internal/policy"
)

// Config represents the top-level proptax.yaml configuration.
// Monetary amounts and rates are YAML strings so they parse into exact
// decimals rather than floats.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Outputs    OutputsConfig    `yaml:"outputs"`
	Sources    SourcesConfig    `yaml:"sources"`
	MansionTax MansionTaxConfig `yaml:"mansion_tax"`
	Surcharge  SurchargeConfig  `yaml:"surcharge"`
	Git        GitConfig        `yaml:"git"`
}

// DataConfig locates the input datasets on disk.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// PricePaidPath returns the Land Registry ledger path.
func (d DataConfig) PricePaidPath() string { return filepath.Join(d.Dir, "pp-2024.csv") }

// PostcodeLookupPath returns the postcode-to-constituency CSV path.
func (d DataConfig) PostcodeLookupPath() string {
	return filepath.Join(d.Dir, "postcodes_with_con.csv")
}

// ConstituencyPath returns the constituency names/codes CSV path.
func (d DataConfig) ConstituencyPath() string { return filepath.Join(d.Dir, "constituencies.csv") }

// HexGridPath returns the HexJSON layout path.
func (d DataConfig) HexGridPath() string {
	return filepath.Join(d.Dir, "uk-constituencies-2024.hexjson")
}

// BoundariesPath returns the constituency boundaries GeoJSON path.
func (d DataConfig) BoundariesPath() string { return filepath.Join(d.Dir, "constituencies.geojson") }

// CensusPath returns the Census households workbook path.
func (d DataConfig) CensusPath() string {
	return filepath.Join(d.Dir, "TS003_household_composition_p19wpc.xlsx")
}

// PostcodeDirPath returns the directory of per-area NSPL CSVs, used
// when the postcode lookup ships as a zip instead of a single CSV.
func (d DataConfig) PostcodeDirPath() string { return filepath.Join(d.Dir, "postcodes") }

// PostcodeZipPath returns where a zipped postcode lookup is saved.
func (d DataConfig) PostcodeZipPath() string { return filepath.Join(d.Dir, "NSPL.zip") }

// OutputsConfig locates the generated tables and maps.
type OutputsConfig struct {
	Dir string `yaml:"dir"`
}

// ImpactPath returns the full impact table path for a scenario label.
func (o OutputsConfig) ImpactPath(label string) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s_impact.csv", label))
}

// HouseholdPath returns the household impact table path for a label.
func (o OutputsConfig) HouseholdPath(label string) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s_household_impact.csv", label))
}

// SummaryPath returns the condensed surcharge summary path.
func (o OutputsConfig) SummaryPath() string {
	return filepath.Join(o.Dir, "surcharge_summary.csv")
}

// MapHTMLPath returns the interactive map document path.
func (o OutputsConfig) MapHTMLPath() string {
	return filepath.Join(o.Dir, "surcharge_map.html")
}

// MapSVGPath returns the static map image path.
func (o OutputsConfig) MapSVGPath() string {
	return filepath.Join(o.Dir, "surcharge_map.svg")
}

// SourcesConfig holds the download URLs for proptax fetch.
//
// The lookup and the names file must come from the same publisher so
// their constituency codes agree: MySoc's postcodes_with_con.csv pairs
// with MySoc's constituencies.csv (short_code), while an NSPL zip
// (pcon, GSS codes) pairs with the ArcGIS feature service. Set either
// constituencies or constituency_service, not both.
type SourcesConfig struct {
	PricePaid       string `yaml:"price_paid"`
	PostcodeLookup  string `yaml:"postcode_lookup"`
	Constituencies  string `yaml:"constituencies,omitempty"`       // plain CSV with code+name columns
	ConstituencySvc string `yaml:"constituency_service,omitempty"` // ArcGIS feature service, converted to CSV
	HexGrid         string `yaml:"hex_grid"`
	Boundaries      string `yaml:"boundaries"`
	Census          string `yaml:"census"`
}

// MansionTaxConfig is the flat-charge scenario: every sale at or above
// a threshold pays the same annual charge.
type MansionTaxConfig struct {
	Thresholds   []string `yaml:"thresholds"`
	AnnualCharge string   `yaml:"annual_charge"`
}

// BandConfig is one surcharge band. An empty upper bound marks the
// terminal band.
type BandConfig struct {
	Lower  string `yaml:"lower"`
	Upper  string `yaml:"upper,omitempty"`
	Charge string `yaml:"charge"`
}

// SurchargeConfig is the banded scenario with price uprating.
type SurchargeConfig struct {
	ValuationYear   int            `yaml:"valuation_year"`
	ChargeYear      int            `yaml:"charge_year"`
	ExternalRevenue string         `yaml:"external_revenue"` // allocated proportionally
	HPIGrowth       map[int]string `yaml:"hpi_growth"`       // % change on previous year
	CPIGrowth       map[int]string `yaml:"cpi_growth,omitempty"`
	Bands           []BandConfig   `yaml:"bands"`
}

// GitConfig controls committing generated outputs.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a proptax.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ParsedThresholds parses the mansion-tax thresholds.
func (m MansionTaxConfig) ParsedThresholds() ([]decimal.Decimal, error) {
	if len(m.Thresholds) == 0 {
		return nil, fmt.Errorf("mansion_tax: no thresholds configured")
	}
	out := make([]decimal.Decimal, len(m.Thresholds))
	for i, s := range m.Thresholds {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("mansion_tax: parsing threshold %q: %w", s, err)
		}
		out[i] = d
	}
	return out, nil
}

// ParsedCharge parses the flat annual charge.
func (m MansionTaxConfig) ParsedCharge() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(m.AnnualCharge)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("mansion_tax: parsing annual_charge %q: %w", m.AnnualCharge, err)
	}
	return d, nil
}

// ParsedBands parses and validates the surcharge band schedule.
func (s SurchargeConfig) ParsedBands() (policy.BandSchedule, error) {
	bands := make(policy.BandSchedule, len(s.Bands))
	for i, b := range s.Bands {
		lower, err := decimal.NewFromString(b.Lower)
		if err != nil {
			return nil, fmt.Errorf("surcharge: band %d lower %q: %w", i+1, b.Lower, err)
		}
		charge, err := decimal.NewFromString(b.Charge)
		if err != nil {
			return nil, fmt.Errorf("surcharge: band %d charge %q: %w", i+1, b.Charge, err)
		}
		bands[i] = policy.Band{Lower: lower, Charge: charge}
		if b.Upper != "" {
			upper, err := decimal.NewFromString(b.Upper)
			if err != nil {
				return nil, fmt.Errorf("surcharge: band %d upper %q: %w", i+1, b.Upper, err)
			}
			bands[i].Upper = upper
		}
	}
	if verrs := policy.ValidateBands(bands); len(verrs) > 0 {
		return nil, fmt.Errorf("surcharge: %s", verrs[0])
	}
	return bands, nil
}

// ParsedHPI parses the house-price growth schedule.
func (s SurchargeConfig) ParsedHPI() (policy.GrowthSchedule, error) {
	return parseSchedule("hpi_growth", s.HPIGrowth)
}

// ParsedCPI parses the boundary uprating schedule, or nil if unset.
func (s SurchargeConfig) ParsedCPI() (policy.GrowthSchedule, error) {
	if len(s.CPIGrowth) == 0 {
		return nil, nil
	}
	return parseSchedule("cpi_growth", s.CPIGrowth)
}

// ParsedExternalRevenue parses the external grand total, or zero if
// unset (raw implied revenue only).
func (s SurchargeConfig) ParsedExternalRevenue() (decimal.Decimal, error) {
	if s.ExternalRevenue == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s.ExternalRevenue)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("surcharge: parsing external_revenue %q: %w", s.ExternalRevenue, err)
	}
	return d, nil
}

func parseSchedule(name string, raw map[int]string) (policy.GrowthSchedule, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no rates configured", name)
	}
	out := make(policy.GrowthSchedule, len(raw))
	for year, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%s: parsing rate for %d %q: %w", name, year, s, err)
		}
		out[year] = d
	}
	return out, nil
}

// Default returns the shipped configuration: the November 2025 budget
// surcharge scenario (OBR EFO growth rates and bands) plus the earlier
// flat mansion-tax scenario.
func Default() *Config {
	return &Config{
		Data:    DataConfig{Dir: "data"},
		Outputs: OutputsConfig{Dir: "output"},
		Sources: SourcesConfig{
			PricePaid:      "http://prod.publicdata.landregistry.gov.uk.s3-website-eu-west-1.amazonaws.com/pp-2024.csv",
			PostcodeLookup: "https://pages.mysociety.org/2025-constituencies/data/uk_parliament_2025_postcode_lookup/latest/postcodes_with_con.csv",
			Constituencies: "https://pages.mysociety.org/2025-constituencies/data/uk_parliament_2025/latest/constituencies.csv",
			HexGrid:        "https://open-innovations.org/projects/hexmaps/maps/uk-constituencies-2024.hexjson",
			Boundaries:     "https://services1.arcgis.com/ESMARspQHYMw9BZ9/arcgis/rest/services/Westminster_Parliamentary_Constituencies_July_2024_Boundaries_UK_BGC/FeatureServer/0/query?where=1%3D1&outFields=PCON24CD,PCON24NM&outSR=4326&f=geojson",
			Census:         "https://ukds-ckan.s3.eu-west-1.amazonaws.com/2021/ONS/release1/Household-Characteristics/Household-Composition/TS003-Household-Composition-2021-p19wpc-ONS.xlsx",
		},
		MansionTax: MansionTaxConfig{
			Thresholds:   []string{"1500000", "2000000"},
			AnnualCharge: "2000",
		},
		Surcharge: SurchargeConfig{
			ValuationYear:   2026,
			ChargeYear:      2028,
			ExternalRevenue: "400000000",
			HPIGrowth: map[int]string{
				2025: "2.9",
				2026: "2.5",
				2027: "2.5",
				2028: "2.4",
				2029: "2.4",
				2030: "2.4",
			},
			Bands: []BandConfig{
				{Lower: "2000000", Upper: "2500000", Charge: "2500"},
				{Lower: "2500000", Upper: "3000000", Charge: "3500"},
				{Lower: "3000000", Upper: "5000000", Charge: "5000"},
				{Lower: "5000000", Charge: "7500"},
			},
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "proptax",
			AuthorEmail: "pipeline@proptax.dev",
		},
	}
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proptax.yaml")
	require.NoError(t, Save(path, Default()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefaultParses(t *testing.T) {
	cfg := Default()

	thresholds, err := cfg.MansionTax.ParsedThresholds()
	require.NoError(t, err)
	require.Len(t, thresholds, 2)
	assert.True(t, thresholds[0].Equal(decimal.NewFromInt(1_500_000)))

	charge, err := cfg.MansionTax.ParsedCharge()
	require.NoError(t, err)
	assert.True(t, charge.Equal(decimal.NewFromInt(2000)))

	bands, err := cfg.Surcharge.ParsedBands()
	require.NoError(t, err)
	require.Len(t, bands, 4)
	assert.True(t, bands[0].Lower.Equal(decimal.NewFromInt(2_000_000)))
	assert.True(t, bands[3].Upper.IsZero(), "final band is unbounded")

	hpi, err := cfg.Surcharge.ParsedHPI()
	require.NoError(t, err)
	factor, err := hpi.Factor(2024, 2026)
	require.NoError(t, err)
	assert.Equal(t, "1.054725", factor.String())

	revenue, err := cfg.Surcharge.ParsedExternalRevenue()
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(400_000_000)))
}

func TestDefaultSourcesShareCodeVocabulary(t *testing.T) {
	// The lookup maps postcodes to MySoc short codes, so the register
	// must come from the same publisher or no sale ever joins a row.
	src := Default().Sources
	assert.Contains(t, src.PostcodeLookup, "mysociety.org")
	assert.Contains(t, src.Constituencies, "mysociety.org")
	assert.Empty(t, src.ConstituencySvc, "the ArcGIS register pairs with an NSPL lookup, not MySoc")
}

func TestParsedCPIOptional(t *testing.T) {
	cfg := Default()
	cpi, err := cfg.Surcharge.ParsedCPI()
	require.NoError(t, err)
	assert.Nil(t, cpi)

	cfg.Surcharge.CPIGrowth = map[int]string{2025: "3.2", 2026: "2.0"}
	cpi, err = cfg.Surcharge.ParsedCPI()
	require.NoError(t, err)
	require.NotNil(t, cpi)
	factor, err := cpi.Factor(2024, 2025)
	require.NoError(t, err)
	assert.Equal(t, "1.032", factor.String())
}

func TestParsedBandsRejectsBadSchedule(t *testing.T) {
	cfg := Default()
	cfg.Surcharge.Bands = []BandConfig{
		{Lower: "2000000", Upper: "2500000", Charge: "2500"},
		{Lower: "3000000", Charge: "5000"}, // gap
	}
	_, err := cfg.Surcharge.ParsedBands()
	require.Error(t, err)
}

func TestParsedBandsRejectsBadNumber(t *testing.T) {
	cfg := Default()
	cfg.Surcharge.Bands[0].Lower = "two million"
	_, err := cfg.Surcharge.ParsedBands()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two million")
}

func TestDataPaths(t *testing.T) {
	d := DataConfig{Dir: "data"}
	assert.Equal(t, filepath.Join("data", "pp-2024.csv"), d.PricePaidPath())
	assert.Equal(t, filepath.Join("data", "postcodes_with_con.csv"), d.PostcodeLookupPath())
	assert.Equal(t, filepath.Join("data", "constituencies.csv"), d.ConstituencyPath())
}

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/model"
)

func TestComma(t *testing.T) {
	cases := map[string]string{
		"0":         "0",
		"999":       "999",
		"1000":      "1,000",
		"400000000": "400,000,000",
		"1234567.6": "1,234,568",
		"-2500000":  "-2,500,000",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		require.NoError(t, err)
		assert.Equal(t, want, comma(d), "comma(%s)", in)
	}
}

func TestLoadProjectReadsProjectEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Save(filepath.Join(dir, "proptax.yaml"), config.Default()))

	custom := filepath.Join(dir, "elsewhere")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PROPTAX_DATA_DIR="+custom+"\n"), 0o644))

	// The project .env must be honored regardless of the working
	// directory; clear any ambient value first.
	t.Setenv("PROPTAX_DATA_DIR", "")
	os.Unsetenv("PROPTAX_DATA_DIR")

	cfg, root, err := loadProject(filepath.Join(dir, "proptax.yaml"))
	require.NoError(t, err)
	assert.Equal(t, dir, root)
	assert.Equal(t, custom, cfg.Data.Dir)
}

func TestByHouseholdImpact(t *testing.T) {
	pct := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}
	rows := []model.ConstituencyAggregate{
		{Name: "Quiet", Sales: 0},
		{Name: "Mid", Sales: 5, PctHouseholds: pct("0.1")},
		{Name: "High", Sales: 2, PctHouseholds: pct("0.4")},
		{Name: "Alpha tie", Sales: 1, PctHouseholds: pct("0.1")},
	}

	got := byHouseholdImpact(rows)
	require.Len(t, got, 3, "zero-sale rows are dropped")
	assert.Equal(t, "High", got[0].Name)
	assert.Equal(t, "Alpha tie", got[1].Name, "ties break by name")
	assert.Equal(t, "Mid", got[2].Name)
}

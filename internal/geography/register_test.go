package geography

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proptax-dev/proptax/internal/model"
)

func TestReadConstituenciesONSFormat(t *testing.T) {
	csv := strings.Join([]string{
		"PCON24CD,PCON24NM",
		"E14001000,Cities of London and Westminster",
		"E14001001,Islington North",
	}, "\n")

	cs, err := ReadConstituencies(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "E14001000", cs[0].Code)
	assert.Equal(t, "Cities of London and Westminster", cs[0].Name)
}

func TestReadConstituenciesMySocFormat(t *testing.T) {
	csv := strings.Join([]string{
		"short_code,name,gss_code",
		"WSM,Cities of London and Westminster,E14001000",
		"WSM,Cities of London and Westminster,E14001000", // duplicate row
	}, "\n")

	cs, err := ReadConstituencies(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, cs, 1, "duplicate codes collapse to first occurrence")
	assert.Equal(t, "WSM", cs[0].Code)
}

func TestReadConstituenciesRejectsUnknownHeader(t *testing.T) {
	_, err := ReadConstituencies(strings.NewReader("foo,bar\n1,2\n"))
	require.Error(t, err)
}

func TestRegisterLookups(t *testing.T) {
	r := NewRegister([]model.Constituency{
		{Code: "B", Name: "Beta"},
		{Code: "A", Name: "Alpha"},
	})

	assert.True(t, r.Exists("A"))
	assert.False(t, r.Exists("Z"))
	assert.Equal(t, "Beta", r.Name("B"))
	assert.Equal(t, "Z", r.Name("Z"), "unknown codes fall back to the code")

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Code, "All is sorted by code")
}

func TestLoadHexGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.hexjson")
	content := `{"layout":"odd-r","hexes":{
		"E14001000":{"n":"Cities of London and Westminster","q":3,"r":5},
		"E14001001":{"n":"Islington North","q":4,"r":7}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	grid, err := LoadHexGrid(path)
	require.NoError(t, err)
	assert.Equal(t, "odd-r", grid.Layout)
	require.Len(t, grid.Hexes, 2)
	assert.Equal(t, 3, grid.Hexes["E14001000"].Q)

	qMin, qMax, rMin, rMax := grid.Bounds()
	assert.Equal(t, [4]int{3, 4, 5, 7}, [4]int{qMin, qMax, rMin, rMax})
}

func TestLoadHexGridRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.hexjson")
	require.NoError(t, os.WriteFile(path, []byte(`{"layout":"odd-r","hexes":{}}`), 0o644))

	_, err := LoadHexGrid(path)
	require.Error(t, err)
}

func TestLoadBoundaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constituencies.geojson")
	content := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"Name":"Islington North"},
		 "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b, err := LoadBoundaries(path)
	require.NoError(t, err)
	require.Len(t, b.Features, 1)
	assert.Equal(t, "Islington North", b.Features[0].Name())
	assert.Contains(t, string(b.Features[0].Geometry), "Polygon")
}

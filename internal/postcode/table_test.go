package postcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SW1A 1AA", "SW1A1AA"},
		{"sw1a1aa", "SW1A1AA"},
		{"  E1  6AN ", "E16AN"},
		{"N1 9GU", "N19GU"},
		{"", ""},
		{"X1", ""},          // too short to be a postcode
		{"SW1A 1AA 99", ""}, // too long once collapsed
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

func TestTableFirstSeenWins(t *testing.T) {
	tbl := NewTable()
	tbl.Add("SW1A 1AA", "WSM")
	tbl.Add("sw1a1aa", "OTHER")

	code, ok := tbl.Lookup("SW1A 1AA")
	require.True(t, ok)
	assert.Equal(t, "WSM", code)
	assert.Equal(t, 1, tbl.Duplicates)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableSkipsUnusableRows(t *testing.T) {
	tbl := NewTable()
	tbl.Add("", "WSM")
	tbl.Add("SW1A 1AA", "")

	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 2, tbl.Skipped)
}

func TestReadMySocFormat(t *testing.T) {
	csv := strings.Join([]string{
		"postcode,short_code,other",
		"SW1A 1AA,WSM,x",
		"E1 6AN,BGS,y",
	}, "\n")

	tbl := NewTable()
	require.NoError(t, tbl.Read(strings.NewReader(csv)))

	assert.Equal(t, 2, tbl.Len())
	code, ok := tbl.Lookup("e1 6an")
	require.True(t, ok)
	assert.Equal(t, "BGS", code)
}

func TestReadNSPLFormat(t *testing.T) {
	csv := strings.Join([]string{
		"pcd,pcds,pcon",
		"SW1A1AA,SW1A 1AA,E14001000",
		"N1 9GU,N1 9GU,", // no constituency assigned
	}, "\n")

	tbl := NewTable()
	require.NoError(t, tbl.Read(strings.NewReader(csv)))

	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 1, tbl.Skipped)
	code, ok := tbl.Lookup("SW1A 1AA")
	require.True(t, ok)
	assert.Equal(t, "E14001000", code)
}

func TestReadRejectsUnknownHeader(t *testing.T) {
	tbl := NewTable()
	err := tbl.Read(strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postcode")
}

func TestLookupMiss(t *testing.T) {
	tbl := NewTable()
	tbl.Add("SW1A 1AA", "WSM")

	_, ok := tbl.Lookup("ZZ99 9ZZ")
	assert.False(t, ok)
}

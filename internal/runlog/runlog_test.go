package runlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(cmd, scenario string) Entry {
	return Entry{
		Timestamp: time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
		Command:   cmd,
		Scenario:  scenario,
		Rows:      890123,
		Matched:   5120,
		Outputs:   "constituency_impact_2m.csv;household_impact_2m.csv",
	}
}

func TestAppendAndRead(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Append(root, []Entry{entry("analyze", "2m")}))
	require.NoError(t, Append(root, []Entry{entry("surcharge", "autumn-budget")}))

	entries, err := Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2, "second append must not rewrite the header")

	assert.Equal(t, "analyze", entries[0].Command)
	assert.Equal(t, "2m", entries[0].Scenario)
	assert.Equal(t, 890123, entries[0].Rows)
	assert.Equal(t, 5120, entries[0].Matched)
	assert.Equal(t, "surcharge", entries[1].Command)
	assert.True(t, entries[0].Timestamp.Equal(entry("", "").Timestamp))
}

func TestReadMissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalRejectsShortRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	require.Error(t, err)
}

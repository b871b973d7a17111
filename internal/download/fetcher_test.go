package download

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(ts *httptest.Server) *Fetcher {
	f := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.client = ts.Client()
	return f
}

func TestFetchWritesFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ledger,data\n")
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "data", "pp-2024.csv")
	require.NoError(t, testFetcher(ts).Fetch(context.Background(), ts.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "ledger,data\n", string(got))
}

func TestFetchSkipsExisting(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "pp-2024.csv")
	require.NoError(t, os.WriteFile(dest, []byte("existing"), 0o644))

	require.NoError(t, testFetcher(ts).Fetch(context.Background(), ts.URL, dest))
	assert.Equal(t, 0, calls, "present files are never re-fetched")

	got, _ := os.ReadFile(dest)
	assert.Equal(t, "existing", string(got))
}

func TestFetchReportsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "missing.csv")
	err := testFetcher(ts).Fetch(context.Background(), ts.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no partial file left behind")
}

func TestFetchAllCollectsFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer ts.Close()

	dir := t.TempDir()
	err := testFetcher(ts).FetchAll(context.Background(), []Download{
		{Desc: "good dataset", URL: ts.URL + "/good", Dest: filepath.Join(dir, "good.csv")},
		{Desc: "bad dataset", URL: ts.URL + "/bad", Dest: filepath.Join(dir, "bad.csv")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad dataset")

	// The good download still completed.
	_, statErr := os.Stat(filepath.Join(dir, "good.csv"))
	assert.NoError(t, statErr)
}

func writeZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nspl.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZipFiltersByPrefix(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"Data/multi_csv/NSPL_A.csv": "pcds,pcon\n",
		"Data/multi_csv/NSPL_B.csv": "pcds,pcon\n",
		"Documents/readme.csv":      "not this one",
		"Data/multi_csv/notes.txt":  "nor this",
	})

	destDir := filepath.Join(t.TempDir(), "NSPL")
	n, err := ExtractZip(zipPath, destDir, "Data/multi_csv/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExtractZipSkipsPopulatedDir(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"Data/multi_csv/NSPL_A.csv": "x"})

	destDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "already.csv"), []byte("y"), 0o644))

	n, err := ExtractZip(zipPath, destDir, "Data/multi_csv/")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExtractZipNoMatchingMembers(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"other/file.csv": "x"})

	_, err := ExtractZip(zipPath, filepath.Join(t.TempDir(), "out"), "Data/multi_csv/")
	require.Error(t, err)
}

func TestFetchConstituencyCSV(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"features":[
			{"attributes":{"PCON24CD":"E14001000","PCON24NM":"Cities of London and Westminster"}},
			{"attributes":{"PCON24CD":"E14001001","PCON24NM":"Islington North"}}]}`)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "constituencies.csv")
	err := testFetcher(ts).FetchConstituencyCSV(context.Background(), ts.URL, dest, "PCON24CD", "PCON24NM")
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t,
		"PCON24CD,PCON24NM\nE14001000,Cities of London and Westminster\nE14001001,Islington North\n",
		string(got))
}

func TestFetchConstituencyCSVEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"features":[]}`)
	}))
	defer ts.Close()

	err := testFetcher(ts).FetchConstituencyCSV(context.Background(), ts.URL,
		filepath.Join(t.TempDir(), "c.csv"), "PCON24CD", "PCON24NM")
	require.Error(t, err)
}

package download

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// The ONS publishes constituency names through an ArcGIS feature
// service rather than a flat file; the response is converted to a
// two-column CSV so the rest of the pipeline only ever sees CSV.

type arcgisResponse struct {
	Features []struct {
		Attributes map[string]string `json:"attributes"`
	} `json:"features"`
}

// FetchConstituencyCSV queries an ArcGIS feature service for
// constituency codes/names and writes them as CSV with the given
// attribute columns (e.g. PCON24CD, PCON24NM). Skips if dest exists.
func (f *Fetcher) FetchConstituencyCSV(ctx context.Context, url, dest, codeAttr, nameAttr string) error {
	if _, err := os.Stat(dest); err == nil {
		f.log.Info("already present, skipping", "dest", dest)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}

	f.log.Info("downloading constituency names", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	var payload arcgisResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decoding feature service response: %w", err)
	}
	if len(payload.Features) == 0 {
		return fmt.Errorf("feature service %s returned no features", url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write([]string{codeAttr, nameAttr}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, feat := range payload.Features {
		rec := []string{feat.Attributes[codeAttr], feat.Attributes[nameAttr]}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing feature %d: %w", i, err)
		}
	}
	if err := cw.Error(); err != nil {
		return err
	}
	f.log.Info("wrote constituency names", "dest", dest, "rows", len(payload.Features))
	return nil
}

// Package download acquires the public source datasets.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// Download describes one dataset to fetch.
type Download struct {
	Desc string
	URL  string
	Dest string
}

// Fetcher downloads dataset files. Files already on disk are never
// re-fetched: source releases are immutable snapshots, so presence
// means done.
type Fetcher struct {
	client *http.Client
	log    *slog.Logger
}

// New creates a Fetcher.
func New(log *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Minute},
		log:    log,
	}
}

// Fetch downloads url to dest unless dest already exists. Writes go
// through a temp file and rename so an interrupted run never leaves a
// truncated dataset behind.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		f.log.Info("already present, skipping", "dest", dest)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}

	f.log.Info("downloading", "url", url, "dest", dest)
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving %s into place: %w", dest, err)
	}
	f.log.Info("downloaded", "dest", dest, "bytes", n)
	return nil
}

// FetchAll downloads the datasets concurrently. All failures are
// collected; the first error is returned after every download settles.
func (f *Fetcher) FetchAll(ctx context.Context, downloads []Download) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, d := range downloads {
		g.Go(func() error {
			if err := f.Fetch(ctx, d.URL, d.Dest); err != nil {
				f.log.Error("download failed", "desc", d.Desc, "err", err)
				return fmt.Errorf("%s: %w", d.Desc, err)
			}
			return nil
		})
	}
	return g.Wait()
}

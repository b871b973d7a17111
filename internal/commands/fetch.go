package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/download"
	"github.com/proptax-dev/proptax/internal/runlog"
)

func newFetchCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the source datasets",
		Long: "Downloads the Land Registry price-paid ledger, the postcode to\n" +
			"constituency lookup, constituency names and boundaries, the hex-map\n" +
			"layout and the Census household counts. Files already on disk are\n" +
			"skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			return runFetch(cmd, cfg, root, *verbose)
		},
	}
}

func runFetch(cmd *cobra.Command, cfg *config.Config, root string, verbose bool) error {
	log := newLogger(verbose)
	fetcher := download.New(log)
	ctx := cmd.Context()

	postcodeDest := cfg.Data.PostcodeLookupPath()
	postcodeZipped := strings.HasSuffix(cfg.Sources.PostcodeLookup, ".zip")
	if postcodeZipped {
		postcodeDest = cfg.Data.PostcodeZipPath()
	}

	var downloads []download.Download
	add := func(desc, url, dest string) {
		if url != "" {
			downloads = append(downloads, download.Download{Desc: desc, URL: url, Dest: dest})
		}
	}
	add("price-paid ledger", cfg.Sources.PricePaid, cfg.Data.PricePaidPath())
	add("postcode lookup", cfg.Sources.PostcodeLookup, postcodeDest)
	add("constituency names", cfg.Sources.Constituencies, cfg.Data.ConstituencyPath())
	add("hex-map layout", cfg.Sources.HexGrid, cfg.Data.HexGridPath())
	add("constituency boundaries", cfg.Sources.Boundaries, cfg.Data.BoundariesPath())
	add("census households", cfg.Sources.Census, cfg.Data.CensusPath())

	if err := fetcher.FetchAll(ctx, downloads); err != nil {
		return err
	}

	// The ArcGIS route serves the NSPL (GSS-coded) pairing; a plain
	// names CSV takes precedence when both are configured.
	if cfg.Sources.Constituencies == "" && cfg.Sources.ConstituencySvc != "" {
		err := fetcher.FetchConstituencyCSV(ctx, cfg.Sources.ConstituencySvc,
			cfg.Data.ConstituencyPath(), "PCON24CD", "PCON24NM")
		if err != nil {
			return err
		}
	}

	if postcodeZipped {
		n, err := download.ExtractZip(cfg.Data.PostcodeZipPath(), cfg.Data.PostcodeDirPath(), "Data/multi_csv/")
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("extracted postcode CSVs", "files", n)
		}
	}

	entry := runlog.Entry{
		Timestamp: time.Now(),
		Command:   "fetch",
		Scenario:  fmt.Sprintf("%d datasets", len(downloads)),
	}
	if err := runlog.Append(root, []runlog.Entry{entry}); err != nil {
		log.Warn("appending run log failed", "err", err)
	}

	fmt.Printf("Fetched %d datasets into %s\n", len(downloads), cfg.Data.Dir)
	return nil
}

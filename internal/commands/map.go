package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/geography"
	"github.com/proptax-dev/proptax/internal/hexmap"
	"github.com/proptax-dev/proptax/internal/report"
	"github.com/proptax-dev/proptax/internal/runlog"
)

func newMapCommand(configPath *string, verbose *bool) *cobra.Command {
	var title, subtitle, source string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render the surcharge map from the published summary",
		Long: "Reads the surcharge summary table and renders the interactive\n" +
			"D3 map (geographic and hex-cartogram views) plus a static SVG.\n" +
			"Run proptax surcharge first to produce the summary.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			return runMap(cfg, root, *verbose, title, subtitle, source)
		},
	}

	cmd.Flags().StringVar(&title, "title", "Property surcharge by constituency", "map title")
	cmd.Flags().StringVar(&subtitle, "subtitle",
		"Share of surcharge revenue implied by recent sales", "map subtitle")
	cmd.Flags().StringVar(&source, "source",
		"HM Land Registry price paid data; ONS boundaries and Census 2021", "source attribution line")

	return cmd
}

func runMap(cfg *config.Config, root string, verbose bool, title, subtitle, source string) error {
	log := newLogger(verbose)

	rows, err := report.LoadSummary(cfg.Outputs.SummaryPath())
	if err != nil {
		return err
	}

	grid, err := geography.LoadHexGrid(cfg.Data.HexGridPath())
	if err != nil {
		return err
	}
	boundaries, err := geography.LoadBoundaries(cfg.Data.BoundariesPath())
	if err != nil {
		return err
	}

	data := hexmap.Build(rows, grid, boundaries)
	data.Title = title
	data.Subtitle = subtitle
	data.Source = source

	htmlPath := cfg.Outputs.MapHTMLPath()
	if err := hexmap.WriteHTML(htmlPath, data); err != nil {
		return err
	}
	svgPath := cfg.Outputs.MapSVGPath()
	if err := hexmap.WriteSVG(svgPath, data); err != nil {
		return err
	}
	log.Info("rendered maps", "html", htmlPath, "svg", svgPath)

	entry := runlog.Entry{
		Timestamp: time.Now(),
		Command:   "map",
		Scenario:  title,
		Rows:      len(rows),
		Outputs:   strings.Join([]string{htmlPath, svgPath}, ";"),
	}
	if err := runlog.Append(root, []runlog.Entry{entry}); err != nil {
		log.Warn("appending run log failed", "err", err)
	}
	commitOutputs(log, cfg, root, "map: refresh surcharge maps", []string{htmlPath, svgPath})

	fmt.Printf("Rendered %s and %s\n", htmlPath, svgPath)
	return nil
}

package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/proptax-dev/proptax/internal/analysis"
	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/policy"
	"github.com/proptax-dev/proptax/internal/report"
	"github.com/proptax-dev/proptax/internal/runlog"
)

func newSurchargeCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "surcharge",
		Short: "Run the banded surcharge analysis",
		Long: "Uprates sale prices to the valuation year, classifies them into\n" +
			"surcharge bands and tabulates the implied revenue per constituency.\n" +
			"A configured external revenue total is allocated in proportion to\n" +
			"each constituency's share.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			return runSurcharge(cfg, root, *verbose)
		},
	}
}

func runSurcharge(cfg *config.Config, root string, verbose bool) error {
	log := newLogger(verbose)

	bands, err := cfg.Surcharge.ParsedBands()
	if err != nil {
		return err
	}
	hpi, err := cfg.Surcharge.ParsedHPI()
	if err != nil {
		return err
	}
	cpi, err := cfg.Surcharge.ParsedCPI()
	if err != nil {
		return err
	}
	if cpi != nil {
		if verrs := policy.ValidateSchedule(cpi, cfg.Surcharge.ValuationYear, cfg.Surcharge.ChargeYear); len(verrs) > 0 {
			return fmt.Errorf("cpi_growth: %s", verrs[0])
		}
	}
	revenue, err := cfg.Surcharge.ParsedExternalRevenue()
	if err != nil {
		return err
	}

	in, stats, err := loadInputs(log, cfg)
	if err != nil {
		return err
	}

	res, err := analysis.RunSurcharge(in, analysis.SurchargePolicy{
		Bands:          bands,
		PriceGrowth:    hpi,
		ValuationYear:  cfg.Surcharge.ValuationYear,
		BoundaryGrowth: cpi,
		ChargeYear:     cfg.Surcharge.ChargeYear,
	})
	if err != nil {
		return err
	}
	if revenue.IsPositive() {
		res.AllocateTotal(revenue)
	}

	if err := os.MkdirAll(cfg.Outputs.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	impactPath := cfg.Outputs.ImpactPath("surcharge")
	if err := report.WriteFile(impactPath, func(w io.Writer) error {
		return report.WriteImpact(w, res.Rows)
	}); err != nil {
		return err
	}
	summaryPath := cfg.Outputs.SummaryPath()
	if err := report.WriteFile(summaryPath, func(w io.Writer) error {
		return report.WriteSummary(w, res.Rows)
	}); err != nil {
		return err
	}

	printSurchargeSummary(cfg, revenue, res)

	entry := runlog.Entry{
		Timestamp: time.Now(),
		Command:   "surcharge",
		Scenario:  fmt.Sprintf("valuation %d", cfg.Surcharge.ValuationYear),
		Rows:      stats.Rows,
		Matched:   res.Match.Matched,
		Outputs:   strings.Join([]string{impactPath, summaryPath}, ";"),
	}
	if err := runlog.Append(root, []runlog.Entry{entry}); err != nil {
		log.Warn("appending run log failed", "err", err)
	}
	commitOutputs(log, cfg, root, "surcharge: refresh tables", []string{impactPath, summaryPath})
	return nil
}

func printSurchargeSummary(cfg *config.Config, revenue decimal.Decimal, res *analysis.Result) {
	fmt.Printf("\nSurcharge scenario, prices uprated to %d\n", cfg.Surcharge.ValuationYear)
	fmt.Printf("  in-scope sales: %d  matched: %d (%s%%)\n",
		res.Match.InScope, res.Match.Matched,
		res.Match.Rate().Mul(decimal.NewFromInt(100)).StringFixed(1))

	fmt.Println("  sales by band:")
	for i, b := range cfg.Surcharge.Bands {
		count := 0
		if i < len(res.BandCounts) {
			count = res.BandCounts[i]
		}
		span := "£" + b.Lower + " and above"
		if b.Upper != "" {
			span = fmt.Sprintf("£%s to £%s", b.Lower, b.Upper)
		}
		fmt.Printf("    %-28s £%s/yr  %6d sales\n", span, b.Charge, count)
	}

	fmt.Printf("  implied annual revenue from sales: £%s\n", comma(res.TotalImplied))
	if revenue.IsPositive() {
		fmt.Printf("  allocated external revenue: £%s\n", comma(revenue))
	}

	fmt.Println("  top constituencies by affected sales:")
	for i, r := range res.Rows {
		if i == 10 || r.Sales == 0 {
			break
		}
		amount := r.ImpliedSurcharge
		if revenue.IsPositive() {
			amount = r.AllocatedRevenue
		}
		fmt.Printf("    %2d. %-45s %6d sales  £%s\n", i+1, r.Name, r.Sales, comma(amount))
	}
}

package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/proptax-dev/proptax/internal/analysis"
	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/model"
	"github.com/proptax-dev/proptax/internal/report"
	"github.com/proptax-dev/proptax/internal/runlog"
)

func newAnalyzeCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the flat mansion-tax analysis",
		Long: "Joins the price-paid ledger to constituencies and, for each\n" +
			"configured threshold, tabulates the sales that would pay the flat\n" +
			"annual charge.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadProject(*configPath)
			if err != nil {
				return err
			}
			return runAnalyze(cfg, root, *verbose)
		},
	}
}

func runAnalyze(cfg *config.Config, root string, verbose bool) error {
	log := newLogger(verbose)

	thresholds, err := cfg.MansionTax.ParsedThresholds()
	if err != nil {
		return err
	}
	charge, err := cfg.MansionTax.ParsedCharge()
	if err != nil {
		return err
	}

	in, stats, err := loadInputs(log, cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Outputs.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	var entries []runlog.Entry
	var outputs []string
	for _, threshold := range thresholds {
		res, err := analysis.RunFlat(in, analysis.FlatPolicy{Threshold: threshold, AnnualCharge: charge})
		if err != nil {
			return err
		}

		label := "mansion_tax_" + threshold.StringFixed(0)
		impactPath := cfg.Outputs.ImpactPath(label)
		if err := report.WriteFile(impactPath, func(w io.Writer) error {
			return report.WriteImpact(w, res.Rows)
		}); err != nil {
			return err
		}

		householdPath := cfg.Outputs.HouseholdPath(label)
		if err := report.WriteFile(householdPath, func(w io.Writer) error {
			return report.WriteHouseholdImpact(w, byHouseholdImpact(res.Rows), charge)
		}); err != nil {
			return err
		}
		outputs = append(outputs, impactPath, householdPath)

		printFlatSummary(threshold, charge, res)

		entries = append(entries, runlog.Entry{
			Timestamp: time.Now(),
			Command:   "analyze",
			Scenario:  label,
			Rows:      stats.Rows,
			Matched:   res.Match.Matched,
			Outputs:   strings.Join([]string{impactPath, householdPath}, ";"),
		})
	}

	if err := runlog.Append(root, entries); err != nil {
		log.Warn("appending run log failed", "err", err)
	}
	commitOutputs(log, cfg, root, "analyze: refresh mansion-tax tables", outputs)
	return nil
}

// byHouseholdImpact orders rows for the household table: hardest-hit
// constituencies first, zero-impact rows dropped.
func byHouseholdImpact(rows []model.ConstituencyAggregate) []model.ConstituencyAggregate {
	out := make([]model.ConstituencyAggregate, 0, len(rows))
	for _, r := range rows {
		if r.Sales > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PctHouseholds.Equal(out[j].PctHouseholds) {
			return out[i].PctHouseholds.GreaterThan(out[j].PctHouseholds)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func printFlatSummary(threshold, charge decimal.Decimal, res *analysis.Result) {
	fmt.Printf("\nThreshold £%s, charge £%s/yr\n", comma(threshold), comma(charge))
	fmt.Printf("  in-scope sales: %d  matched: %d (%s%%)\n",
		res.Match.InScope, res.Match.Matched,
		res.Match.Rate().Mul(decimal.NewFromInt(100)).StringFixed(1))
	fmt.Printf("  implied annual revenue: £%s\n", comma(res.TotalImplied))

	fmt.Println("  top constituencies by affected sales:")
	for i, r := range res.Rows {
		if i == 10 || r.Sales == 0 {
			break
		}
		fmt.Printf("    %2d. %-45s %6d sales  £%s\n", i+1, r.Name, r.Sales, comma(r.ImpliedSurcharge))
	}
}

// comma formats a decimal as whole pounds with thousands separators.
func comma(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/proptax-dev/proptax/internal/analysis"
	"github.com/proptax-dev/proptax/internal/census"
	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/geography"
	"github.com/proptax-dev/proptax/internal/postcode"
	"github.com/proptax-dev/proptax/internal/pricepaid"
)

// loadInputs reads every dataset both analysis modes share. The Census
// workbook is optional: without it the household percentages are simply
// absent from the tables.
func loadInputs(log *slog.Logger, cfg *config.Config) (analysis.Inputs, pricepaid.Stats, error) {
	var in analysis.Inputs
	var stats pricepaid.Stats

	if _, err := os.Stat(cfg.Data.PricePaidPath()); err != nil {
		return in, stats, fmt.Errorf("no price-paid ledger at %s (run proptax fetch first)", cfg.Data.PricePaidPath())
	}

	log.Info("loading price-paid ledger", "path", cfg.Data.PricePaidPath())
	sales, stats, err := pricepaid.Load(cfg.Data.PricePaidPath())
	if err != nil {
		return in, stats, err
	}
	if stats.Excluded() > 0 {
		log.Warn("excluded unusable ledger rows",
			"bad_price", stats.BadPrice, "bad_date", stats.BadDate, "missing_postcode", stats.MissingPostcode)
	}
	in.Sales = sales

	in.Lookup, err = loadLookup(log, cfg)
	if err != nil {
		return in, stats, err
	}
	if in.Lookup.Duplicates > 0 {
		log.Warn("duplicate postcodes in lookup, first mapping kept", "count", in.Lookup.Duplicates)
	}

	log.Info("loading constituency register", "path", cfg.Data.ConstituencyPath())
	in.Register, err = geography.LoadRegister(cfg.Data.ConstituencyPath())
	if err != nil {
		return in, stats, err
	}

	if _, err := os.Stat(cfg.Data.CensusPath()); err == nil {
		in.Households, err = census.LoadHouseholds(cfg.Data.CensusPath())
		if err != nil {
			return in, stats, err
		}
	} else {
		log.Warn("census workbook missing, household percentages omitted", "path", cfg.Data.CensusPath())
	}

	log.Info("inputs loaded",
		"sales", len(in.Sales), "postcodes", in.Lookup.Len(), "constituencies", in.Register.Len())
	return in, stats, nil
}

// loadLookup accepts either the single-file lookup or a directory of
// per-area NSPL CSVs, whichever fetch produced.
func loadLookup(log *slog.Logger, cfg *config.Config) (*postcode.Table, error) {
	if _, err := os.Stat(cfg.Data.PostcodeLookupPath()); err == nil {
		log.Info("loading postcode lookup", "path", cfg.Data.PostcodeLookupPath())
		return postcode.Load(cfg.Data.PostcodeLookupPath())
	}
	if _, err := os.Stat(cfg.Data.PostcodeDirPath()); err == nil {
		log.Info("loading postcode lookup", "dir", cfg.Data.PostcodeDirPath())
		return postcode.LoadDir(cfg.Data.PostcodeDirPath())
	}
	return nil, fmt.Errorf("no postcode lookup found at %s or %s (run proptax fetch first)",
		cfg.Data.PostcodeLookupPath(), cfg.Data.PostcodeDirPath())
}

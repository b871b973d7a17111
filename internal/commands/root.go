// Package commands wires the pipeline stages into the proptax CLI.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/proptax-dev/proptax/internal/buildinfo"
	"github.com/proptax-dev/proptax/internal/config"
	"github.com/proptax-dev/proptax/internal/gitops"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "proptax",
		Short:   "Property surcharge impact analysis by constituency",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "proptax.yaml", "path to the project config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newFetchCommand(&configPath, &verbose))
	rootCmd.AddCommand(newAnalyzeCommand(&configPath, &verbose))
	rootCmd.AddCommand(newSurchargeCommand(&configPath, &verbose))
	rootCmd.AddCommand(newMapCommand(&configPath, &verbose))

	return rootCmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadProject reads the config and anchors its relative paths at the
// config file's directory, so commands work from anywhere. A .env in
// the working directory may set PROPTAX_CONFIG; once the project root
// is known its own .env is read too (PROPTAX_DATA_DIR). Variables
// already set in the environment win.
func loadProject(configPath string) (*config.Config, string, error) {
	_ = godotenv.Load()

	if env := os.Getenv("PROPTAX_CONFIG"); env != "" && configPath == "proptax.yaml" {
		configPath = env
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path: %w", err)
	}
	root := filepath.Dir(abs)
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg, err := config.Load(abs)
	if err != nil {
		return nil, "", err
	}

	if env := os.Getenv("PROPTAX_DATA_DIR"); env != "" {
		cfg.Data.Dir = env
	}
	if !filepath.IsAbs(cfg.Data.Dir) {
		cfg.Data.Dir = filepath.Join(root, cfg.Data.Dir)
	}
	if !filepath.IsAbs(cfg.Outputs.Dir) {
		cfg.Outputs.Dir = filepath.Join(root, cfg.Outputs.Dir)
	}
	return cfg, root, nil
}

// commitOutputs commits generated files when auto-commit is on and the
// project root is a repository. Paths are made root-relative for git.
func commitOutputs(log *slog.Logger, cfg *config.Config, root, message string, paths []string) {
	if !cfg.Git.AutoCommit {
		return
	}
	if !gitops.IsRepo(root) {
		log.Warn("auto_commit is on but project is not a git repository", "root", root)
		return
	}

	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			log.Warn("output outside project root, not committing", "path", p)
			continue
		}
		rel = append(rel, r)
	}
	if len(rel) == 0 {
		return
	}

	hash, err := gitops.CommitOutputs(root, rel, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		log.Warn("committing outputs failed", "err", err)
		return
	}
	if hash != "" {
		log.Info("committed outputs", "commit", hash)
	}
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankcap/internal/config"
	"github.com/cleared-dev/bankcap/internal/extract"
	"github.com/cleared-dev/bankcap/internal/gitops"
	"github.com/cleared-dev/bankcap/internal/pipeline"
)

type runFlags struct {
	config  string
	url     string
	rates   string
	csv     string
	db      string
	table   string
	log     string
	timeout string
	lenient bool
	commit  bool
}

func newRunCommand(newLogger func(io.Writer) *log.Logger) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the extract, transform and load pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f.config)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)

			logger := newLogger(cmd.ErrOrStderr())
			rep, err := pipeline.Run(cmd.Context(), cfg, pipeline.Deps{
				Logger: logger,
				Out:    cmd.OutOrStdout(),
			})

			if rep.Stage >= pipeline.StagePersistedToStore {
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d banks into %s (table %s), run %s\n",
					rep.Table.Len(), cfg.Output.DB, cfg.Output.Table, rep.RunID)
				if cfg.Git.AutoCommit {
					if cerr := commitSnapshot(cmd, cfg, rep, logger); cerr != nil {
						err = errors.Join(err, cerr)
					}
				}
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "config file (default bankcap.yaml or bankcap.toml in the working directory)")
	fl.StringVar(&f.url, "url", "", "source page URL")
	fl.StringVar(&f.rates, "rates", "", "exchange rate CSV")
	fl.StringVar(&f.csv, "csv", "", "output CSV file")
	fl.StringVar(&f.db, "db", "", "SQLite database file")
	fl.StringVar(&f.table, "table", "", "database table name")
	fl.StringVar(&f.log, "log", "", "progress log file")
	fl.StringVar(&f.timeout, "timeout", "", "HTTP timeout, e.g. 30s")
	fl.BoolVar(&f.lenient, "lenient", false, "accept thousands separators in market caps")
	fl.BoolVar(&f.commit, "commit", false, "commit the CSV to the enclosing git repository")

	return cmd
}

// apply overrides config values with flags the user set explicitly.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("url", &cfg.Source.URL, f.url)
	set("rates", &cfg.Rates.Path, f.rates)
	set("csv", &cfg.Output.CSV, f.csv)
	set("db", &cfg.Output.DB, f.db)
	set("table", &cfg.Output.Table, f.table)
	set("log", &cfg.Output.Log, f.log)
	set("timeout", &cfg.Source.Timeout, f.timeout)
	if f.lenient {
		cfg.Source.NumberMode = string(extract.Lenient)
	}
	if f.commit {
		cfg.Git.AutoCommit = true
	}
}

func commitSnapshot(cmd *cobra.Command, cfg *config.Config, rep *pipeline.Report, logger *log.Logger) error {
	ctx := cmd.Context()
	csvPath, err := filepath.Abs(cfg.Output.CSV)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	dir := filepath.Dir(csvPath)
	if !gitops.IsRepo(ctx, dir) {
		logger.Warn().Str("dir", dir).Msg("auto commit enabled but output is not in a git repository")
		return nil
	}

	msg := fmt.Sprintf("data: %d banks (run %s)", rep.Table.Len(), rep.RunID)
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(ctx, dir, []string{filepath.Base(csvPath)}, msg, author)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		logger.Info().Str("csv", csvPath).Msg("table unchanged, nothing to commit")
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Committed %s (%s)\n", filepath.Base(csvPath), hash)
	return nil
}

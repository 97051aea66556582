package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankcap/internal/query"
	"github.com/cleared-dev/bankcap/internal/store"
)

func newQueryCommand() *cobra.Command {
	var configPath, dbPath, col string

	cmd := &cobra.Command{
		Use:   "query [statement]...",
		Short: "Run SQL statements against the loaded database",
		Long:  "Run SQL statements against the loaded database. With no statements the configured queries are run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.Output.DB = dbPath
			}
			if _, err := os.Stat(cfg.Output.DB); err != nil {
				return fmt.Errorf("database %s not found (run `bankcap run` first): %w", cfg.Output.DB, err)
			}

			statements := args
			if len(statements) == 0 {
				statements = cfg.Queries
			}

			db, err := store.Open(cfg.Output.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("connecting to %s: %w", db.Path(), err)
			}

			if col == "" {
				_, err = query.NewRunner(db.DB(), cmd.OutOrStdout()).Run(cmd.Context(), statements)
				return err
			}

			// Print one column's values, one per line.
			results, err := query.NewRunner(db.DB(), nil).Run(cmd.Context(), statements)
			for _, r := range results {
				if r.Err != nil {
					continue
				}
				values := r.Column(col)
				if values == nil {
					err = errors.Join(err, fmt.Errorf("%s: no column %q", r.Statement, col))
					continue
				}
				for _, v := range values {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file")
	cmd.Flags().StringVar(&col, "column", "", "print only this column's values, one per line")

	return cmd
}

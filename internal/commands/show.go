package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankcap/internal/model"
	"github.com/cleared-dev/bankcap/internal/query"
	"github.com/cleared-dev/bankcap/internal/store"
)

func newShowCommand() *cobra.Command {
	var configPath, csvPath string
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the table saved to CSV by the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("csv") {
				cfg.Output.CSV = csvPath
			}

			t, err := store.LoadCSV(cfg.Output.CSV)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if namesOnly {
				for _, n := range t.Names() {
					fmt.Fprintln(w, n)
				}
				return nil
			}
			return query.Print(w, tableResult(cfg.Output.CSV, t))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to read")
	cmd.Flags().BoolVar(&namesOnly, "names", false, "print bank names only")

	return cmd
}

// tableResult renders a bank table in the same shape as a query result.
func tableResult(title string, t *model.Table) query.Result {
	res := query.Result{Statement: title, Columns: t.Columns()}
	for _, b := range t.Banks {
		row := []string{b.Name, b.MarketCapUSD.String()}
		for _, c := range t.Currencies {
			v, _ := b.In(c)
			row = append(row, v.StringFixed(2))
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

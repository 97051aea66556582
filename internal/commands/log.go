package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankcap/internal/progress"
)

func newLogCommand() *cobra.Command {
	var configPath, logPath string
	var tail int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the progress log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log") {
				cfg.Output.Log = logPath
			}

			entries, err := progress.Read(cfg.Output.Log)
			if err != nil {
				return err
			}
			if tail > 0 && len(entries) > tail {
				entries = entries[len(entries)-tail:]
			}
			for _, e := range entries {
				fmt.Fprint(cmd.OutOrStdout(), progress.FormatLine(e.Timestamp, e.Message))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file")
	cmd.Flags().StringVar(&logPath, "log", "", "progress log file")
	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "show only the last n entries")

	return cmd
}

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankcap/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "bankcap",
		Short:   "Scrape, convert and load the largest-banks table",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "console log level (debug, info, warn, error)")

	newLogger := func(w io.Writer) *log.Logger {
		return &log.Logger{
			Level:  log.ParseLevel(logLevel),
			Writer: &log.ConsoleWriter{Writer: w},
		}
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand(newLogger))
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newLogCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

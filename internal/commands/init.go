package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankcap/internal/config"
	"github.com/cleared-dev/bankcap/internal/gitops"
	"github.com/cleared-dev/bankcap/internal/rates"
)

func newInitCommand() *cobra.Command {
	var format string
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a bankcap project with a config and sample exchange rates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			name, err := configFileName(format)
			if err != nil {
				return err
			}
			if err := runInit(cmd.Context(), absDir, name, withGit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized bankcap project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "config format (yaml or toml)")
	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit each run's CSV")

	return cmd
}

func configFileName(format string) (string, error) {
	switch format {
	case "yaml", "yml":
		return config.FileYAML, nil
	case "toml":
		return config.FileTOML, nil
	default:
		return "", fmt.Errorf("unknown config format %q (want yaml or toml)", format)
	}
}

func runInit(ctx context.Context, dir, configName string, withGit bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	// Refuse to clobber an existing project.
	for _, name := range []string{config.FileYAML, config.FileTOML} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return fmt.Errorf("%s already exists in %s", name, dir)
		}
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = withGit
	if err := config.Save(filepath.Join(dir, configName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ratesPath := filepath.Join(dir, cfg.Rates.Path)
	if _, err := os.Stat(ratesPath); os.IsNotExist(err) {
		if err := rates.Save(ratesPath, rates.Sample()); err != nil {
			return fmt.Errorf("writing exchange rates: %w", err)
		}
	}

	if !withGit {
		return nil
	}

	// Only the CSV snapshot is tracked.
	gitignore := filepath.Base(cfg.Output.DB) + "\n" + filepath.Base(cfg.Output.Log) + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if gitops.IsRepo(ctx, dir) {
		return nil
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	paths := []string{".gitignore", configName, filepath.Base(ratesPath)}
	if _, err := gitops.Commit(ctx, dir, paths, "init: bankcap project", author); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/bankcap/internal/config"
)

// loadConfig reads the config at path, or bankcap.yaml / bankcap.toml in the
// working directory when path is empty. With no file at all the defaults are
// used. Relative paths in the config are resolved against its directory.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		for _, name := range []string{config.FileYAML, config.FileTOML} {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s not found (run `bankcap init` first)", path)
		}
		return nil, err
	}
	cfg.Resolve(filepath.Dir(path))
	return cfg, nil
}

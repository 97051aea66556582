package rates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
)

// Load reads an exchange rate CSV from disk.
func Load(path string) (*model.RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, etlerr.NewResourceUnavailable("open rates "+path, err)
	}
	defer f.Close()

	table, err := ReadRates(f)
	if err != nil {
		return nil, fmt.Errorf("reading rates %s: %w", path, err)
	}
	return table, nil
}

// Save writes an exchange rate CSV, creating parent directories as needed.
func Save(path string, table *model.RateTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rates dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating rates file: %w", err)
	}

	if err := WriteRates(f, table); err != nil {
		f.Close()
		return fmt.Errorf("writing rates: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing rates file: %w", err)
	}
	return nil
}

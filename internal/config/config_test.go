package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankcap/internal/extract"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultURL, cfg.Source.URL)
	assert.Equal(t, "strict", cfg.Source.NumberMode)
	assert.Empty(t, cfg.Source.Timeout, "no timeout unless configured")
	assert.Equal(t, "./exchange_rate.csv", cfg.Rates.Path)
	assert.Equal(t, "./Largest_banks_data.csv", cfg.Output.CSV)
	assert.Equal(t, "Banks.db", cfg.Output.DB)
	assert.Equal(t, "Largest_banks", cfg.Output.Table)
	assert.Equal(t, "./code_log.txt", cfg.Output.Log)
	assert.Equal(t, []string{
		"SELECT * FROM Largest_banks",
		"SELECT AVG(MC_GBP_Billion) FROM Largest_banks",
		"SELECT Name FROM Largest_banks LIMIT 5",
	}, cfg.Queries)
	assert.False(t, cfg.Git.AutoCommit)
	require.NoError(t, cfg.Validate())
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{FileYAML, FileTOML} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Source.NumberMode = "lenient"
			cfg.Source.Timeout = "45s"
			cfg.Output.Table = "Banks_2023"
			cfg.Queries = []string{"SELECT COUNT(*) FROM Banks_2023"}
			cfg.Git.AutoCommit = true

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cfg))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "bankcap.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("output:\n  db: data/banks.db\n"), 0o644))
	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "data/banks.db", cfg.Output.DB)
	assert.Equal(t, "Largest_banks", cfg.Output.Table)
	assert.Len(t, cfg.Queries, 3)

	tomlPath := filepath.Join(dir, "bankcap.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[source]\nnumber_mode = \"lenient\"\n"), 0o644))
	cfg, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "lenient", cfg.Source.NumberMode)
	assert.Equal(t, DefaultURL, cfg.Source.URL)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankcap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[source\nurl = \n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileYAML)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "table: Largest_banks")
	assert.Contains(t, contents, "number_mode: strict")
	assert.Contains(t, contents, "auto_commit: false")
}

func TestTOMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileTOML)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "[output]")
	assert.Regexp(t, `table = ['"]Largest_banks['"]`, contents)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing url", func(c *Config) { c.Source.URL = "" }, "source.url is required"},
		{"bad scheme", func(c *Config) { c.Source.URL = "ftp://example.com" }, "unsupported scheme"},
		{"bad timeout", func(c *Config) { c.Source.Timeout = "soon" }, "source.timeout"},
		{"negative timeout", func(c *Config) { c.Source.Timeout = "-1s" }, "negative duration"},
		{"bad mode", func(c *Config) { c.Source.NumberMode = "fuzzy" }, "source.number_mode"},
		{"missing rates", func(c *Config) { c.Rates.Path = " " }, "rates.path is required"},
		{"missing db", func(c *Config) { c.Output.DB = "" }, "output.db is required"},
		{"table name", func(c *Config) { c.Output.Table = "banks; DROP" }, "output.table"},
		{"empty query", func(c *Config) { c.Queries = []string{"SELECT 1", ""} }, "queries[1] is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Source.URL = ""
	cfg.Output.CSV = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.url")
	assert.Contains(t, err.Error(), "output.csv")
}

func TestTimeoutDuration(t *testing.T) {
	cfg := Default()
	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	cfg.Source.Timeout = "30s"
	d, err = cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestExtractOptions(t *testing.T) {
	cfg := Default()
	cfg.Source.NumberMode = "Lenient"

	opts := cfg.ExtractOptions()
	assert.Equal(t, extract.Lenient, opts.Mode)
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.Output.DB = "/var/lib/bankcap/Banks.db"
	cfg.Resolve(filepath.Join("projects", "banks"))

	assert.Equal(t, filepath.Join("projects", "banks", "exchange_rate.csv"), cfg.Rates.Path)
	assert.Equal(t, filepath.Join("projects", "banks", "Largest_banks_data.csv"), cfg.Output.CSV)
	assert.Equal(t, filepath.Join("projects", "banks", "code_log.txt"), cfg.Output.Log)
	assert.Equal(t, "/var/lib/bankcap/Banks.db", cfg.Output.DB)
}

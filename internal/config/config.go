package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bankcap/internal/extract"
	"github.com/cleared-dev/bankcap/internal/query"
	"github.com/cleared-dev/bankcap/internal/store"
)

// Default file names written by `bankcap init`.
const (
	FileYAML = "bankcap.yaml"
	FileTOML = "bankcap.toml"
)

// DefaultURL is the archived snapshot of the largest-banks page.
const DefaultURL = "https://web.archive.org/web/20230908091635/https://en.wikipedia.org/wiki/List_of_largest_banks"

// Config represents the top-level bankcap configuration.
type Config struct {
	Source  SourceConfig `yaml:"source" toml:"source"`
	Rates   RatesConfig  `yaml:"rates" toml:"rates"`
	Output  OutputConfig `yaml:"output" toml:"output"`
	Queries []string     `yaml:"queries" toml:"queries"`
	Git     GitConfig    `yaml:"git" toml:"git"`
}

// SourceConfig describes where the bank table comes from.
type SourceConfig struct {
	URL        string `yaml:"url" toml:"url"`
	Timeout    string `yaml:"timeout" toml:"timeout"`         // Go duration, e.g. "30s"; empty waits indefinitely
	NumberMode string `yaml:"number_mode" toml:"number_mode"` // "strict" or "lenient"
}

// RatesConfig points at the exchange-rate CSV.
type RatesConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// OutputConfig names the files a run writes.
type OutputConfig struct {
	CSV   string `yaml:"csv" toml:"csv"`
	DB    string `yaml:"db" toml:"db"`
	Table string `yaml:"table" toml:"table"`
	Log   string `yaml:"log" toml:"log"`
}

// GitConfig controls committing run output to a git repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" toml:"auto_commit"`
	AuthorName  string `yaml:"author_name" toml:"author_name"`
	AuthorEmail string `yaml:"author_email" toml:"author_email"`
}

// Default returns a Config with the standard paths and queries.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:        DefaultURL,
			NumberMode: string(extract.Strict),
		},
		Rates: RatesConfig{
			Path: "./exchange_rate.csv",
		},
		Output: OutputConfig{
			CSV:   "./Largest_banks_data.csv",
			DB:    "Banks.db",
			Table: store.DefaultTable,
			Log:   "./code_log.txt",
		},
		Queries: append([]string(nil), query.Defaults...),
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "bankcap",
			AuthorEmail: "bankcap@cleared.dev",
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML config file from disk, chosen by extension.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config as YAML or TOML, chosen by extension.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate reports every problem with the config.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Source.URL)
	switch {
	case c.Source.URL == "":
		errs = append(errs, errors.New("source.url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("source.url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("source.url: unsupported scheme %q", u.Scheme))
	}

	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := extract.ParseNumberMode(c.Source.NumberMode); err != nil {
		errs = append(errs, fmt.Errorf("source.number_mode: %w", err))
	}

	required := []struct{ key, val string }{
		{"rates.path", c.Rates.Path},
		{"output.csv", c.Output.CSV},
		{"output.db", c.Output.DB},
		{"output.log", c.Output.Log},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}
	if !identRe.MatchString(c.Output.Table) {
		errs = append(errs, fmt.Errorf("output.table: invalid table name %q", c.Output.Table))
	}

	for i, q := range c.Queries {
		if strings.TrimSpace(q) == "" {
			errs = append(errs, fmt.Errorf("queries[%d] is empty", i))
		}
	}

	return errors.Join(errs...)
}

// TimeoutDuration parses Source.Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Source.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Source.Timeout)
	if err != nil {
		return 0, fmt.Errorf("source.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("source.timeout: negative duration %s", d)
	}
	return d, nil
}

// ExtractOptions returns the parsing options for the configured source.
// Call Validate first.
func (c *Config) ExtractOptions() extract.Options {
	opts := extract.DefaultOptions()
	if mode, err := extract.ParseNumberMode(c.Source.NumberMode); err == nil {
		opts.Mode = mode
	}
	return opts
}

// Resolve makes relative file paths relative to base, the directory the
// config file was loaded from.
func (c *Config) Resolve(base string) {
	for _, p := range []*string{&c.Rates.Path, &c.Output.CSV, &c.Output.DB, &c.Output.Log} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

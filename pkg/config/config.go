package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for proband.
type Config struct {
	// Report generation settings
	Report ReportConfig `koanf:"report" toml:"report"`

	// Chart rasterization
	Chart ChartConfig `koanf:"chart" toml:"chart"`

	// PDF fonts
	PDF PDFConfig `koanf:"pdf" toml:"pdf"`

	// Historical measurement archive
	Archive ArchiveConfig `koanf:"archive" toml:"archive"`

	// Chart cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Logging
	Log LogConfig `koanf:"log" toml:"log"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ReportConfig controls report content.
type ReportConfig struct {
	Institution   string   `koanf:"institution" toml:"institution"`
	OutputDir     string   `koanf:"output_dir" toml:"output_dir"`
	Formats       []string `koanf:"formats" toml:"formats"` // pdf, docx, html
	ChartStyle    string   `koanf:"chart_style" toml:"chart_style"`
	ExtendedStats bool     `koanf:"extended_stats" toml:"extended_stats"`
	GroupLabel    string   `koanf:"group_label" toml:"group_label"`
}

// ChartConfig sets the raster size of charts.
type ChartConfig struct {
	Width  int     `koanf:"width" toml:"width"`
	Height int     `koanf:"height" toml:"height"`
	DPI    float64 `koanf:"dpi" toml:"dpi"`
}

// PDFConfig selects TrueType fonts for PDF output. Empty uses Helvetica.
type PDFConfig struct {
	FontPath     string `koanf:"font_path" toml:"font_path"`
	BoldFontPath string `koanf:"bold_font_path" toml:"bold_font_path"`
}

// ArchiveConfig locates the archive.
type ArchiveConfig struct {
	Path    string `koanf:"path" toml:"path"`
	Backend string `koanf:"backend" toml:"backend"` // auto, file, sqlite
}

// CacheConfig controls the on-disk chart cache. It is off unless enabled
// explicitly, so rendering writes nothing by default.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours, 0 keeps entries forever
}

// TTLDuration returns the cache TTL as a duration.
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Hour
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `koanf:"level" toml:"level"`
	Format string `koanf:"format" toml:"format"` // console, json
}

// OutputConfig controls CLI output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			Institution:   "Charles University, Faculty of Physical Education and Sport",
			OutputDir:     "output",
			Formats:       []string{"pdf"},
			ChartStyle:    "bar",
			ExtendedStats: false,
		},
		Chart: ChartConfig{
			Width:  900,
			Height: 600,
			DPI:    96,
		},
		Archive: ArchiveConfig{
			Path:    "data/archive.xlsx",
			Backend: "auto",
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".proband/cache",
			TTL:     24,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig looks for, in order.
func SearchPaths() []string {
	configNames := []string{
		"proband.toml",
		"proband.yaml",
		"proband.yml",
		"proband.json",
	}
	var paths []string
	for _, dir := range []string{".", ".proband"} {
		for _, name := range configNames {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// LoadResult is a loaded configuration and where it came from.
type LoadResult struct {
	Config *Config
	// Source is the file path, or empty when defaults were used.
	Source string
}

type loadOptions struct {
	path string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads exactly this file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// LoadConfig loads and validates the configuration. Without WithPath the
// first file of SearchPaths that exists is used, else the defaults.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	source := o.path
	if source == "" {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				source = p
				break
			}
		}
	}

	cfg := DefaultConfig()
	if source != "" {
		var err error
		if cfg, err = Load(source); err != nil {
			return nil, fmt.Errorf("load %s: %w", source, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Source: source}, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

var (
	chartStyles     = []string{"bar", "grouped-bar", "line", "scatter"}
	reportFormats   = []string{"pdf", "docx", "html"}
	archiveBackends = []string{"", "auto", "file", "sqlite"}
	logLevels       = []string{"debug", "info", "warn", "error"}
	logFormats      = []string{"console", "json"}
	outputFormats   = []string{"text", "json", "markdown", "toon"}
)

// Validate checks enumerated fields and sizes. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed []string) {
		if !slices.Contains(allowed, strings.ToLower(value)) {
			errs = append(errs, fmt.Errorf("%s: invalid value %q (allowed: %s)", field, value, strings.Join(allowed, ", ")))
		}
	}

	check("report.chart_style", c.Report.ChartStyle, chartStyles)
	for _, f := range c.Report.Formats {
		check("report.formats", f, reportFormats)
	}
	check("archive.backend", c.Archive.Backend, archiveBackends)
	check("log.level", c.Log.Level, logLevels)
	check("log.format", c.Log.Format, logFormats)
	check("output.format", c.Output.Format, outputFormats)

	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart: width and height must be positive, got %dx%d", c.Chart.Width, c.Chart.Height))
	}
	if c.Chart.DPI <= 0 {
		errs = append(errs, fmt.Errorf("chart.dpi must be positive, got %g", c.Chart.DPI))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %d", c.Cache.TTL))
	}
	if c.Report.OutputDir == "" {
		errs = append(errs, errors.New("report.output_dir must not be empty"))
	}
	return errors.Join(errs...)
}

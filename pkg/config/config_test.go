package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Report.ChartStyle != "bar" {
		t.Errorf("Report.ChartStyle = %s, want bar", cfg.Report.ChartStyle)
	}
	if cfg.Report.ExtendedStats {
		t.Error("Report.ExtendedStats should be false by default")
	}
	if len(cfg.Report.Formats) != 1 || cfg.Report.Formats[0] != "pdf" {
		t.Errorf("Report.Formats = %v, want [pdf]", cfg.Report.Formats)
	}
	if cfg.Chart.Width != 900 || cfg.Chart.Height != 600 {
		t.Errorf("Chart size = %dx%d, want 900x600", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Archive.Backend != "auto" {
		t.Errorf("Archive.Backend = %s, want auto", cfg.Archive.Backend)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false by default")
	}
	if cfg.Cache.TTLDuration() != 24*time.Hour {
		t.Errorf("Cache.TTLDuration() = %v, want 24h", cfg.Cache.TTLDuration())
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "proband.toml", `
[report]
institution = "Test institute"
chart_style = "line"
extended_stats = true
formats = ["pdf", "docx"]

[chart]
width = 1200

[cache]
enabled = true

[output]
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Report.Institution != "Test institute" {
		t.Errorf("Report.Institution = %q", cfg.Report.Institution)
	}
	if cfg.Report.ChartStyle != "line" {
		t.Errorf("Report.ChartStyle = %s, want line", cfg.Report.ChartStyle)
	}
	if !cfg.Report.ExtendedStats {
		t.Error("Report.ExtendedStats should be true")
	}
	if len(cfg.Report.Formats) != 2 {
		t.Errorf("Report.Formats = %v, want [pdf docx]", cfg.Report.Formats)
	}
	if cfg.Chart.Width != 1200 {
		t.Errorf("Chart.Width = %d, want 1200", cfg.Chart.Width)
	}
	if cfg.Chart.Height != 600 {
		t.Errorf("Chart.Height = %d, want default 600", cfg.Chart.Height)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "proband.yaml", `
archive:
  path: history.db
  backend: sqlite
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Archive.Path != "history.db" || cfg.Archive.Backend != "sqlite" {
		t.Errorf("Archive = %+v", cfg.Archive)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "proband.json", `{
  "report": {"group_label": "Juniors"},
  "pdf": {"font_path": "/fonts/DejaVuSans.ttf"}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Report.GroupLabel != "Juniors" {
		t.Errorf("Report.GroupLabel = %q, want Juniors", cfg.Report.GroupLabel)
	}
	if cfg.PDF.FontPath != "/fonts/DejaVuSans.ttf" {
		t.Errorf("PDF.FontPath = %q", cfg.PDF.FontPath)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/proband.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "proband.toml", `[report
invalid toml`)

	_, err := Load(path)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	result, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if result.Source != "" {
		t.Errorf("Source = %q, want empty", result.Source)
	}
	if result.Config.Chart.Width != 900 {
		t.Errorf("LoadConfig() returned non-default Chart.Width: %d", result.Config.Chart.Width)
	}
}

func TestLoadConfigSearchesDotDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".proband"), 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(tmpDir, ".proband"), "proband.toml", "[chart]\nwidth = 640\n")
	t.Chdir(tmpDir)

	result, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if result.Source != filepath.Join(".proband", "proband.toml") {
		t.Errorf("Source = %q", result.Source)
	}
	if result.Config.Chart.Width != 640 {
		t.Errorf("Chart.Width = %d, want 640", result.Config.Chart.Width)
	}

	if cfg := LoadOrDefault(); cfg.Chart.Width != 640 {
		t.Errorf("LoadOrDefault() should load from file, got Chart.Width=%d", cfg.Chart.Width)
	}
}

func TestLoadConfigWithPathValidates(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.toml", `
[report]
chart_style = "pie"
formats = ["odt"]

[chart]
width = 0
`)

	_, err := LoadConfig(WithPath(path))
	if err == nil {
		t.Fatal("LoadConfig() should reject invalid values")
	}
	for _, want := range []string{"report.chart_style", "report.formats", "chart: width"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestValidateAcceptsAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Report.ChartStyle = "grouped-bar"
	cfg.Archive.Backend = ""
	cfg.Output.Format = "TOON"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

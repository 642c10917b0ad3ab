package request

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maikl76/Aplikace-data/internal/report"
	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
)

func TestParse(t *testing.T) {
	f, err := Parse([]byte(`{
  "input": "subjects.xlsx",
  "identity": "Jan Novak, 1990-01-01",
  "metrics": ["Sila uchopu"],
  "groups": ["IR/ER ratio"],
  "formats": ["pdf", "docx"],
  "basis": {"mode": "history", "date": "2024-06-01 08:00:00"},
  "extended_stats": true
}`))
	require.NoError(t, err)

	assert.Equal(t, "subjects.xlsx", f.Input)
	assert.Equal(t, "Jan Novak, 1990-01-01", f.Identity)
	assert.Equal(t, []string{"Sila uchopu"}, f.Metrics)
	assert.Equal(t, []report.Format{report.FormatPDF, report.FormatDOCX}, f.Formats)
	assert.Equal(t, compare.ModeHistory, f.Basis.Mode)
	assert.Equal(t, "2024-06-01 08:00:00", f.Basis.Date)
	assert.True(t, f.ExtendedStats)
	assert.False(t, f.All)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing input", `{"identity": "x"}`},
		{"unknown field", `{"input": "a.csv", "identity": "x", "colour": "red"}`},
		{"unknown group", `{"input": "a.csv", "identity": "x", "groups": ["Reflexes"]}`},
		{"unknown format", `{"input": "a.csv", "identity": "x", "formats": ["odt"]}`},
		{"bad date", `{"input": "a.csv", "identity": "x", "basis": {"mode": "history", "date": "yesterday"}}`},
		{"no subject", `{"input": "a.csv"}`},
		{"subject and all", `{"input": "a.csv", "identity": "x", "all": true}`},
		{"history population", `{"input": "a.csv", "identity": "x", "basis": {"mode": "history", "population": "archive"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, pipeline.ErrInvalidRequest)
		})
	}
}

func TestParseAll(t *testing.T) {
	f, err := Parse([]byte(`{"input": "a.csv", "all": true}`))
	require.NoError(t, err)
	assert.True(t, f.All)
	assert.Empty(t, f.Identity)
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "closing.txt"), []byte("Train more.\n\nRest well."), 0o644))
	path := filepath.Join(dir, "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "input": "data/subjects.csv",
  "identity": "x",
  "output_dir": "/tmp/reports",
  "recommendation_file": "closing.txt"
}`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "subjects.csv"), f.Input)
	assert.Equal(t, "/tmp/reports", f.OutputDir)
	assert.Equal(t, "Train more.\n\nRest well.", f.Recommendation)
}

func TestLoadMissingRecommendationFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"input": "a.csv", "identity": "x", "recommendation_file": "nope.txt"}`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, string(Schema()), `"additionalProperties": false`)
}

// Package briefing writes the plain-text summary handed to an AI assistant
// that drafts the closing recommendation.
package briefing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Maikl76/Aplikace-data/internal/fsutil"
	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// Deliverables are the items the assistant is asked to produce.
var Deliverables = []string{
	"Overall assessment of the subject",
	"Key points (strengths and weaknesses)",
	"Training recommendations: concentric, eccentric, isometric, plyometric",
	"Suggestions of specific exercises",
	"Commentary grounded in scientific literature on tennis",
}

// Briefing is a rendered briefing with its size estimate.
type Briefing struct {
	Identity string                 `json:"identity"`
	Text     string                 `json:"text"`
	Tokens   output.TokenBudgetInfo `json:"tokens"`
}

// FileName is the deterministic briefing file name for a subject.
func FileName(id string) string {
	return "briefing_" + identity.Sanitize(id) + ".txt"
}

// Build renders the briefing for subject from an already resolved
// comparison. Rows follow the comparison order.
func Build(id string, subject models.Row, basis compare.Basis, c *compare.Comparison) *Briefing {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("Briefing for evaluation of subject %s", id)
	lines = append(lines, strings.Repeat("-", 50))
	add("Age: %s years", subject.String(models.ColAge))
	add("Height: %s cm", subject.String(models.ColHeight))
	add("Weight: %s kg", subject.String(models.ColWeight))
	lines = append(lines, "", "Measurement results:")

	header := fmt.Sprintf("%-30s %10s %10s %10s", "Metric", "Current", basis.ReferenceHeader(), "Difference")
	lines = append(lines, header, strings.Repeat("-", len(header)))
	if c != nil {
		for _, e := range c.Entries {
			add("%-30s %10s %10s %10s", e.Metric,
				models.FormatFloat(e.Current), models.FormatFloat(e.Reference), models.FormatFloat(e.Diff))
		}
	}

	lines = append(lines, "", "Instructions:",
		"Based on these results, please write a closing evaluation that contains:")
	for _, d := range Deliverables {
		lines = append(lines, "- "+d)
	}

	text := strings.Join(lines, "\n")
	return &Briefing{
		Identity: id,
		Text:     text,
		Tokens:   output.GetTokenBudgetInfo(text, output.DefaultBudget),
	}
}

// Write saves the briefing text into dir and returns the file path.
func Write(b *Briefing, dir string) (string, error) {
	path := filepath.Join(dir, FileName(b.Identity))
	if err := fsutil.WriteBytes(path, []byte(b.Text+"\n")); err != nil {
		return "", fmt.Errorf("write briefing: %w", err)
	}
	return path, nil
}

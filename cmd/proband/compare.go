package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/interpret"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

var compareCmd = &cobra.Command{
	Use:     "compare <identity>",
	Aliases: []string{"cmp"},
	Short:   "Compare a subject with the group or an archived measurement",
	Long: `Prints the measurement results of a subject next to the reference values.

Examples:
  proband compare -i data.xlsx "Jan Novak, 1990-01-01"
  proband compare -i data.xlsx --population archive "Jan Novak, 1990-01-01"
  proband compare -i data.xlsx --mode history --date "2024-05-01 10:00:00" "Jan Novak, 1990-01-01"`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	addTableFlags(compareCmd)
	addBasisFlags(compareCmd)
	addOutputFlags(compareCmd)
	compareCmd.Flags().Bool("explain", false, "Print the interpretation sentence of every metric")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}
	explain, _ := cmd.Flags().GetBool("explain")

	svc := newService()
	defer svc.Close()
	a, err := svc.Compare(cmd.Context(), req)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	defer formatter.Close()

	colored := formatter.Colored() && formatter.Format() == output.FormatText
	return formatter.Output(comparisonReport(a, explain, colored))
}

// comparisonReport puts the results table first, followed by the
// per-metric interpretation when explain is set and a note on zero-filled
// values.
func comparisonReport(a *pipeline.Analysis, explain, colored bool) *output.Report {
	r := &output.Report{Sections: []output.Renderable{comparisonTable(a, colored)}}
	if explain && len(a.Comparison.Entries) > 0 {
		lines := make([]string, len(a.Comparison.Entries))
		for i, e := range a.Comparison.Entries {
			lines[i] = "- " + interpret.Sentence(e.Metric, e.Current, e.Reference)
		}
		r.Sections = append(r.Sections, &output.Section{
			Title:   "Interpretation",
			Content: strings.Join(lines, "\n"),
		})
	}
	if len(a.Imputed) > 0 {
		r.Sections = append(r.Sections, &output.Section{
			Title:   "Zero-filled values",
			Content: "Missing values replaced by zero: " + strings.Join(a.Imputed, ", "),
		})
	}
	return r
}

// comparisonTable lays out an analysis the way the report's results table
// does. Imputed current values are marked with an asterisk.
func comparisonTable(a *pipeline.Analysis, colored bool) *output.Table {
	rows := make([][]string, 0, len(a.Comparison.Entries))
	for _, e := range a.Comparison.Entries {
		current := models.FormatFloat(e.Current)
		if e.Imputed {
			current += "*"
		}
		diff := models.FormatFloat(e.Diff)
		if colored {
			diff = output.DiffColor(e.Metric, e.Diff, diff)
		}
		rows = append(rows, []string{
			truncate(e.Metric, 40),
			current,
			models.FormatFloat(e.Reference),
			diff,
		})
	}

	footer := []string{
		fmt.Sprintf("Basis: %s vs. %s", a.Basis.CurrentLabel(), a.Basis.ReferenceLabel()),
		fmt.Sprintf("Metrics: %d", len(a.Comparison.Entries)),
	}
	if a.HistoricalDate != "" {
		footer = append(footer, "Historical measurement: "+a.HistoricalDate)
	}
	if len(a.Comparison.Dropped) > 0 {
		footer = append(footer, "Without reference: "+strings.Join(a.Comparison.Dropped, ", "))
	}

	return output.NewTable(
		"Comparison of "+a.Identity,
		[]string{"Metric", "Current", a.Basis.ReferenceHeader(), "Difference"},
		rows,
		footer,
		nil,
	)
}

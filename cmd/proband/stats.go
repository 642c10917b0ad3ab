package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show extended statistics of a table",
	Long: `Prints count, mean, median, best, worst and the 95% percentile interval
of every selected metric across all subjects of the table.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	addTableFlags(statsCmd)
	addOutputFlags(statsCmd)

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, nil)
	if err != nil {
		return err
	}

	svc := newService()
	defer svc.Close()
	sum, err := svc.Summarize(cmd.Context(), req)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	defer formatter.Close()
	if len(sum.Metrics) == 0 {
		formatter.Warning("No numeric metrics found")
		return nil
	}

	rows := make([][]string, 0, len(sum.Metrics))
	for _, m := range sum.Metrics {
		rows = append(rows, []string{
			truncate(m.Metric, 40),
			fmt.Sprintf("%d", m.Count),
			models.FormatFloat(m.Mean),
			models.FormatFloat(m.Median),
			models.FormatFloat(m.Best),
			models.FormatFloat(m.Worst),
			models.FormatFloat(m.CILow),
			models.FormatFloat(m.CIHigh),
		})
	}
	table := output.NewTable(
		"Extended Statistics",
		[]string{"Metric", "N", "Mean", "Median", "Best", "Worst", "CI (lower)", "CI (upper)"},
		rows,
		[]string{fmt.Sprintf("Metrics: %d", len(sum.Metrics))},
		nil,
	)
	return formatter.Output(table)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/output"
)

var subjectsCmd = &cobra.Command{
	Use:     "subjects",
	Aliases: []string{"ls"},
	Short:   "List the subjects of a table",
	Args:    cobra.NoArgs,
	RunE:    runSubjects,
}

func init() {
	subjectsCmd.Flags().StringP("input", "i", "", "Subject table (.xlsx or .csv)")
	subjectsCmd.Flags().String("sheet", "", "Worksheet name (default: \"data\" or the first sheet)")
	addOutputFlags(subjectsCmd)

	rootCmd.AddCommand(subjectsCmd)
}

func runSubjects(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	sheet, _ := cmd.Flags().GetString("sheet")
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	svc := newService()
	defer svc.Close()
	subjects, err := svc.Subjects(cmd.Context(), input, sheet)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	defer formatter.Close()
	if len(subjects) == 0 {
		formatter.Warning("No subjects found")
		return nil
	}

	rows := make([][]string, len(subjects))
	for i, s := range subjects {
		rows[i] = []string{fmt.Sprintf("%d", i+1), s}
	}
	table := output.NewTable(
		"Subjects",
		[]string{"#", "Identity"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(subjects))},
		struct {
			Subjects []string `json:"subjects"`
		}{subjects},
	)
	return formatter.Output(table)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/briefing"
	"github.com/Maikl76/Aplikace-data/internal/output"
)

var briefingCmd = &cobra.Command{
	Use:   "briefing <identity>",
	Short: "Write the AI briefing of a subject",
	Long: `Writes a plain-text briefing with the subject's results and the
instructions for drafting a closing evaluation. Paste it into an AI
assistant, or use the MCP server's subject_briefing tool instead.

Examples:
  proband briefing -i data.xlsx "Jan Novak, 1990-01-01"
  proband briefing -i data.xlsx --stdout "Jan Novak, 1990-01-01"`,
	Args: cobra.ExactArgs(1),
	RunE: runBriefing,
}

func init() {
	addTableFlags(briefingCmd)
	addBasisFlags(briefingCmd)
	briefingCmd.Flags().StringP("output-dir", "o", "", "Output directory (default from config)")
	briefingCmd.Flags().Bool("stdout", false, "Print the briefing instead of writing a file")

	rootCmd.AddCommand(briefingCmd)
}

func runBriefing(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}

	svc := newService()
	defer svc.Close()
	b, err := svc.Briefing(cmd.Context(), req)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		fmt.Println(b.Text)
		return nil
	}

	dir, _ := cmd.Flags().GetString("output-dir")
	if dir == "" {
		dir = svc.Config().Report.OutputDir
	}
	path, err := briefing.Write(b, dir)
	if err != nil {
		return err
	}
	out := console()
	out.Success("Briefing written: %s", path)
	out.Info("Estimated size: %s tokens (%.1f%% of a %s context)",
		output.FormatTokenCount(b.Tokens.Tokens), b.Tokens.UsagePercent, b.Tokens.BudgetLabel)
	return nil
}

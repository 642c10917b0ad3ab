package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/internal/request"
	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
)

// addTableFlags registers the flags naming the subject table.
func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Subject table (.xlsx or .csv)")
	cmd.Flags().String("sheet", "", "Worksheet name (default: \"data\" or the first sheet)")
	cmd.Flags().StringSliceP("metrics", "m", nil, "Metric columns to include (default: all measurement columns)")
}

// addBasisFlags registers the comparison basis flags.
func addBasisFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", string(compare.ModeGroup), "Comparison basis: group or history")
	cmd.Flags().String("population", string(pipeline.PopulationCurrent), "Group population: current or archive")
	cmd.Flags().String("label", "", "Name of the reference group")
	cmd.Flags().String("date", "", "Archived measurement date for history mode (default: latest)")
}

// addOutputFlags registers the terminal output flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, markdown, toon (default from config)")
	cmd.Flags().StringP("output", "o", "", "Write output to file")
}

// getFormat returns the format flag value, falling back to the config.
func getFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	if format == "" && cfg != nil {
		return cfg.Output.Format
	}
	return format
}

// getOutputFile returns the output file path from the command.
func getOutputFile(cmd *cobra.Command) string {
	outputFile, _ := cmd.Flags().GetString("output")
	return outputFile
}

func colorEnabled() bool {
	return cfg == nil || cfg.Output.Color
}

func newFormatter(cmd *cobra.Command) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), colorEnabled())
}

// console prints status messages for commands without output flags.
func console() *output.Formatter {
	return output.NewConsole(colorEnabled())
}

// buildRequest assembles a pipeline request from the command's flags.
// Identity comes from the first positional argument.
func buildRequest(cmd *cobra.Command, args []string) (pipeline.Request, error) {
	flags := cmd.Flags()
	var req pipeline.Request
	req.Input, _ = flags.GetString("input")
	req.Sheet, _ = flags.GetString("sheet")
	req.Metrics, _ = flags.GetStringSlice("metrics")
	if len(args) > 0 {
		req.Identity = strings.TrimSpace(args[0])
	}
	if flags.Lookup("mode") != nil {
		mode, _ := flags.GetString("mode")
		population, _ := flags.GetString("population")
		req.Basis.Mode = compare.Mode(mode)
		if req.Basis.Mode == compare.ModeGroup {
			req.Basis.Population = pipeline.Population(population)
		}
		req.Basis.Label, _ = flags.GetString("label")
		req.Basis.Date, _ = flags.GetString("date")
	}
	if req.Input == "" {
		return req, fmt.Errorf("--input is required")
	}
	return req, nil
}

// loadRequestFile reads a JSON request file. Flags set on the command line
// take precedence over the file.
func loadRequestFile(cmd *cobra.Command, path string, args []string) (*request.File, error) {
	f, err := request.Load(path)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		f.Identity = strings.TrimSpace(args[0])
		f.All = false
	}
	if out, _ := cmd.Flags().GetString("output-dir"); out != "" {
		f.OutputDir = out
	}
	return f, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

package mcpserver

import (
	"context"
	"encoding/json"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/interpret"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// TableInput is the base input for every tool that reads a subject table.
type TableInput struct {
	Input  string `json:"input" jsonschema:"Path to the subject table (.xlsx or .csv)."`
	Sheet  string `json:"sheet,omitempty" jsonschema:"Worksheet name for Excel workbooks. Defaults to the first sheet."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// CompareInput selects a subject and its comparison basis.
type CompareInput struct {
	TableInput
	Identity   string   `json:"identity" jsonschema:"Subject identity as 'First Last, BirthDate' (see list_subjects)."`
	Metrics    []string `json:"metrics,omitempty" jsonschema:"Metric columns to compare. Defaults to every measurement column."`
	Mode       string   `json:"mode,omitempty" jsonschema:"Comparison basis: group (default) or history."`
	Population string   `json:"population,omitempty" jsonschema:"Group population: current (default) or archive."`
	Label      string   `json:"label,omitempty" jsonschema:"Name of the reference group in group mode."`
	Date       string   `json:"date,omitempty" jsonschema:"Archived measurement date (YYYY-MM-DD HH:MM:SS) for history mode. Defaults to the latest."`
}

// StatsInput restricts population statistics to a metric selection.
type StatsInput struct {
	TableInput
	Metrics []string `json:"metrics,omitempty" jsonschema:"Metric columns to summarize. Defaults to every measurement column."`
}

// SnapshotsInput names the subject whose archive is listed.
type SnapshotsInput struct {
	Identity string `json:"identity" jsonschema:"Subject identity as 'First Last, BirthDate'."`
	Format   string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// number drops non-finite values, which neither JSON nor TOON can carry.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (in CompareInput) request() pipeline.Request {
	return pipeline.Request{
		Input:    in.Input,
		Sheet:    in.Sheet,
		Identity: in.Identity,
		Metrics:  in.Metrics,
		Basis: pipeline.BasisSpec{
			Mode:       compare.Mode(in.Mode),
			Population: pipeline.Population(in.Population),
			Label:      in.Label,
			Date:       in.Date,
		},
	}
}

type entryView struct {
	Metric         string   `json:"metric" toon:"metric"`
	Current        *float64 `json:"current" toon:"current"`
	Reference      *float64 `json:"reference" toon:"reference"`
	Diff           *float64 `json:"diff" toon:"diff"`
	Direction      string   `json:"direction" toon:"direction"`
	Imputed        bool     `json:"imputed,omitempty" toon:"imputed,omitempty"`
	Interpretation string   `json:"interpretation" toon:"interpretation"`
}

type comparisonView struct {
	Identity       string      `json:"identity" toon:"identity"`
	Mode           string      `json:"mode" toon:"mode"`
	Current        string      `json:"current_label" toon:"current_label"`
	Reference      string      `json:"reference_label" toon:"reference_label"`
	HistoricalDate string      `json:"historical_date,omitempty" toon:"historical_date,omitempty"`
	Entries        []entryView `json:"entries" toon:"entries"`
	Dropped        []string    `json:"dropped,omitempty" toon:"dropped,omitempty"`
}

func viewComparison(a *pipeline.Analysis) comparisonView {
	v := comparisonView{
		Identity:       a.Identity,
		Mode:           string(a.Comparison.Mode),
		Current:        a.Basis.CurrentLabel(),
		Reference:      a.Basis.ReferenceLabel(),
		HistoricalDate: a.HistoricalDate,
		Dropped:        a.Comparison.Dropped,
	}
	for _, e := range a.Comparison.Entries {
		v.Entries = append(v.Entries, entryView{
			Metric:         e.Metric,
			Current:        number(e.Current),
			Reference:      number(e.Reference),
			Diff:           number(e.Diff),
			Direction:      models.DirectionOf(e.Metric).String(),
			Imputed:        e.Imputed,
			Interpretation: interpret.Sentence(e.Metric, e.Current, e.Reference),
		})
	}
	return v
}

// Tool handlers

func (s *Server) handleListSubjects(ctx context.Context, req *mcp.CallToolRequest, input TableInput) (*mcp.CallToolResult, any, error) {
	if input.Input == "" {
		return toolError("input table is required")
	}
	subjects, err := s.svc.Subjects(ctx, input.Input, input.Sheet)
	if err != nil {
		return toolError(err.Error())
	}
	if len(subjects) == 0 {
		return toolError("no subjects found")
	}
	out := struct {
		Subjects []string `json:"subjects" toon:"subjects"`
		Count    int      `json:"count" toon:"count"`
	}{subjects, len(subjects)}
	return toolResult(out, getFormat(input.Format))
}

func (s *Server) handleCompareSubject(ctx context.Context, req *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, any, error) {
	a, err := s.svc.Compare(ctx, input.request())
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(viewComparison(a), getFormat(input.Format))
}

type statsView struct {
	Metric string   `json:"metric" toon:"metric"`
	Count  int      `json:"count" toon:"count"`
	Mean   *float64 `json:"mean" toon:"mean"`
	Median *float64 `json:"median" toon:"median"`
	Best   *float64 `json:"best" toon:"best"`
	Worst  *float64 `json:"worst" toon:"worst"`
	CILow  *float64 `json:"ci_low" toon:"ci_low"`
	CIHigh *float64 `json:"ci_high" toon:"ci_high"`
}

func (s *Server) handlePopulationStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, any, error) {
	sum, err := s.svc.Summarize(ctx, pipeline.Request{
		Input:   input.Input,
		Sheet:   input.Sheet,
		Metrics: input.Metrics,
	})
	if err != nil {
		return toolError(err.Error())
	}
	if len(sum.Metrics) == 0 {
		return toolError("no numeric metrics found")
	}
	rows := make([]statsView, 0, len(sum.Metrics))
	for _, m := range sum.Metrics {
		rows = append(rows, statsView{
			Metric: m.Metric,
			Count:  m.Count,
			Mean:   number(m.Mean),
			Median: number(m.Median),
			Best:   number(m.Best),
			Worst:  number(m.Worst),
			CILow:  number(m.CILow),
			CIHigh: number(m.CIHigh),
		})
	}
	out := struct {
		Metrics []statsView `json:"metrics" toon:"metrics"`
	}{rows}
	return toolResult(out, getFormat(input.Format))
}

func (s *Server) handleSubjectBriefing(ctx context.Context, req *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, any, error) {
	b, err := s.svc.Briefing(ctx, input.request())
	if err != nil {
		return toolError(err.Error())
	}
	// The briefing is prose for the model; only structured formats wrap it.
	if input.Format == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: b.Text}},
		}, nil, nil
	}
	return toolResult(b, getFormat(input.Format))
}

func (s *Server) handleListSnapshots(ctx context.Context, req *mcp.CallToolRequest, input SnapshotsInput) (*mcp.CallToolResult, any, error) {
	if input.Identity == "" {
		return toolError("subject identity is required")
	}
	snaps, err := s.svc.Snapshots(ctx, input.Identity)
	if err != nil {
		return toolError(err.Error())
	}
	out := struct {
		Identity  string   `json:"identity" toon:"identity"`
		Snapshots []string `json:"snapshots" toon:"snapshots"`
	}{Identity: input.Identity}
	for _, sn := range snaps {
		out.Snapshots = append(out.Snapshots, sn.Date)
	}
	return toolResult(out, getFormat(input.Format))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/internal/output"
	"github.com/Maikl76/Aplikace-data/internal/progress"
	"github.com/Maikl76/Aplikace-data/internal/report"
	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
)

var reportPort int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and preview subject reports",
	Long: `Generate reports comparing a subject with the group or with an archived
measurement.

  1. generate - Write the report of one subject (PDF, DOCX and/or HTML)
  2. batch    - Write reports for every subject of a table
  3. serve    - Preview the HTML report, re-rendered on each request`,
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate [identity]",
	Short: "Write the report of one subject",
	Long: `Writes the report of the subject named "First Last, BirthDate".

Examples:
  proband report generate -i data.xlsx "Jan Novak, 1990-01-01"
  proband report generate -i data.xlsx --formats pdf,docx --groups "IR/ER ratio" "Jan Novak, 1990-01-01"
  proband report generate -i data.xlsx --mode history "Jan Novak, 1990-01-01"
  proband report generate -r request.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportGenerate,
}

var reportBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Write reports for every subject of a table",
	Args:  cobra.NoArgs,
	RunE:  runReportBatch,
}

var reportServeCmd = &cobra.Command{
	Use:   "serve [identity]",
	Short: "Serve the HTML report with live re-render on request",
	Long: `Serves the HTML report of a subject on the specified port. The table is
re-read on each request, so edits to the workbook show up on reload.

Without an identity, the subject can be picked with ?identity=... and the
root page lists the subjects of the table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportServe,
}

func addReportFlags(cmd *cobra.Command) {
	addTableFlags(cmd)
	addBasisFlags(cmd)
	cmd.Flags().StringSlice("groups", nil, "Metric groups to chart (default: all)")
	cmd.Flags().StringSlice("individual", nil, "Metrics charted on their own")
	cmd.Flags().String("style", "", "Chart style: bar, line, scatter (default from config)")
	cmd.Flags().Bool("extended", false, "Include extended statistics")
	cmd.Flags().String("recommendation", "", "Text file with the closing recommendation")
}

func init() {
	addReportFlags(reportGenerateCmd)
	reportGenerateCmd.Flags().StringSlice("formats", nil, "Report formats: pdf, docx, html (default from config)")
	reportGenerateCmd.Flags().StringP("output-dir", "o", "", "Output directory (default from config)")
	reportGenerateCmd.Flags().StringP("request", "r", "", "JSON request file")

	addReportFlags(reportBatchCmd)
	reportBatchCmd.Flags().StringSlice("formats", nil, "Report formats: pdf, docx, html (default from config)")
	reportBatchCmd.Flags().StringP("output-dir", "o", "", "Output directory (default from config)")

	addReportFlags(reportServeCmd)
	reportServeCmd.Flags().IntVarP(&reportPort, "port", "p", 8080, "Port number")

	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportBatchCmd)
	reportCmd.AddCommand(reportServeCmd)
	rootCmd.AddCommand(reportCmd)
}

// buildReportRequest extends buildRequest with the report-only flags.
func buildReportRequest(cmd *cobra.Command, args []string) (pipeline.Request, error) {
	req, err := buildRequest(cmd, args)
	if err != nil {
		return req, err
	}
	flags := cmd.Flags()
	req.Groups, _ = flags.GetStringSlice("groups")
	req.Individual, _ = flags.GetStringSlice("individual")
	req.ChartStyle, _ = flags.GetString("style")
	req.ExtendedStats, _ = flags.GetBool("extended")
	if flags.Lookup("formats") != nil {
		names, _ := flags.GetStringSlice("formats")
		for _, name := range names {
			f, err := report.ParseFormat(name)
			if err != nil {
				return req, err
			}
			req.Formats = append(req.Formats, f)
		}
	}
	if flags.Lookup("output-dir") != nil {
		req.OutputDir, _ = flags.GetString("output-dir")
	}
	if path, _ := flags.GetString("recommendation"); path != "" {
		text, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("recommendation: %w", err)
		}
		req.Recommendation = string(text)
	}
	return req, nil
}

func runReportGenerate(cmd *cobra.Command, args []string) error {
	svc := newService()
	defer svc.Close()

	if path, _ := cmd.Flags().GetString("request"); path != "" {
		f, err := loadRequestFile(cmd, path, args)
		if err != nil {
			return err
		}
		if f.All {
			return runBatch(cmd.Context(), svc, f.Request)
		}
		return generateOne(cmd.Context(), svc, f.Request)
	}

	req, err := buildReportRequest(cmd, args)
	if err != nil {
		return err
	}
	if req.Identity == "" {
		return errors.New("subject identity is required (see 'proband subjects')")
	}
	return generateOne(cmd.Context(), svc, req)
}

func generateOne(ctx context.Context, svc *pipeline.Service, req pipeline.Request) error {
	spinner := progress.NewSpinner("Generating report")
	arts, err := svc.Generate(ctx, req)
	if err != nil {
		spinner.FinishError(err)
		return err
	}
	spinner.FinishSuccess()
	out := console()
	for _, a := range arts {
		out.Success("Report written: %s (%s)", a.Path, humanize.Bytes(uint64(a.Bytes)))
	}
	return nil
}

func runReportBatch(cmd *cobra.Command, args []string) error {
	req, err := buildReportRequest(cmd, args)
	if err != nil {
		return err
	}
	svc := newService()
	defer svc.Close()
	return runBatch(cmd.Context(), svc, req)
}

func runBatch(ctx context.Context, svc *pipeline.Service, req pipeline.Request) error {
	subjects, err := svc.Subjects(ctx, req.Input, req.Sheet)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		console().Warning("No subjects found")
		return nil
	}

	tracker := progress.NewTracker("Generating reports", len(subjects))
	results, err := svc.GenerateAll(ctx, req, func(res pipeline.BatchResult) {
		tracker.Describe(truncate(res.Identity, 30))
		tracker.Tick()
	})
	if err != nil && results == nil {
		tracker.FinishError(err)
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		tracker.FinishError(ctxErr)
		return ctxErr
	}
	tracker.FinishSuccess()

	var rows [][]string
	var total int64
	failed := 0
	for _, res := range results {
		status := "ok"
		var size int64
		for _, a := range res.Artifacts {
			size += a.Bytes
		}
		total += size
		if res.Err != nil {
			status = color.RedString("failed: %v", res.Err)
			failed++
		}
		rows = append(rows, []string{res.Identity, fmt.Sprintf("%d", len(res.Artifacts)), humanize.Bytes(uint64(size)), status})
	}

	formatter := console()
	table := output.NewTable(
		"Batch Report Generation",
		[]string{"Subject", "Files", "Size", "Status"},
		rows,
		[]string{
			fmt.Sprintf("Subjects: %d", len(results)),
			fmt.Sprintf("Failed: %d", failed),
			fmt.Sprintf("Written: %s", humanize.Bytes(uint64(total))),
		},
		nil,
	)
	if oerr := formatter.Output(table); oerr != nil {
		return oerr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}

func runReportServe(cmd *cobra.Command, args []string) error {
	req, err := buildReportRequest(cmd, args)
	if err != nil {
		return err
	}
	svc := newService()
	defer svc.Close()

	renderer, err := report.NewHTMLRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", serveReport(svc, renderer, req))

	addr := fmt.Sprintf(":%d", reportPort)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-cmd.Context().Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	fmt.Printf("Serving report at http://localhost%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveReport re-renders the HTML report on each request.
func serveReport(svc *pipeline.Service, renderer *report.HTMLRenderer, base pipeline.Request) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := base
		if id := r.URL.Query().Get("identity"); id != "" {
			req.Identity = id
		}
		if req.Identity == "" {
			subjects, err := svc.Subjects(r.Context(), req.Input, req.Sheet)
			if err != nil {
				http.Error(w, fmt.Sprintf("load error: %v", err), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintln(w, "Subjects (open /?identity=<identity>):")
			for _, s := range subjects {
				fmt.Fprintf(w, "  %s\n", s)
			}
			return
		}

		doc, err := svc.BuildDocument(r.Context(), req)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, pipeline.ErrInvalidRequest):
				status = http.StatusBadRequest
			case errors.Is(err, identity.ErrSubjectNotFound):
				status = http.StatusNotFound
			}
			http.Error(w, fmt.Sprintf("render error: %v", err), status)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := renderer.Render(doc, w); err != nil {
			logger.Warn("render failed", zap.Error(err))
		}
	}
}

package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/internal/chart"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/interpret"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/summary"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// DefaultInstitution heads every report unless configured otherwise.
const DefaultInstitution = "Charles University, Faculty of Physical Education and Sport"

// ChartRenderer turns a chart request into PNG bytes.
type ChartRenderer interface {
	Render(req chart.Request) ([]byte, error)
}

// Input is everything a report is assembled from.
type Input struct {
	Identity   string
	Subject    models.Row
	Basis      compare.Basis
	Comparison *compare.Comparison
	// Summary is the extended statistics table; nil leaves it out.
	Summary *summary.Summary
	// Metrics is the active metric selection.
	Metrics []string
	// Groups names the metric groups to chart; nil charts every group.
	Groups []string
	// Individual lists metrics that get a chart of their own.
	Individual     []string
	Recommendation string
	// Imputed lists the subject's metrics that were zero-filled.
	Imputed []string
	// HistoricalDate is the measurement date of the snapshot in history mode.
	HistoricalDate string
	ChartStyle     string
}

// Builder generates the report section sequence.
type Builder struct {
	charts      ChartRenderer
	institution string
	version     string
	now         func() time.Time
	logger      *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithInstitution sets the header line.
func WithInstitution(name string) BuilderOption {
	return func(b *Builder) {
		if name != "" {
			b.institution = name
		}
	}
}

// WithVersion records the generator version in the metadata.
func WithVersion(v string) BuilderOption {
	return func(b *Builder) {
		b.version = v
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a builder drawing charts with charts.
func NewBuilder(charts ChartRenderer, opts ...BuilderOption) *Builder {
	b := &Builder{
		charts:      charts,
		institution: DefaultInstitution,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the document.
func (b *Builder) Build(in Input) (*Document, error) {
	if in.Comparison == nil {
		return nil, fmt.Errorf("report for %q: no comparison", in.Identity)
	}
	doc := &Document{Metadata: Metadata{
		Institution: b.institution,
		Identity:    in.Identity,
		GeneratedAt: b.now(),
		Version:     b.version,
	}}

	b.header(doc, in)
	b.results(doc, in)
	b.extended(doc, in)
	if err := b.groups(doc, in); err != nil {
		return nil, err
	}
	if err := b.individual(doc, in); err != nil {
		return nil, err
	}
	b.recommendation(doc, in)
	return doc, nil
}

func (b *Builder) header(doc *Document, in Input) {
	doc.Add(
		Heading{Text: b.institution, Level: 1},
		Heading{Text: "Analysis of subject " + in.Identity, Level: 2},
		Paragraph{Text: fmt.Sprintf("Age: %s years", in.Subject.String(models.ColAge))},
		Paragraph{Text: fmt.Sprintf("Height: %s cm", in.Subject.String(models.ColHeight))},
		Paragraph{Text: fmt.Sprintf("Weight: %s kg", in.Subject.String(models.ColWeight))},
		Paragraph{Text: ComparisonSentence(in.Basis, in.Subject, in.HistoricalDate)},
	)
}

// ComparisonSentence names the comparison basis and its date(s).
func ComparisonSentence(basis compare.Basis, subject models.Row, historicalDate string) string {
	date := orNA(subject.String(models.ColMeasuredAt))
	if basis.Mode == compare.ModeHistory {
		if historicalDate == "" {
			historicalDate = basis.Snapshot.String(models.ColMeasuredAt)
		}
		return fmt.Sprintf("Current measurement date: %s    Selected historical measurement date: %s", date, orNA(historicalDate))
	}
	switch basis.Label {
	case "":
		return "Comparison of the subject with the average result of the group – date: " + date
	case compare.LabelCurrentGroup:
		return "Comparison of the subject with the average value of the current group – date: " + date
	default:
		return "Comparison of the subject with the average value of the selected population – date: " + date
	}
}

// ComparisonBullet summarizes who is compared with whom.
func ComparisonBullet(basis compare.Basis) string {
	if basis.Mode == compare.ModeHistory {
		return "• Comparison: current measurement vs. historical measurement."
	}
	if basis.Label != "" {
		return fmt.Sprintf("• Comparison: Subject vs. %s.", basis.Label)
	}
	return "• Comparison: Subject vs. group average."
}

// ResultsTable is the metric/current/reference/difference table.
func ResultsTable(basis compare.Basis, c *compare.Comparison) Table {
	t := Table{Header: []string{"Metric", "Current", basis.ReferenceHeader(), "Difference"}}
	for _, e := range c.Entries {
		t.Rows = append(t.Rows, []string{
			e.Metric,
			models.FormatFloat(e.Current),
			models.FormatFloat(e.Reference),
			models.FormatFloat(e.Diff),
		})
	}
	return t
}

func (b *Builder) results(doc *Document, in Input) {
	doc.Add(
		Paragraph{Text: "Measurement results", Bold: true},
		ResultsTable(in.Basis, in.Comparison),
		Paragraph{Text: ComparisonBullet(in.Basis)},
	)
	if len(in.Imputed) > 0 {
		doc.Add(Paragraph{Text: "Note: missing values were replaced by zero for: " + strings.Join(in.Imputed, ", ") + "."})
	}
}

func (b *Builder) extended(doc *Document, in Input) {
	if in.Summary == nil {
		return
	}
	t := Table{Header: []string{"Metric", "Median", "Best", "Worst", "CI (lower)", "CI (upper)"}}
	for _, m := range in.Summary.Metrics {
		t.Rows = append(t.Rows, []string{
			m.Metric,
			models.FormatFloat(m.Median),
			models.FormatFloat(m.Best),
			models.FormatFloat(m.Worst),
			models.FormatFloat(m.CILow),
			models.FormatFloat(m.CIHigh),
		})
	}
	doc.Add(
		Paragraph{Text: "Extended statistics (computed from current measurements)", Bold: true},
		t,
	)
}

func (b *Builder) groups(doc *Document, in Input) error {
	for _, g := range models.MetricGroups {
		if in.Groups != nil && !slices.Contains(in.Groups, g.Name) {
			continue
		}
		var wanted []string
		for _, m := range g.Metrics {
			if slices.Contains(in.Metrics, m) {
				wanted = append(wanted, m)
			}
		}
		entries := in.Comparison.Subset(wanted)
		if len(entries) == 0 {
			b.logger.Debug("metric group skipped", zap.String("group", g.Name))
			continue
		}

		var legend strings.Builder
		legend.WriteString("Legend:\n")
		for _, e := range entries {
			if text, ok := models.Legends[e.Metric]; ok {
				fmt.Fprintf(&legend, "%s: %s\n", e.Metric, text)
			}
		}
		if err := b.chartSection(doc, in, g.Name, g.Chart, entries, strings.TrimRight(legend.String(), "\n")); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) individual(doc *Document, in Input) error {
	for _, metric := range in.Individual {
		e, ok := in.Comparison.Lookup(metric)
		if !ok {
			b.logger.Info("individual chart skipped, metric not resolved", zap.String("metric", metric))
			continue
		}
		legend := fmt.Sprintf("Legend: the chart of %s shows the subject's value (see %s) and the group average/historical measurement (see %s).",
			metric, in.Basis.CurrentLabel(), in.Basis.ReferenceLabel())
		if err := b.chartSection(doc, in, metric, metric, []compare.Entry{e}, legend); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) chartSection(doc *Document, in Input, title, name string, entries []compare.Entry, legend string) error {
	labels := make([]string, len(entries))
	current := make([]float64, len(entries))
	reference := make([]float64, len(entries))
	for i, e := range entries {
		labels[i], current[i], reference[i] = e.Metric, e.Current, e.Reference
	}

	img, err := b.charts.Render(chart.Request{
		Title:          title,
		Labels:         labels,
		Current:        current,
		Reference:      reference,
		CurrentLabel:   in.Basis.CurrentLabel(),
		ReferenceLabel: in.Basis.ReferenceLabel(),
		Style:          in.ChartStyle,
	})
	if err != nil {
		return fmt.Errorf("chart %q: %w", title, err)
	}

	doc.Add(
		PageBreak{},
		Heading{Text: title, Level: 2},
		Image{Name: name, PNG: img},
		Paragraph{Text: legend},
		Paragraph{Text: "Chart evaluation:", Bold: true},
		Paragraph{Text: interpret.Interpret(labels, current, reference)},
	)
	return nil
}

func (b *Builder) recommendation(doc *Document, in Input) {
	text := strings.TrimSpace(in.Recommendation)
	if text == "" {
		return
	}
	doc.Add(PageBreak{}, Heading{Text: "Closing recommendation", Level: 2})
	for _, para := range strings.Split(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			doc.Add(Paragraph{Text: para})
		}
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Package pipeline runs the report pipeline: load, tag, impute, derive,
// compare, assemble, render and write. The CLI and the MCP server both go
// through Service.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/internal/briefing"
	"github.com/Maikl76/Aplikace-data/internal/cache"
	"github.com/Maikl76/Aplikace-data/internal/chart"
	"github.com/Maikl76/Aplikace-data/internal/report"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/derive"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/summary"
	"github.com/Maikl76/Aplikace-data/pkg/archive"
	"github.com/Maikl76/Aplikace-data/pkg/config"
	"github.com/Maikl76/Aplikace-data/pkg/models"
	"github.com/Maikl76/Aplikace-data/pkg/tabular"
)

// Service orchestrates report generation.
type Service struct {
	config  *config.Config
	charts  report.ChartRenderer
	logger  *zap.Logger
	clock   func() time.Time
	version string

	mu      sync.Mutex
	archive archive.Store
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithChartRenderer replaces the chart renderer (for testing).
func WithChartRenderer(r report.ChartRenderer) Option {
	return func(s *Service) {
		s.charts = r
	}
}

// WithArchive sets the archive store instead of opening the configured one.
func WithArchive(store archive.Store) Option {
	return func(s *Service) {
		s.archive = store
	}
}

// WithClock sets the clock used for report timestamps and archive stamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithVersion records the generator version in reports.
func WithVersion(v string) Option {
	return func(s *Service) {
		s.version = v
	}
}

// New creates a new pipeline service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		logger: zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.charts == nil {
		s.charts = s.newChartRenderer()
	}
	return s
}

func (s *Service) newChartRenderer() *chart.Renderer {
	c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTLDuration(), s.config.Cache.Enabled)
	if err != nil {
		s.logger.Warn("chart cache disabled", zap.String("dir", s.config.Cache.Dir), zap.Error(err))
		c = nil
	}
	return chart.New(
		chart.WithSize(s.config.Chart.Width, s.config.Chart.Height),
		chart.WithDPI(s.config.Chart.DPI),
		chart.WithCache(c),
		chart.WithLogger(s.logger),
	)
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Close releases the archive if one was opened.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.archive == nil {
		return nil
	}
	err := s.archive.Close()
	s.archive = nil
	return err
}

func (s *Service) store() (archive.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.archive != nil {
		return s.archive, nil
	}
	backend, err := archive.ParseBackend(s.config.Archive.Backend, s.config.Archive.Path)
	if err != nil {
		return nil, err
	}
	store, err := archive.Open(s.config.Archive.Path, backend,
		archive.WithClock(s.clock), archive.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", s.config.Archive.Path, err)
	}
	s.archive = store
	return store, nil
}

// Dataset is a loaded subject table after tagging, imputation and
// derivation.
type Dataset struct {
	Path        string
	Table       *models.Table
	Derived     []string
	Imputations []derive.Imputation
}

// LoadTable reads a subject table and prepares it for comparison: identities
// are tagged, empty numeric cells are zero-filled and ratios are derived.
func (s *Service) LoadTable(ctx context.Context, path, sheet string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var opts []tabular.Option
	if sheet != "" {
		opts = append(opts, tabular.WithSheet(sheet))
	}
	t, err := tabular.Load(path, opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Info("table loaded",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns)))

	if err := identity.Tag(t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	imputed := derive.ImputeZero(t)
	if len(imputed) > 0 {
		s.logger.Info("missing values replaced by zero", zap.Int("cells", len(imputed)))
	}
	t, derived := derive.Derive(t)
	if len(derived) > 0 {
		s.logger.Debug("ratios derived", zap.Strings("columns", derived))
	}
	return &Dataset{Path: path, Table: t, Derived: derived, Imputations: imputed}, nil
}

// Subjects lists the identities of a table in first-seen order.
func (s *Service) Subjects(ctx context.Context, path, sheet string) ([]string, error) {
	ds, err := s.LoadTable(ctx, path, sheet)
	if err != nil {
		return nil, err
	}
	return identity.List(ds.Table), nil
}

// Analysis is a resolved comparison of one subject.
type Analysis struct {
	Identity       string              `json:"identity"`
	Subject        models.Row          `json:"-"`
	Basis          compare.Basis       `json:"-"`
	Comparison     *compare.Comparison `json:"comparison"`
	Metrics        []string            `json:"metrics"`
	Imputed        []string            `json:"imputed,omitempty"`
	HistoricalDate string              `json:"historical_date,omitempty"`
	Dataset        *Dataset            `json:"-"`
}

// Compare loads the request's table and resolves the subject's comparison.
func (s *Service) Compare(ctx context.Context, req Request) (*Analysis, error) {
	if err := s.validate(req, true); err != nil {
		return nil, err
	}
	ds, err := s.LoadTable(ctx, req.Input, req.Sheet)
	if err != nil {
		return nil, err
	}
	return s.compare(ctx, ds, req)
}

func (s *Service) validate(req Request, needIdentity bool) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if needIdentity && req.Identity == "" {
		return fmt.Errorf("%w: subject identity is required", ErrInvalidRequest)
	}
	return nil
}

func (s *Service) compare(ctx context.Context, ds *Dataset, req Request) (*Analysis, error) {
	subject, err := identity.Find(ds.Table, req.Identity)
	if err != nil {
		return nil, err
	}

	a := &Analysis{Identity: req.Identity, Subject: subject, Dataset: ds}
	if a.Basis, a.HistoricalDate, err = s.basis(ctx, ds, req); err != nil {
		return nil, err
	}
	a.Metrics = compare.Selection(ds.Table, req.Metrics, ds.Derived)
	a.Comparison = compare.Resolve(ds.Table, subject, a.Metrics, a.Basis)
	for _, e := range a.Comparison.Entries {
		if e.Imputed {
			a.Imputed = append(a.Imputed, e.Metric)
		}
	}
	if len(a.Comparison.Dropped) > 0 {
		s.logger.Debug("metrics without reference dropped",
			zap.String("identity", req.Identity),
			zap.Strings("metrics", a.Comparison.Dropped))
	}
	return a, nil
}

func (s *Service) basis(ctx context.Context, ds *Dataset, req Request) (compare.Basis, string, error) {
	if req.mode() == compare.ModeHistory {
		store, err := s.store()
		if err != nil {
			return compare.Basis{}, "", err
		}
		date := req.Basis.Date
		if date == "" {
			snaps, err := store.Snapshots(ctx, req.Identity)
			if err != nil {
				return compare.Basis{}, "", err
			}
			latest, ok := archive.Latest(snaps)
			if !ok {
				return compare.Basis{}, "", fmt.Errorf("%w: no measurements of %s", archive.ErrSnapshotNotFound, req.Identity)
			}
			date = latest.Date
		}
		row, err := store.Snapshot(ctx, req.Identity, date)
		if err != nil {
			return compare.Basis{}, "", err
		}
		return compare.HistoryBasis(row), date, nil
	}

	if req.Basis.Population != PopulationArchive {
		return compare.GroupBasis(ds.Table, req.Basis.Label), "", nil
	}
	store, err := s.store()
	if err != nil {
		return compare.Basis{}, "", err
	}
	pop, err := store.Load(ctx)
	if err != nil {
		return compare.Basis{}, "", err
	}
	imputed := derive.ImputeZero(pop)
	pop, _ = derive.Derive(pop)
	if len(imputed) > 0 {
		s.logger.Debug("archive population zero-filled", zap.Int("cells", len(imputed)))
	}
	label := req.Basis.Label
	if label == "" {
		label = ArchivePopulationLabel
	}
	return compare.GroupBasis(pop, label), "", nil
}

// Summarize computes the extended statistics of the request's table over
// the active metric selection.
func (s *Service) Summarize(ctx context.Context, req Request) (*summary.Summary, error) {
	if err := s.validate(req, false); err != nil {
		return nil, err
	}
	ds, err := s.LoadTable(ctx, req.Input, req.Sheet)
	if err != nil {
		return nil, err
	}
	return summary.Summarize(ds.Table, compare.Selection(ds.Table, req.Metrics, ds.Derived)), nil
}

// BuildDocument resolves the comparison and assembles the report document.
func (s *Service) BuildDocument(ctx context.Context, req Request) (*report.Document, error) {
	if err := s.validate(req, true); err != nil {
		return nil, err
	}
	ds, err := s.LoadTable(ctx, req.Input, req.Sheet)
	if err != nil {
		return nil, err
	}
	return s.document(ctx, ds, req)
}

func (s *Service) document(ctx context.Context, ds *Dataset, req Request) (*report.Document, error) {
	a, err := s.compare(ctx, ds, req)
	if err != nil {
		return nil, err
	}

	in := report.Input{
		Identity:       a.Identity,
		Subject:        a.Subject,
		Basis:          a.Basis,
		Comparison:     a.Comparison,
		Metrics:        a.Metrics,
		Groups:         req.Groups,
		Individual:     req.Individual,
		Recommendation: req.Recommendation,
		Imputed:        a.Imputed,
		HistoricalDate: a.HistoricalDate,
		ChartStyle:     s.chartStyle(req),
	}
	if req.ExtendedStats || s.config.Report.ExtendedStats {
		in.Summary = summary.Summarize(ds.Table, a.Metrics)
	}

	b := report.NewBuilder(s.charts,
		report.WithInstitution(s.config.Report.Institution),
		report.WithVersion(s.version),
		report.WithClock(s.clock),
		report.WithLogger(s.logger))
	return b.Build(in)
}

func (s *Service) chartStyle(req Request) string {
	if req.ChartStyle != "" {
		return req.ChartStyle
	}
	return s.config.Report.ChartStyle
}

func (s *Service) formats(req Request) ([]report.Format, error) {
	if len(req.Formats) > 0 {
		return req.Formats, nil
	}
	var out []report.Format
	for _, name := range s.config.Report.Formats {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		out = []report.Format{report.FormatPDF}
	}
	return out, nil
}

func (s *Service) outputDir(req Request) string {
	if req.OutputDir != "" {
		return req.OutputDir
	}
	return s.config.Report.OutputDir
}

// Generate builds the subject's report once and writes it in every
// requested format. If any format fails, files already written for this
// request are removed and no artifact is returned.
func (s *Service) Generate(ctx context.Context, req Request) ([]*report.Artifact, error) {
	if err := s.validate(req, true); err != nil {
		return nil, err
	}
	ds, err := s.LoadTable(ctx, req.Input, req.Sheet)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, ds, req)
}

func (s *Service) generate(ctx context.Context, ds *Dataset, req Request) ([]*report.Artifact, error) {
	formats, err := s.formats(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	doc, err := s.document(ctx, ds, req)
	if err != nil {
		return nil, err
	}

	dir := s.outputDir(req)
	opts := report.RendererOptions{FontPath: s.config.PDF.FontPath, BoldFontPath: s.config.PDF.BoldFontPath}
	artifacts := make([]*report.Artifact, len(formats))
	errs := make([]error, len(formats))

	wg := conc.NewWaitGroup()
	for i, f := range formats {
		wg.Go(func() {
			r, err := report.NewRenderer(f, opts)
			if err != nil {
				errs[i] = err
				return
			}
			artifacts[i], errs[i] = report.Write(doc, r, dir)
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		for _, a := range artifacts {
			if a != nil {
				_ = os.Remove(a.Path)
			}
		}
		return nil, err
	}
	for _, a := range artifacts {
		s.logger.Info("report written",
			zap.String("path", a.Path),
			zap.String("format", string(a.Format)),
			zap.Int64("bytes", a.Bytes))
	}
	return artifacts, nil
}

// BatchResult is the outcome for one subject of GenerateAll.
type BatchResult struct {
	Identity  string             `json:"identity"`
	Artifacts []*report.Artifact `json:"artifacts,omitempty"`
	Err       error              `json:"-"`
}

// GenerateAll writes reports for every subject of the table. A failing
// subject does not stop the batch; onDone is called after each subject.
func (s *Service) GenerateAll(ctx context.Context, req Request, onDone func(BatchResult)) ([]BatchResult, error) {
	if err := s.validate(req, false); err != nil {
		return nil, err
	}
	ds, err := s.LoadTable(ctx, req.Input, req.Sheet)
	if err != nil {
		return nil, err
	}

	ids := identity.List(ds.Table)
	results := make([]BatchResult, 0, len(ids))
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		sub := req
		sub.Identity = id
		arts, err := s.generate(ctx, ds, sub)
		res := BatchResult{Identity: id, Artifacts: arts, Err: err}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			s.logger.Warn("report failed", zap.String("identity", id), zap.Error(err))
		}
		results = append(results, res)
		if onDone != nil {
			onDone(res)
		}
	}
	return results, errors.Join(errs...)
}

// Briefing renders the plain-text briefing for the subject.
func (s *Service) Briefing(ctx context.Context, req Request) (*briefing.Briefing, error) {
	a, err := s.Compare(ctx, req)
	if err != nil {
		return nil, err
	}
	b := briefing.Build(a.Identity, a.Subject, a.Basis, a.Comparison)
	s.logger.Info("briefing generated",
		zap.String("identity", a.Identity),
		zap.Int("tokens", b.Tokens.Tokens))
	return b, nil
}

// ArchiveSubject appends the subject's current measurement to the archive.
// Derived ratios are not stored, and zero-filled cells are stored empty.
func (s *Service) ArchiveSubject(ctx context.Context, req Request) error {
	if err := s.validate(req, true); err != nil {
		return err
	}
	ds, err := s.LoadTable(ctx, req.Input, req.Sheet)
	if err != nil {
		return err
	}
	subject, err := identity.Find(ds.Table, req.Identity)
	if err != nil {
		return err
	}
	row := subject.Clone()
	for col, c := range row {
		switch {
		case derive.IsDerived(col):
			delete(row, col)
		case c.Imputed:
			row[col] = models.TextCell("")
		}
	}

	store, err := s.store()
	if err != nil {
		return err
	}
	return store.Append(ctx, []models.Row{row})
}

// Snapshots lists the archived measurements of a subject.
func (s *Service) Snapshots(ctx context.Context, id string) ([]archive.Snapshot, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.Snapshots(ctx, id)
}

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maikl76/Aplikace-data/internal/report"
	"github.com/Maikl76/Aplikace-data/internal/testutil"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/archive"
	"github.com/Maikl76/Aplikace-data/pkg/config"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

const (
	jan = testutil.Jan
	eva = testutil.Eva
)

const subjectsCSV = `Jmeno,Prijmeni,Narozen,Vek,Vyska,Hmotnost,Sila uchopu,Rychlost podani,Vnitrni rotace koncentricka (210°/s),Vnejsi rotace koncentricka (210°/s)
Jan,Novak,1990-01-01,30,180,75,45.0,160,40,20
Eva,Mala,1992-05-05,28,170,60,,150,30,20
`

type fixture struct {
	svc   *Service
	input string
	dir   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Report.OutputDir = filepath.Join(dir, "out")
	cfg.Report.Formats = []string{"html"}

	clock := func() time.Time { return time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC) }
	store, err := archive.NewFileStore(filepath.Join(dir, "archive.csv"), archive.WithClock(clock))
	require.NoError(t, err)

	svc := New(
		WithConfig(cfg),
		WithChartRenderer(&testutil.Charts{}),
		WithArchive(store),
		WithClock(clock),
		WithVersion("test"),
	)
	t.Cleanup(func() { _ = svc.Close() })
	return fixture{svc: svc, input: testutil.WriteTable(t, dir, subjectsCSV), dir: dir}
}

func TestLoadTablePreparesData(t *testing.T) {
	f := newFixture(t)
	ds, err := f.svc.LoadTable(context.Background(), f.input, "")
	require.NoError(t, err)

	assert.Equal(t, []string{models.RatioIRER210}, ds.Derived)
	require.Len(t, ds.Imputations, 1)
	assert.Equal(t, eva, ds.Imputations[0].Identity)
	assert.Equal(t, "Sila uchopu", ds.Imputations[0].Metric)

	ratio, ok := ds.Table.Rows[0].Float(models.RatioIRER210)
	require.True(t, ok)
	assert.Equal(t, "2.00", models.FormatFloat(ratio))
}

func TestSubjects(t *testing.T) {
	f := newFixture(t)
	ids, err := f.svc.Subjects(context.Background(), f.input, "")
	require.NoError(t, err)
	assert.Equal(t, []string{jan, eva}, ids)
}

func TestCompareGroupMode(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.Compare(context.Background(), Request{Input: f.input, Identity: eva})
	require.NoError(t, err)

	assert.Equal(t, []string{"Sila uchopu", "Rychlost podani",
		models.InternalRotationConcentric210, models.ExternalRotationConcentric210, models.RatioIRER210}, a.Metrics)
	e, ok := a.Comparison.Lookup("Sila uchopu")
	require.True(t, ok)
	assert.Equal(t, 0.0, e.Current)
	assert.Equal(t, 22.5, e.Reference)
	assert.Equal(t, []string{"Sila uchopu"}, a.Imputed)
}

func TestCompareUnknownSubject(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Compare(context.Background(), Request{Input: f.input, Identity: "Jan Novak, 1990-01-02"})
	require.ErrorIs(t, err, identity.ErrSubjectNotFound)

	var nf *identity.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Suggestions, jan)
}

func TestLoadTableMissingColumn(t *testing.T) {
	f := newFixture(t)
	path := testutil.WriteTable(t, t.TempDir(), "Jmeno,Prijmeni,Sila uchopu\nJan,Novak,45\n")
	_, err := f.svc.LoadTable(context.Background(), path, "")

	var missing *identity.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, models.ColBirthDate, missing.Column)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"no input", Request{Identity: jan}},
		{"bad mode", Request{Input: "x.csv", Basis: BasisSpec{Mode: "weekly"}}},
		{"bad population", Request{Input: "x.csv", Basis: BasisSpec{Population: "club"}}},
		{"history population", Request{Input: "x.csv", Basis: BasisSpec{Mode: compare.ModeHistory, Population: PopulationArchive}}},
		{"bad group", Request{Input: "x.csv", Groups: []string{"Reflexes"}}},
		{"bad format", Request{Input: "x.csv", Formats: []report.Format{"odt"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.req.Validate(), ErrInvalidRequest)
		})
	}

	ok := Request{Input: "x.csv", ChartStyle: "pie", Groups: []string{"IR/ER ratio"}}
	assert.NoError(t, ok.Validate())

	f := newFixture(t)
	_, err := f.svc.Generate(context.Background(), Request{Input: f.input})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGenerateWritesEveryFormat(t *testing.T) {
	f := newFixture(t)
	arts, err := f.svc.Generate(context.Background(), Request{
		Input:          f.input,
		Identity:       jan,
		Formats:        []report.Format{report.FormatHTML, report.FormatDOCX, report.FormatPDF},
		Individual:     []string{"Sila uchopu"},
		Recommendation: "Keep training.",
		ExtendedStats:  true,
	})
	require.NoError(t, err)
	require.Len(t, arts, 3)

	for i, want := range []string{"analysis_Jan Novak, 1990-01-01.html", "analysis_Jan Novak, 1990-01-01.docx", "analysis_Jan Novak, 1990-01-01.pdf"} {
		assert.Equal(t, filepath.Join(f.dir, "out", want), arts[i].Path)
		info, err := os.Stat(arts[i].Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), arts[i].Bytes)
	}

	html, err := os.ReadFile(arts[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Extended statistics (computed from current measurements)")
	assert.Contains(t, string(html), "Keep training.")
}

func TestGenerateFailureReturnsNoArtifacts(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(f.dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	arts, err := f.svc.Generate(context.Background(), Request{
		Input:     f.input,
		Identity:  jan,
		OutputDir: filepath.Join(blocker, "reports"),
	})
	require.Error(t, err)
	assert.Nil(t, arts)
}

func TestBuildDocumentUsesConfiguredDefaults(t *testing.T) {
	f := newFixture(t)
	f.svc.Config().Report.ExtendedStats = true
	doc, err := f.svc.BuildDocument(context.Background(), Request{Input: f.input, Identity: jan, Groups: []string{"IR/ER ratio"}})
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Images())
	assert.Contains(t, doc.Headings(), "IR/ER ratio")
	assert.Contains(t, doc.Blocks, report.Paragraph{Text: "Extended statistics (computed from current measurements)", Bold: true})
	assert.Equal(t, "test", doc.Metadata.Version)
}

func TestDefaultChartsLeaveNoCache(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	svc := New(WithConfig(cfg))
	t.Cleanup(func() { _ = svc.Close() })

	doc, err := svc.BuildDocument(context.Background(), Request{
		Input:    testutil.WriteTable(t, dir, subjectsCSV),
		Identity: jan,
		Groups:   []string{"IR/ER ratio"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Images())
	assert.NoDirExists(t, cfg.Cache.Dir)
}

func TestGenerateAll(t *testing.T) {
	f := newFixture(t)
	var seen []string
	results, err := f.svc.GenerateAll(context.Background(), Request{Input: f.input}, func(r BatchResult) {
		seen = append(seen, r.Identity)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{jan, eva}, seen)
	for _, r := range results {
		require.Len(t, r.Artifacts, 1)
		assert.FileExists(t, r.Artifacts[0].Path)
	}
}

func TestGenerateAllStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.GenerateAll(ctx, Request{Input: f.input}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryWithoutArchive(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Compare(context.Background(), Request{
		Input: f.input, Identity: jan, Basis: BasisSpec{Mode: compare.ModeHistory},
	})
	assert.ErrorIs(t, err, archive.ErrNoArchive)
}

func TestArchiveRoundTripHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.ArchiveSubject(ctx, Request{Input: f.input, Identity: jan}))
	require.NoError(t, f.svc.ArchiveSubject(ctx, Request{Input: f.input, Identity: eva}))

	snaps, err := f.svc.Snapshots(ctx, jan)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2025-02-01 09:30:00", snaps[0].Date)

	a, err := f.svc.Compare(ctx, Request{Input: f.input, Identity: jan, Basis: BasisSpec{Mode: compare.ModeHistory}})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01 09:30:00", a.HistoricalDate)
	for _, e := range a.Comparison.Entries {
		assert.Equal(t, e.Current, e.Reference, e.Metric)
		assert.Zero(t, e.Diff, e.Metric)
	}
	_, ok := a.Comparison.Lookup(models.RatioIRER210)
	assert.True(t, ok, "ratio is recomputed from the archived raw values")

	// Eva's grip strength was zero-filled and is archived empty, so it has
	// no historical value.
	b, err := f.svc.Compare(ctx, Request{Input: f.input, Identity: eva, Basis: BasisSpec{Mode: compare.ModeHistory}})
	require.NoError(t, err)
	assert.Contains(t, b.Comparison.Dropped, "Sila uchopu")
}

func TestArchivePopulation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.ArchiveSubject(ctx, Request{Input: f.input, Identity: eva}))

	a, err := f.svc.Compare(ctx, Request{Input: f.input, Identity: jan, Basis: BasisSpec{Population: PopulationArchive}})
	require.NoError(t, err)
	assert.Equal(t, ArchivePopulationLabel, a.Basis.ReferenceLabel())

	e, ok := a.Comparison.Lookup("Rychlost podani")
	require.True(t, ok)
	assert.Equal(t, 150.0, e.Reference)
	grip, ok := a.Comparison.Lookup("Sila uchopu")
	require.True(t, ok, "empty archived grip strength is zero-filled")
	assert.Equal(t, 0.0, grip.Reference)
}

func TestArchivePopulationMatchesCurrentGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.ArchiveSubject(ctx, Request{Input: f.input, Identity: jan}))
	require.NoError(t, f.svc.ArchiveSubject(ctx, Request{Input: f.input, Identity: eva}))

	group, err := f.svc.Compare(ctx, Request{Input: f.input, Identity: jan})
	require.NoError(t, err)
	archived, err := f.svc.Compare(ctx, Request{Input: f.input, Identity: jan, Basis: BasisSpec{Population: PopulationArchive}})
	require.NoError(t, err)

	for _, metric := range []string{"Sila uchopu", "Rychlost podani", models.RatioIRER210} {
		g, ok := group.Comparison.Lookup(metric)
		require.True(t, ok, metric)
		h, ok := archived.Comparison.Lookup(metric)
		require.True(t, ok, metric)
		assert.InDelta(t, g.Reference, h.Reference, 1e-9, metric)
	}
	grip, _ := archived.Comparison.Lookup("Sila uchopu")
	assert.InDelta(t, 22.5, grip.Reference, 1e-9)
}

func TestBriefing(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Briefing(context.Background(), Request{Input: f.input, Identity: jan})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.Text, "Briefing for evaluation of subject "+jan))
	assert.Contains(t, b.Text, "IR/ER (210°/s)")
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.Summarize(context.Background(), Request{Input: f.input, Metrics: []string{"Rychlost podani"}})
	require.NoError(t, err)

	m, ok := s.Lookup("Rychlost podani")
	require.True(t, ok)
	assert.Equal(t, 155.0, m.Median)
	_, ok = s.Lookup(models.RatioIRER210)
	assert.True(t, ok, "derived ratios join the selection")
}

func TestSelfComparisonScenario(t *testing.T) {
	f := newFixture(t)
	path := testutil.WriteTable(t, t.TempDir(), "Jmeno,Prijmeni,Narozen,Vek,Vyska,Hmotnost,Sila uchopu\nJan,Novak,1990-01-01,30,180,75,45.0\n")
	doc, err := f.svc.BuildDocument(context.Background(), Request{Input: path, Identity: jan})
	require.NoError(t, err)

	var table report.Table
	for _, b := range doc.Blocks {
		if tb, ok := b.(report.Table); ok {
			table = tb
			break
		}
	}
	assert.Equal(t, [][]string{{"Sila uchopu", "45.00", "45.00", "0.00"}}, table.Rows)

	var text string
	for _, b := range doc.Blocks {
		if p, ok := b.(report.Paragraph); ok {
			text += p.Text + "\n"
		}
	}
	assert.Contains(t, text, "comparable")
}

func TestErrorsWrapSentinels(t *testing.T) {
	err := (&Request{}).Validate()
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Contains(t, err.Error(), "input table is required")
}

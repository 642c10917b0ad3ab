package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/derive"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/interpret"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

func janTable() *models.Table {
	t := models.NewTable(
		models.ColName, models.ColSurname, models.ColBirthDate,
		models.ColAge, models.ColHeight, models.ColWeight, "Sila uchopu",
	)
	t.Rows = []models.Row{{
		models.ColName:      models.TextCell("Jan"),
		models.ColSurname:   models.TextCell("Novak"),
		models.ColBirthDate: models.TextCell("1990-01-01"),
		models.ColAge:       models.TextCell("30"),
		models.ColHeight:    models.TextCell("180"),
		models.ColWeight:    models.TextCell("75"),
		"Sila uchopu":       models.TextCell("45.0"),
	}}
	return t
}

func TestSelfComparisonIsComparable(t *testing.T) {
	tbl := janTable()
	require.NoError(t, identity.Tag(tbl))
	subject, err := identity.Find(tbl, "Jan Novak, 1990-01-01")
	require.NoError(t, err)

	metrics := Selection(tbl, nil, nil)
	assert.Equal(t, []string{"Sila uchopu"}, metrics)

	c := Resolve(tbl, subject, metrics, GroupBasis(tbl, ""))
	require.Len(t, c.Entries, 1)
	e := c.Entries[0]
	assert.Equal(t, "45.00", models.FormatFloat(e.Current))
	assert.Equal(t, "45.00", models.FormatFloat(e.Reference))
	assert.Equal(t, "0.00", models.FormatFloat(e.Diff))

	text := interpret.Interpret([]string{e.Metric}, []float64{e.Current}, []float64{e.Reference})
	assert.Contains(t, text, "comparable")
}

func TestGroupMeanIncludesSubjectAndSkipsEmpty(t *testing.T) {
	tbl := models.NewTable("m")
	tbl.Rows = []models.Row{
		{"m": models.NumberCell(10)},
		{"m": models.NumberCell(20)},
		{"m": models.TextCell("")},
		{"m": models.NumberCell(math.NaN())},
	}
	c := Resolve(tbl, tbl.Rows[0], []string{"m"}, GroupBasis(tbl, "Juniors"))
	require.Len(t, c.Entries, 1)
	assert.Equal(t, 15.0, c.Entries[0].Reference)
	assert.Equal(t, -5.0, c.Entries[0].Diff)
}

func TestHistoryRecomputesRatio(t *testing.T) {
	tbl := models.NewTable(models.InternalRotationConcentric210, models.ExternalRotationConcentric210)
	tbl.Rows = []models.Row{{
		models.InternalRotationConcentric210: models.NumberCell(50),
		models.ExternalRotationConcentric210: models.NumberCell(25),
	}}
	tbl, derived := derive.Derive(tbl)
	metrics := Selection(tbl, []string{models.InternalRotationConcentric210}, derived)
	assert.Equal(t, []string{models.InternalRotationConcentric210, models.RatioIRER210}, metrics)

	snapshot := models.Row{
		models.InternalRotationConcentric210: models.NumberCell(40),
		models.ExternalRotationConcentric210: models.NumberCell(20),
	}
	c := Resolve(tbl, tbl.Rows[0], metrics, HistoryBasis(snapshot))
	e, ok := c.Lookup(models.RatioIRER210)
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Reference)
	assert.Equal(t, 0.0, e.Diff)
}

func TestHistoryDropsUnresolvableRatio(t *testing.T) {
	tbl := models.NewTable(models.InternalRotationConcentric210, models.ExternalRotationConcentric210)
	tbl.Rows = []models.Row{{
		models.InternalRotationConcentric210: models.NumberCell(50),
		models.ExternalRotationConcentric210: models.NumberCell(25),
	}}
	tbl, derived := derive.Derive(tbl)
	metrics := Selection(tbl, nil, derived)

	snapshot := models.Row{
		models.InternalRotationConcentric210: models.NumberCell(40),
		models.ExternalRotationConcentric210: models.TextCell(""),
	}
	c := Resolve(tbl, tbl.Rows[0], metrics, HistoryBasis(snapshot))
	_, ok := c.Lookup(models.RatioIRER210)
	assert.False(t, ok)
	assert.Contains(t, c.Dropped, models.RatioIRER210)
	assert.Contains(t, c.Dropped, models.ExternalRotationConcentric210)
	assert.Equal(t, []string{models.InternalRotationConcentric210}, c.Metrics())
}

func TestResolveSkipsNonNumericAndUnselected(t *testing.T) {
	tbl := models.NewTable("a", "b", "note")
	tbl.Rows = []models.Row{{
		"a":    models.NumberCell(1),
		"b":    models.NumberCell(2),
		"note": models.TextCell("left side"),
	}}
	c := Resolve(tbl, tbl.Rows[0], []string{"b", "note"}, GroupBasis(tbl, ""))
	assert.Equal(t, []string{"b"}, c.Metrics())
	assert.Empty(t, c.Dropped)
}

func TestSubsetKeepsRequestedOrder(t *testing.T) {
	c := &Comparison{Entries: []Entry{{Metric: "a"}, {Metric: "b"}}}
	assert.Equal(t, []Entry{{Metric: "b"}, {Metric: "a"}}, c.Subset([]string{"b", "x", "a"}))
}

func TestLabels(t *testing.T) {
	g := GroupBasis(nil, "")
	assert.Equal(t, LabelSubject, g.CurrentLabel())
	assert.Equal(t, LabelGroupAverage, g.ReferenceLabel())
	assert.Equal(t, "Average", g.ReferenceHeader())

	assert.Equal(t, "Juniors", GroupBasis(nil, "Juniors").ReferenceLabel())

	h := HistoryBasis(models.Row{})
	assert.Equal(t, LabelCurrent, h.CurrentLabel())
	assert.Equal(t, LabelHistorical, h.ReferenceLabel())
	assert.Equal(t, "Historical", h.ReferenceHeader())
}

package briefing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

func subject() models.Row {
	return models.Row{
		models.ColAge:    models.TextCell("30"),
		models.ColHeight: models.TextCell("180"),
		models.ColWeight: models.TextCell("75"),
	}
}

func TestBuildGroupMode(t *testing.T) {
	c := &compare.Comparison{Mode: compare.ModeGroup, Entries: []compare.Entry{
		{Metric: "Sila uchopu", Current: 45, Reference: 40, Diff: 5},
	}}
	b := Build("Jan Novak, 1990-01-01", subject(), compare.GroupBasis(nil, ""), c)
	lines := strings.Split(b.Text, "\n")

	require.GreaterOrEqual(t, len(lines), 10)
	assert.Equal(t, "Briefing for evaluation of subject Jan Novak, 1990-01-01", lines[0])
	assert.Equal(t, strings.Repeat("-", 50), lines[1])
	assert.Equal(t, "Age: 30 years", lines[2])
	assert.Equal(t, "", lines[5])
	assert.Equal(t, "Measurement results:", lines[6])

	header := lines[7]
	assert.Equal(t, "Metric                            Current    Average Difference", header)
	assert.Equal(t, strings.Repeat("-", len(header)), lines[8])
	assert.Equal(t, "Sila uchopu                         45.00      40.00       5.00", lines[9])

	assert.True(t, strings.HasSuffix(b.Text, "- Commentary grounded in scientific literature on tennis"))
	for _, d := range Deliverables {
		assert.Contains(t, b.Text, "- "+d)
	}
	assert.Positive(t, b.Tokens.Tokens)
}

func TestBuildHistoryModeHeader(t *testing.T) {
	b := Build("x", subject(), compare.HistoryBasis(models.Row{}), &compare.Comparison{Mode: compare.ModeHistory})
	assert.Contains(t, b.Text, "Current Historical Difference")
}

func TestBuildPadsLongNamesByRune(t *testing.T) {
	c := &compare.Comparison{Entries: []compare.Entry{
		{Metric: models.RatioIRER210, Current: 2, Reference: 2, Diff: 0},
	}}
	b := Build("x", subject(), compare.GroupBasis(nil, ""), c)
	var row string
	for _, l := range strings.Split(b.Text, "\n") {
		if strings.HasPrefix(l, models.RatioIRER210) {
			row = l
		}
	}
	require.NotEmpty(t, row)
	assert.Equal(t, 30+3*11, len([]rune(row)))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "briefing_A_B.txt", FileName("A/B"))
}

func TestWrite(t *testing.T) {
	b := Build("Jan/Novak", subject(), compare.GroupBasis(nil, ""), nil)
	path, err := Write(b, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "briefing_Jan_Novak.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, b.Text+"\n", string(data))
}

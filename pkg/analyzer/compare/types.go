package compare

import "github.com/Maikl76/Aplikace-data/pkg/models"

// Mode selects the comparison basis.
type Mode string

const (
	// ModeGroup compares against the column means of a population.
	ModeGroup Mode = "group"
	// ModeHistory compares against one archived snapshot of the same subject.
	ModeHistory Mode = "history"
)

// Series labels used by charts and legends.
const (
	LabelSubject      = "Subject"
	LabelGroupAverage = "Group average"
	LabelCurrent      = "Current measurement"
	LabelHistorical   = "Historical measurement"

	// LabelCurrentGroup is the group label for the table being reported on.
	LabelCurrentGroup = "Current group"
)

// Basis is the reference a subject is judged against.
type Basis struct {
	Mode Mode
	// Population is the reference table in ModeGroup.
	Population *models.Table
	// Label optionally names the population (see LabelCurrentGroup).
	Label string
	// Snapshot is the archived row in ModeHistory.
	Snapshot models.Row
}

// Entry is one resolved metric.
type Entry struct {
	Metric    string  `json:"metric"`
	Current   float64 `json:"current"`
	Reference float64 `json:"reference"`
	Diff      float64 `json:"diff"`
	Imputed   bool    `json:"imputed,omitempty"`
}

// Comparison is the aligned metric mapping for one subject, in table column
// order.
type Comparison struct {
	Mode    Mode     `json:"mode"`
	Entries []Entry  `json:"entries"`
	Dropped []string `json:"dropped,omitempty"`
}

// Lookup returns the entry for metric.
func (c *Comparison) Lookup(metric string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Metric == metric {
			return e, true
		}
	}
	return Entry{}, false
}

// Metrics returns the resolved metric names.
func (c *Comparison) Metrics() []string {
	out := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Metric
	}
	return out
}

// Subset returns the resolved entries for metrics, preserving the order of
// metrics and skipping the ones that could not be resolved.
func (c *Comparison) Subset(metrics []string) []Entry {
	var out []Entry
	for _, m := range metrics {
		if e, ok := c.Lookup(m); ok {
			out = append(out, e)
		}
	}
	return out
}

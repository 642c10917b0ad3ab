// Package compare aligns a subject's current values with a reference taken
// from a population average or a historical snapshot.
package compare

import (
	"math"
	"slices"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/derive"
	"github.com/Maikl76/Aplikace-data/pkg/models"
	"github.com/Maikl76/Aplikace-data/pkg/stats"
)

// GroupBasis compares against the column means of population.
func GroupBasis(population *models.Table, label string) Basis {
	return Basis{Mode: ModeGroup, Population: population, Label: label}
}

// HistoryBasis compares against an archived snapshot.
func HistoryBasis(snapshot models.Row) Basis {
	return Basis{Mode: ModeHistory, Snapshot: snapshot}
}

// CurrentLabel names the subject's series.
func (b Basis) CurrentLabel() string {
	if b.Mode == ModeHistory {
		return LabelCurrent
	}
	return LabelSubject
}

// ReferenceLabel names the reference series.
func (b Basis) ReferenceLabel() string {
	if b.Mode == ModeHistory {
		return LabelHistorical
	}
	if b.Label != "" {
		return b.Label
	}
	return LabelGroupAverage
}

// ReferenceHeader is the column header for reference values.
func (b Basis) ReferenceHeader() string {
	if b.Mode == ModeHistory {
		return "Historical"
	}
	return "Average"
}

// Reference returns the reference value for metric. ok is false when the
// value cannot be determined and the metric must be dropped.
func (b Basis) Reference(metric string) (float64, bool) {
	if b.Mode == ModeHistory {
		return snapshotValue(b.Snapshot, metric)
	}
	if b.Population == nil || !b.Population.HasColumn(metric) {
		return 0, false
	}
	values := finite(b.Population.Values(metric))
	if len(values) == 0 {
		return 0, false
	}
	return stats.Mean(values), true
}

// snapshotValue reads metric from an archived row, recomputing derived
// ratios from their raw inputs when the ratio itself was not archived.
func snapshotValue(snapshot models.Row, metric string) (float64, bool) {
	if c, ok := snapshot[metric]; ok && !c.IsEmpty() {
		return c.Number, c.Numeric
	}
	if ratio, ok := derive.RatioByName(metric); ok {
		return ratio.Compute(snapshot)
	}
	return 0, false
}

// finite drops NaN values the way a skip-missing mean does.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Selection resolves the metric selection for table. A nil selection means
// every non-identification column. Derived ratios are appended when missing.
func Selection(table *models.Table, selected []string, derived []string) []string {
	var out []string
	if selected == nil {
		for _, col := range table.Columns {
			if !models.IsIdentificationColumn(col) && !slices.Contains(derived, col) {
				out = append(out, col)
			}
		}
	} else {
		out = slices.Clone(selected)
	}
	for _, d := range derived {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

// Resolve builds the comparison for subject. Only metrics that are numeric
// in table and present in metrics are considered; metrics without a current
// or reference value are listed in Dropped instead of being defaulted.
func Resolve(table *models.Table, subject models.Row, metrics []string, basis Basis) *Comparison {
	c := &Comparison{Mode: basis.Mode}
	for _, col := range table.Columns {
		if models.IsIdentificationColumn(col) || !slices.Contains(metrics, col) || !table.IsNumeric(col) {
			continue
		}
		current, ok := subject.Float(col)
		if !ok {
			c.Dropped = append(c.Dropped, col)
			continue
		}
		ref, ok := basis.Reference(col)
		if !ok {
			c.Dropped = append(c.Dropped, col)
			continue
		}
		c.Entries = append(c.Entries, Entry{
			Metric:    col,
			Current:   current,
			Reference: ref,
			Diff:      current - ref,
			Imputed:   subject[col].Imputed,
		})
	}
	return c
}

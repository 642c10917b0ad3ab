// Package derive computes ratio metrics and applies the zero-imputation
// policy that precedes derivation.
package derive

import (
	"slices"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// keyColumns are never imputed.
var keyColumns = []string{
	models.ColName,
	models.ColSurname,
	models.ColBirthDate,
	models.ColIdentity,
	models.ColMeasuredAt,
}

// Applies reports whether both inputs of the ratio are columns of t.
func (r Ratio) Applies(t *models.Table) bool {
	return t.HasColumn(r.Numerator) && t.HasColumn(r.Denominator)
}

// Compute evaluates the ratio for one row. Division by zero is not guarded:
// the result is ±Inf or NaN.
func (r Ratio) Compute(row models.Row) (float64, bool) {
	num, ok := row.Float(r.Numerator)
	if !ok {
		return 0, false
	}
	den, ok := row.Float(r.Denominator)
	if !ok {
		return 0, false
	}
	return num / den, true
}

// Derive returns a copy of t with every applicable ratio column added or
// overwritten, and the names of the ratios it computed. The input table is
// not modified, so applying Derive twice yields identical columns.
func Derive(t *models.Table) (*models.Table, []string) {
	out := t.Clone()
	var derived []string
	for _, ratio := range Ratios {
		if !ratio.Applies(out) {
			continue
		}
		out.AddColumn(ratio.Name)
		for _, row := range out.Rows {
			if v, ok := ratio.Compute(row); ok {
				row[ratio.Name] = models.NumberCell(v)
			} else {
				row[ratio.Name] = models.Cell{}
			}
		}
		derived = append(derived, ratio.Name)
	}
	return out, derived
}

// ImputeZero replaces empty cells of numeric columns with zero in place and
// returns one Imputation per filled cell. Filled cells keep Imputed set so
// the report can flag them.
func ImputeZero(t *models.Table) []Imputation {
	var filled []Imputation
	for _, col := range t.Columns {
		if slices.Contains(keyColumns, col) || !t.IsNumeric(col) {
			continue
		}
		for i, row := range t.Rows {
			c, ok := row[col]
			if ok && !c.IsEmpty() {
				continue
			}
			cell := models.NumberCell(0)
			cell.Imputed = true
			row[col] = cell
			filled = append(filled, Imputation{Row: i, Identity: identity.Resolve(row), Metric: col})
		}
	}
	return filled
}

// ImputedMetrics returns, in column order, the metrics of row whose value
// was zero-filled.
func ImputedMetrics(t *models.Table, row models.Row) []string {
	var out []string
	for _, col := range t.Columns {
		if c, ok := row[col]; ok && c.Imputed {
			out = append(out, col)
		}
	}
	return out
}

package models

import (
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Column names every subject table is expected to carry.
const (
	ColName       = "Jmeno"
	ColSurname    = "Prijmeni"
	ColBirthDate  = "Narozen"
	ColIdentity   = "Identifikace"
	ColAge        = "Vek"
	ColHeight     = "Vyska"
	ColWeight     = "Hmotnost"
	ColMeasuredAt = "DatumMereni"
)

// IdentificationColumns describe the subject rather than measure it and are
// never offered as metrics.
var IdentificationColumns = []string{
	ColName,
	ColSurname,
	ColBirthDate,
	ColIdentity,
	ColAge,
	ColHeight,
	ColWeight,
	ColMeasuredAt,
}

// IsIdentificationColumn reports whether name is one of IdentificationColumns.
func IsIdentificationColumn(name string) bool {
	return slices.Contains(IdentificationColumns, name)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader trims a column header and collapses inner whitespace runs
// to a single space.
func NormalizeHeader(h string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(h), " ")
}

// Cell is a single table value. Raw keeps the source text; Number is only
// meaningful when Numeric is set.
type Cell struct {
	Raw     string  `json:"raw"`
	Number  float64 `json:"number"`
	Numeric bool    `json:"numeric"`
	Imputed bool    `json:"imputed,omitempty"`
}

// TextCell builds a cell from source text, detecting numeric content.
func TextCell(s string) Cell {
	c := Cell{Raw: s}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return c
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		c.Number = v
		c.Numeric = true
	}
	return c
}

// NumberCell builds a numeric cell whose Raw text round-trips exactly.
func NumberCell(v float64) Cell {
	return Cell{
		Raw:     strconv.FormatFloat(v, 'g', -1, 64),
		Number:  v,
		Numeric: true,
	}
}

// IsEmpty reports whether the cell carries no value at all.
func (c Cell) IsEmpty() bool {
	return !c.Numeric && strings.TrimSpace(c.Raw) == ""
}

// Row maps a column name to its cell.
type Row map[string]Cell

// Float returns the numeric value stored under col.
func (r Row) Float(col string) (float64, bool) {
	c, ok := r[col]
	if !ok || !c.Numeric {
		return 0, false
	}
	return c.Number, true
}

// String returns the raw text stored under col, or "" when absent.
func (r Row) String(col string) string {
	return r[col].Raw
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns and the rows that fill them.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// AddColumn appends a column if it is not declared yet.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Append adds a row. Columns unknown to the table are declared in sorted
// order so the result does not depend on map iteration.
func (t *Table) Append(row Row) {
	var extra []string
	for col := range row {
		if !t.HasColumn(col) {
			extra = append(extra, col)
		}
	}
	sort.Strings(extra)
	t.Columns = append(t.Columns, extra...)
	t.Rows = append(t.Rows, row)
}

// IsNumeric reports whether every non-empty cell of the column is numeric.
// A declared column with no values at all counts as numeric.
func (t *Table) IsNumeric(col string) bool {
	if !t.HasColumn(col) {
		return false
	}
	for _, r := range t.Rows {
		c, ok := r[col]
		if !ok || c.IsEmpty() {
			continue
		}
		if !c.Numeric {
			return false
		}
	}
	return true
}

// NumericColumns returns the numeric columns in declaration order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, col := range t.Columns {
		if t.IsNumeric(col) {
			out = append(out, col)
		}
	}
	return out
}

// Values returns the numeric values of a column, skipping empty cells.
func (t *Table) Values(col string) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if v, ok := r.Float(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a copy whose rows can be modified independently.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Filter returns a table holding the rows for which keep returns true.
// Rows are shared with the receiver.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Columns: slices.Clone(t.Columns)}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

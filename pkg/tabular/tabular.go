// Package tabular loads and saves subject tables as Excel workbooks or CSV
// files.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// ErrUnsupportedFormat is returned for file extensions other than .xlsx,
// .xlsm and .csv.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// DefaultSheet is preferred when a workbook has several sheets.
const DefaultSheet = "data"

// Format is a table file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatOf returns the format implied by the path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

type options struct {
	sheet     string
	delimiter rune
}

// Option configures Load and Save.
type Option func(*options)

// WithSheet reads or writes the named worksheet.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// WithDelimiter sets the CSV delimiter. When unset, Load sniffs it and Save
// uses a comma.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		o.delimiter = r
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads a table. Headers are normalized (trimmed, inner whitespace
// collapsed) and fully empty rows are skipped.
func Load(path string, opts ...Option) (*models.Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	var records [][]string
	switch format {
	case FormatXLSX:
		records, err = readXLSX(path, o)
	case FormatCSV:
		records, err = readCSV(path, o)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fromRecords(records), nil
}

// Save writes t to path atomically in the format implied by its extension.
func Save(path string, t *models.Table, opts ...Option) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	o := buildOptions(opts)
	switch format {
	case FormatXLSX:
		err = writeXLSX(path, t, o)
	case FormatCSV:
		err = writeCSV(path, t, o)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func fromRecords(records [][]string) *models.Table {
	if len(records) == 0 {
		return models.NewTable()
	}
	columns := headerNames(records[0])
	t := models.NewTable(columns...)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(models.Row, len(columns))
		for i, col := range columns {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row[col] = models.TextCell(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// headerNames normalizes headers, names empty ones "Unnamed: <i>" and
// suffixes duplicates with ".1", ".2", ...
func headerNames(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		name := models.NormalizeHeader(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cellText is the value written for a cell.
func cellText(c models.Cell) string {
	if c.Numeric && strings.TrimSpace(c.Raw) == "" {
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	}
	return c.Raw
}

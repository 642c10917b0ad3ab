package tabular

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/Maikl76/Aplikace-data/internal/fsutil"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

func readCSV(path string, o options) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(f)
	delim := o.delimiter
	if delim == 0 {
		first, _ := br.Peek(4096)
		delim = sniffDelimiter(string(first))
	}

	r := csv.NewReader(br)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// line, defaulting to a comma.
func sniffDelimiter(sample string) rune {
	line, _, _ := strings.Cut(sample, "\n")
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func writeCSV(path string, t *models.Table, o options) error {
	_, err := fsutil.WriteFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if o.delimiter != 0 {
			cw.Comma = o.delimiter
		}
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
		rec := make([]string, len(t.Columns))
		for _, row := range t.Rows {
			for i, col := range t.Columns {
				rec[i] = cellText(row[col])
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	return err
}

package tabular

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Maikl76/Aplikace-data/internal/fsutil"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

func readXLSX(path string, o options) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet, err := pickSheet(f.GetSheetList(), o.sheet)
	if err != nil {
		return nil, err
	}

	// Formatted values keep dates readable; raw values keep full numeric
	// precision. Numbers are taken raw, everything else formatted.
	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	for i, rec := range formatted {
		for j, v := range rec {
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				continue
			}
			if i < len(raw) && j < len(raw[i]) {
				rec[j] = raw[i][j]
			}
		}
	}
	return formatted, nil
}

func pickSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if want != "" {
		if !slices.Contains(sheets, want) {
			return "", fmt.Errorf("sheet %q not found", want)
		}
		return want, nil
	}
	if slices.Contains(sheets, DefaultSheet) {
		return DefaultSheet, nil
	}
	return sheets[0], nil
}

func writeXLSX(path string, t *models.Table, o options) error {
	sheet := o.sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, col); err != nil {
			return fmt.Errorf("write header %q: %w", col, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %q: %w", col, err)
		}
	}

	for r, row := range t.Rows {
		for i, col := range t.Columns {
			c, ok := row[col]
			if !ok || c.IsEmpty() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if c.Numeric && !math.IsNaN(c.Number) && !math.IsInf(c.Number, 0) {
				err = f.SetCellFloat(sheet, cell, c.Number, -1, 64)
			} else {
				err = f.SetCellStr(sheet, cell, cellText(c))
			}
			if err != nil {
				return fmt.Errorf("write row %d, column %q: %w", r+1, col, err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	_, err = fsutil.WriteFile(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	return err
}

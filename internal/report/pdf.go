package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfCellHeight = 7.0
	pdfFamily     = "report"
)

var headingSizes = map[int]float64{1: 16, 2: 14, 3: 12}

// PDFRenderer lays documents out on A4 pages.
type PDFRenderer struct {
	fontPath     string
	boldFontPath string
}

// NewPDFRenderer creates a PDF renderer. An empty fontPath selects the core
// Helvetica font.
func NewPDFRenderer(fontPath, boldFontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath, boldFontPath: boldFontPath}
}

// Format implements Renderer.
func (r *PDFRenderer) Format() Format { return FormatPDF }

// Render implements Renderer.
func (r *PDFRenderer) Render(doc *Document, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Metadata.Identity, true)
	pdf.SetCreator(doc.Metadata.Institution, true)

	family, text := "Helvetica", transliterate
	if r.fontPath != "" {
		family, text = pdfFamily, func(s string) string { return s }
		pdf.AddUTF8Font(pdfFamily, "", r.fontPath)
		bold := r.boldFontPath
		if bold == "" {
			bold = r.fontPath
		}
		pdf.AddUTF8Font(pdfFamily, "B", bold)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf font: %w", err)
	}

	pdf.AddPage()
	width, _ := pdf.GetPageSize()
	width -= 2 * pdfMargin
	images := 0

	for _, b := range doc.Blocks {
		switch b := b.(type) {
		case Heading:
			pdf.SetFont(family, "B", headingSizes[clampLevel(b.Level)])
			pdf.MultiCell(width, pdfLineHeight+2, text(b.Text), "", "L", false)
			pdf.Ln(2)
		case Paragraph:
			style := ""
			if b.Bold {
				style = "B"
			}
			pdf.SetFont(family, style, 11)
			pdf.MultiCell(width, pdfLineHeight, text(b.Text), "", "L", false)
			pdf.Ln(1)
		case Table:
			pdfTable(pdf, family, width, b, text)
		case Image:
			images++
			name := "chart" + strconv.Itoa(images)
			opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b.PNG))
			pdf.ImageOptions(name, pdfMargin, pdf.GetY(), width, 0, true, opts, 0, "")
			pdf.Ln(2)
		case PageBreak:
			pdf.AddPage()
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf layout: %w", err)
		}
	}
	return pdf.Output(w)
}

func pdfTable(pdf *fpdf.Fpdf, family string, width float64, t Table, text func(string) string) {
	if len(t.Header) == 0 {
		return
	}
	// First column holds metric names and gets the remaining width.
	rest := 25.0
	first := width - rest*float64(len(t.Header)-1)
	colWidth := func(i int) float64 {
		if i == 0 {
			return first
		}
		return rest
	}

	pdf.SetFont(family, "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range t.Header {
		pdf.CellFormat(colWidth(i), pdfCellHeight, text(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range t.Rows {
		for i := range t.Header {
			cell := ""
			align := "R"
			switch {
			case i == 0 && i < len(row):
				align = "L"
				cell = fitText(pdf, row[i], colWidth(i)-2, text)
			case i < len(row):
				cell = text(row[i])
			}
			pdf.CellFormat(colWidth(i), pdfCellHeight, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

// fitText shortens s with a trailing ellipsis until its encoded form fits
// width. Runes are dropped before encoding so multi-byte characters are
// never split.
func fitText(pdf *fpdf.Fpdf, s string, width float64, text func(string) string) string {
	if encoded := text(s); pdf.GetStringWidth(encoded) <= width {
		return encoded
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(text(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return text(string(r) + "...")
}

var coreFontEncoder = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())

// transliterate folds text into cp1252 for the core PDF fonts: combining
// marks are stripped (č -> c) and anything still unencodable becomes "?".
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	encoded, err := coreFontEncoder.String(folded)
	if err != nil {
		return folded
	}
	return encoded
}

package report

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/stypes"
)

const (
	// Text width of an A4 page with the template's margins.
	docxTextWidth     units.Inch = 6.3
	docxTableTwips               = 9000
	docxValueColTwips            = 1500
)

// DOCXRenderer writes WordprocessingML documents.
type DOCXRenderer struct{}

// Format implements Renderer.
func (DOCXRenderer) Format() Format { return FormatDOCX }

// Render implements Renderer.
func (DOCXRenderer) Render(doc *Document, w io.Writer) error {
	out, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("docx template: %w", err)
	}
	for _, b := range doc.Blocks {
		switch b := b.(type) {
		case Heading:
			if _, err := out.AddHeading(b.Text, uint(clampLevel(b.Level))); err != nil {
				return fmt.Errorf("docx heading: %w", err)
			}
		case Paragraph:
			docxParagraph(out, b)
		case Table:
			docxTable(out, b)
		case Image:
			if err := docxPicture(out, b.PNG); err != nil {
				return fmt.Errorf("docx picture %q: %w", b.Name, err)
			}
		case PageBreak:
			out.AddPageBreak()
		}
	}
	dedupeContentTypes(out)
	return out.Write(w)
}

func docxParagraph(out *docx.RootDoc, b Paragraph) {
	p := out.AddEmptyParagraph()
	for i, line := range strings.Split(b.Text, "\n") {
		if i > 0 {
			p.AddRun().AddBreak(nil)
		}
		run := p.AddText(line)
		if b.Bold {
			run.Bold(true)
		}
	}
}

func docxTable(out *docx.RootDoc, t Table) {
	if len(t.Header) == 0 {
		return
	}
	widths := make([]uint64, len(t.Header))
	widths[0] = docxTableTwips - docxValueColTwips*uint64(len(t.Header)-1)
	for i := 1; i < len(widths); i++ {
		widths[i] = docxValueColTwips
	}

	tbl := out.AddTable()
	tbl.Style("TableGrid")
	tbl.Width(docxTableTwips, stypes.TableWidthDxa)
	tbl.Grid(widths...)

	header := tbl.AddRow()
	for i, h := range t.Header {
		p := header.AddCell().Width(int(widths[i]), stypes.TableWidthDxa).AddEmptyPara()
		p.Justification(stypes.JustificationCenter)
		p.AddText(h).Bold(true)
	}
	for _, row := range t.Rows {
		r := tbl.AddRow()
		for i := range t.Header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			p := r.AddCell().Width(int(widths[i]), stypes.TableWidthDxa).AddParagraph(cell)
			if i > 0 {
				p.Justification(stypes.JustificationRight)
			}
		}
	}
}

// docxPicture adds a centered PNG scaled to the text width. The library
// only reads pictures from disk, so the bytes pass through a temp file.
func docxPicture(out *docx.RootDoc, data []byte) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
	}

	tmp, err := os.CreateTemp("", "proband-chart-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	height := docxTextWidth * units.Inch(cfg.Height) / units.Inch(cfg.Width)
	pic, err := out.AddPicture(tmp.Name(), docxTextWidth, height)
	if err != nil {
		return err
	}
	pic.Para.Justification(stypes.JustificationCenter)
	return nil
}

// dedupeContentTypes drops repeated extension defaults; the library
// registers the image extension once per picture.
func dedupeContentTypes(out *docx.RootDoc) {
	seen := make(map[string]bool)
	defaults := out.ContentType.Default[:0]
	for _, d := range out.ContentType.Default {
		ext := strings.ToLower(d.Extension)
		if seen[ext] {
			continue
		}
		seen[ext] = true
		defaults = append(defaults, d)
	}
	out.ContentType.Default = defaults
}

package report

import (
	"fmt"
	"io"
	"strings"
)

// Format is an output container.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatPDF, FormatDOCX, FormatHTML}

// ParseFormat accepts a format name case-insensitively, with or without a
// leading dot. "word" is accepted for docx.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "pdf":
		return FormatPDF, nil
	case "docx", "word":
		return FormatDOCX, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported report format %q (expected pdf, docx or html)", name)
}

// Extension is the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Renderer serializes a document into one container format.
type Renderer interface {
	Format() Format
	Render(doc *Document, w io.Writer) error
}

// RendererOptions carries format-specific settings.
type RendererOptions struct {
	// FontPath and BoldFontPath select a UTF-8 TrueType font for PDF output.
	// Without them the core Helvetica font is used and text is transliterated.
	FontPath     string
	BoldFontPath string
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format, opts RendererOptions) (Renderer, error) {
	switch format {
	case FormatPDF:
		return NewPDFRenderer(opts.FontPath, opts.BoldFontPath), nil
	case FormatDOCX:
		return DOCXRenderer{}, nil
	case FormatHTML:
		return NewHTMLRenderer()
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

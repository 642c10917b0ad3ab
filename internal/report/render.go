package report

import (
	"embed"
	"encoding/base64"
	"html/template"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Maikl76/Aplikace-data/internal/fsutil"
)

//go:embed template.html
var templateFS embed.FS

// RenderData contains all data needed to render the HTML report.
type RenderData struct {
	Metadata Metadata
	Blocks   []HTMLBlock
	Charts   int
}

// HTMLBlock is a block flattened for the template.
type HTMLBlock struct {
	Kind   string
	Text   string
	Level  int
	Bold   bool
	Header []string
	Rows   [][]string
	Name   string
	Src    template.URL
}

// HTMLRenderer handles HTML report generation.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates a new renderer with the embedded template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	funcMap := template.FuncMap{
		"lines": func(s string) []string {
			return strings.Split(s, "\n")
		},
		"anchor": func(s string) string {
			return strings.Map(func(r rune) rune {
				if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
					return r
				}
				return '-'
			}, strings.ToLower(s))
		},
		"numeric": func(s string) bool {
			return s != "" && strings.Trim(s, "-+.0123456789") == ""
		},
		"num": func(n int) string {
			return message.NewPrinter(language.English).Sprintf("%d", n)
		},
		"heading": func(level int) string {
			switch clampLevel(level) {
			case 1:
				return "h1"
			case 2:
				return "h2"
			}
			return "h3"
		},
	}

	tmplContent, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Format implements Renderer.
func (r *HTMLRenderer) Format() Format { return FormatHTML }

// Render writes the document as a self-contained HTML page.
func (r *HTMLRenderer) Render(doc *Document, w io.Writer) error {
	return r.tmpl.Execute(w, renderData(doc))
}

// RenderToFile generates HTML and writes it to a file.
func (r *HTMLRenderer) RenderToFile(doc *Document, outputPath string) error {
	_, err := fsutil.WriteFile(outputPath, func(w io.Writer) error {
		return r.Render(doc, w)
	})
	return err
}

func renderData(doc *Document) *RenderData {
	data := &RenderData{Metadata: doc.Metadata}
	for _, b := range doc.Blocks {
		var hb HTMLBlock
		switch b := b.(type) {
		case Heading:
			hb = HTMLBlock{Kind: "heading", Text: b.Text, Level: b.Level}
		case Paragraph:
			hb = HTMLBlock{Kind: "paragraph", Text: b.Text, Bold: b.Bold}
		case Table:
			hb = HTMLBlock{Kind: "table", Header: b.Header, Rows: b.Rows}
		case Image:
			data.Charts++
			hb = HTMLBlock{
				Kind: "image",
				Name: b.Name,
				// Chart bytes come from our own renderer, never from input.
				Src: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b.PNG)),
			}
		case PageBreak:
			hb = HTMLBlock{Kind: "break"}
		}
		data.Blocks = append(data.Blocks, hb)
	}
	return data
}

package report

import "time"

// Metadata describes a generated document.
type Metadata struct {
	Institution string    `json:"institution"`
	Identity    string    `json:"identity"`
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
}

// Block is one element of a document. The set of block types is closed.
type Block interface {
	block()
}

// Heading is a section title; Level 1 is the largest.
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Paragraph is body text. Newlines inside Text are line breaks.
type Paragraph struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Table is a grid with a header row.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Image is a rendered chart.
type Image struct {
	Name string `json:"name"`
	PNG  []byte `json:"-"`
}

// PageBreak starts a new page.
type PageBreak struct{}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Table) block()     {}
func (Image) block()     {}
func (PageBreak) block() {}

// Document is the format-independent report: an ordered list of blocks that
// every renderer walks in the same order.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Blocks   []Block  `json:"-"`
}

// Add appends blocks.
func (d *Document) Add(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// Headings returns the text of every heading, in order.
func (d *Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if h, ok := b.(Heading); ok {
			out = append(out, h.Text)
		}
	}
	return out
}

// Images counts the image blocks.
func (d *Document) Images() int {
	n := 0
	for _, b := range d.Blocks {
		if _, ok := b.(Image); ok {
			n++
		}
	}
	return n
}

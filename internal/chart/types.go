package chart

import (
	"fmt"
	"strings"
)

// Style is the kind of chart drawn for a comparison.
type Style string

const (
	StyleBar     Style = "bar"
	StyleLine    Style = "line"
	StyleScatter Style = "scatter"
)

// Styles lists the supported chart styles.
var Styles = []Style{StyleBar, StyleLine, StyleScatter}

// ParseStyle maps a style name to a Style. "grouped-bar" is accepted as an
// alias of bar.
func ParseStyle(name string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bar", "grouped-bar", "grouped_bar":
		return StyleBar, true
	case "line":
		return StyleLine, true
	case "scatter":
		return StyleScatter, true
	}
	return "", false
}

// Request describes one comparison chart: two labelled series over the same
// metric labels.
type Request struct {
	Title          string
	Labels         []string
	Current        []float64
	Reference      []float64
	CurrentLabel   string
	ReferenceLabel string
	Style          string
}

// Validate checks that the series line up with the labels.
func (r Request) Validate() error {
	if len(r.Labels) == 0 {
		return fmt.Errorf("chart %q: no metrics", r.Title)
	}
	if len(r.Current) != len(r.Labels) || len(r.Reference) != len(r.Labels) {
		return fmt.Errorf("chart %q: %d labels but %d current and %d reference values",
			r.Title, len(r.Labels), len(r.Current), len(r.Reference))
	}
	return nil
}

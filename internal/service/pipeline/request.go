package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Maikl76/Aplikace-data/internal/report"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/compare"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Population selects the table a group average is computed over.
type Population string

const (
	// PopulationCurrent averages the loaded table.
	PopulationCurrent Population = "current"
	// PopulationArchive averages every archived measurement.
	PopulationArchive Population = "archive"
)

// ArchivePopulationLabel names the archive population when no label is set.
const ArchivePopulationLabel = "Archive population"

// BasisSpec says what the subject is compared against.
type BasisSpec struct {
	Mode       compare.Mode `json:"mode"`
	Population Population   `json:"population,omitempty"`
	// Label names the reference series in group mode.
	Label string `json:"label,omitempty"`
	// Date picks the historical snapshot; empty means the latest one.
	Date string `json:"date,omitempty"`
}

// Request is one report, briefing or comparison request.
type Request struct {
	Input    string `json:"input"`
	Sheet    string `json:"sheet,omitempty"`
	Identity string `json:"identity,omitempty"`
	// Metrics is the metric selection; nil selects every measurement column.
	Metrics []string `json:"metrics,omitempty"`
	// Groups lists the metric groups to chart; nil charts all of them.
	Groups         []string        `json:"groups,omitempty"`
	Individual     []string        `json:"individual,omitempty"`
	Formats        []report.Format `json:"formats,omitempty"`
	ChartStyle     string          `json:"chart_style,omitempty"`
	ExtendedStats  bool            `json:"extended_stats,omitempty"`
	Basis          BasisSpec       `json:"basis"`
	Recommendation string          `json:"recommendation,omitempty"`
	OutputDir      string          `json:"output_dir,omitempty"`
}

// Validate checks the request. Chart styles are not checked: unknown styles
// fall back to bars when drawn.
func (r *Request) Validate() error {
	var errs []error
	if r.Input == "" {
		errs = append(errs, errors.New("input table is required"))
	}
	switch r.Basis.Mode {
	case "", compare.ModeGroup:
		switch r.Basis.Population {
		case "", PopulationCurrent, PopulationArchive:
		default:
			errs = append(errs, fmt.Errorf("unknown population %q", r.Basis.Population))
		}
	case compare.ModeHistory:
		if r.Basis.Population != "" {
			errs = append(errs, errors.New("population applies to group mode only"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown comparison mode %q", r.Basis.Mode))
	}
	for _, g := range r.Groups {
		if _, ok := models.GroupByName(g); !ok {
			errs = append(errs, fmt.Errorf("unknown metric group %q", g))
		}
	}
	for _, f := range r.Formats {
		if !slices.Contains(report.Formats, f) {
			errs = append(errs, fmt.Errorf("unknown report format %q", f))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
	}
	return nil
}

func (r *Request) mode() compare.Mode {
	if r.Basis.Mode == "" {
		return compare.ModeGroup
	}
	return r.Basis.Mode
}

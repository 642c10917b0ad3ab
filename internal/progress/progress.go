// Package progress draws terminal progress for batch report generation.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar over a batch of subjects.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithWriter draws to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(t *Tracker) {
		t.out = w
	}
}

func newTracker(label string, opts []Option) *Tracker {
	t := &Tracker{label: label, out: os.Stderr}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewSpinner creates a spinner for steps with no known total, such as
// reading a large archive.
func NewSpinner(label string, opts ...Option) *Tracker {
	t := newTracker(label, opts)
	t.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return t
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int, opts ...Option) *Tracker {
	t := newTracker(label, opts)
	t.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return t
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// Describe replaces the label shown next to the bar, e.g. with the subject
// being processed.
func (t *Tracker) Describe(text string) {
	t.bar.Describe(t.label + ": " + text)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishSkipped clears the bar and prints a skip message.
func (t *Tracker) FinishSkipped(reason string) {
	t.FinishSuccess()
	fmt.Fprintf(t.out, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	t.FinishSuccess()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}

package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewTracker(t *testing.T) {
	tests := []struct {
		name  string
		label string
		total int
	}{
		{"standard tracker", "Generating reports", 12},
		{"zero total", "Empty batch", 0},
		{"single subject", "One subject", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(tt.label, tt.total, WithWriter(&bytes.Buffer{}))
			if tracker == nil || tracker.bar == nil {
				t.Fatal("NewTracker() returned nil or has nil bar")
			}
			if tracker.label != tt.label {
				t.Errorf("tracker.label = %q, want %q", tracker.label, tt.label)
			}
		})
	}
}

func TestNewSpinner(t *testing.T) {
	tracker := NewSpinner("Reading archive", WithWriter(&bytes.Buffer{}))
	if tracker.bar == nil {
		t.Fatal("tracker.bar should not be nil")
	}
	tracker.Tick()
	tracker.FinishSuccess()
}

func TestTrackerTickConcurrent(t *testing.T) {
	tracker := NewTracker("Concurrent test", 100, WithWriter(&bytes.Buffer{}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tracker.Tick()
			}
		}()
	}
	wg.Wait()

	if got := tracker.bar.State().CurrentNum; got != 100 {
		t.Errorf("CurrentNum = %d, want 100", got)
	}
	tracker.FinishSuccess()
}

func TestTrackerDescribe(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker("Reports", 2, WithWriter(&buf))
	tracker.Describe("Jan Novak, 1990-01-01")
	tracker.Tick()
	if !strings.Contains(buf.String(), "Reports: Jan Novak, 1990-01-01") {
		t.Errorf("output %q should contain the description", buf.String())
	}
	tracker.FinishSuccess()
}

func TestTrackerFinishMessages(t *testing.T) {
	var buf bytes.Buffer
	NewTracker("Archive", 1, WithWriter(&buf)).FinishSkipped("no archive configured")
	if !strings.Contains(buf.String(), "Archive skipped (no archive configured)") {
		t.Errorf("skip message missing from %q", buf.String())
	}

	buf.Reset()
	NewTracker("Reports", 1, WithWriter(&buf)).FinishError(errors.New("disk full"))
	if !strings.Contains(buf.String(), "Reports error: disk full") {
		t.Errorf("error message missing from %q", buf.String())
	}
}

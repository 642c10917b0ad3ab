package testutil

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/Maikl76/Aplikace-data/internal/chart"
)

func TestWriteTableAndListFiles(t *testing.T) {
	dir := t.TempDir()
	path := WriteTable(t, dir, SubjectsCSV)
	WriteFile(t, filepath.Join(dir, "out", "a.txt"), "a")

	if !FileExists(path) {
		t.Fatalf("%s not written", path)
	}
	files := ListFiles(t, dir)
	if len(files) != 2 || files[0] != filepath.Join(dir, "out", "a.txt") || files[1] != path {
		t.Errorf("ListFiles = %v", files)
	}
}

func TestChartsRecordsRequests(t *testing.T) {
	var c Charts
	data, err := c.Render(chart.Request{Title: "Grip"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("not a PNG: %v", err)
	}
	if c.Calls() != 1 || c.Requests[0].Title != "Grip" {
		t.Errorf("unexpected requests: %+v", c.Requests)
	}
}

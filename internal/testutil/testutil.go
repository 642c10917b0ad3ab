// Package testutil holds fixtures shared by the command, MCP and pipeline
// tests.
package testutil

import (
	"bytes"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/Maikl76/Aplikace-data/internal/chart"
)

// Identities of the rows of SubjectsCSV.
const (
	Jan = "Jan Novak, 1990-01-01"
	Eva = "Eva Mala, 1992-05-05"
)

// SubjectsCSV is a two-subject table. Eva's grip strength is missing.
const SubjectsCSV = `Jmeno,Prijmeni,Narozen,Vek,Vyska,Hmotnost,Sila uchopu,Rychlost podani
Jan,Novak,1990-01-01,30,180,75,45.0,160
Eva,Mala,1992-05-05,28,170,60,,150
`

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// WriteTable writes a CSV subject table named subjects.csv into dir and
// returns its path.
func WriteTable(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "subjects.csv")
	WriteFile(t, path, content)
	return path
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListFiles returns the files under root, sorted.
func ListFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir(%s) error: %v", root, err)
	}
	sort.Strings(files)
	return files
}

// Charts is a chart renderer that draws a blank PNG and records requests.
type Charts struct {
	mu       sync.Mutex
	Requests []chart.Request
}

// Render implements report.ChartRenderer.
func (c *Charts) Render(req chart.Request) ([]byte, error) {
	c.mu.Lock()
	c.Requests = append(c.Requests, req)
	c.mu.Unlock()
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2)))
	return buf.Bytes(), err
}

// Calls returns the number of rendered charts.
func (c *Charts) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Maikl76/Aplikace-data/internal/fsutil"
	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
)

// Artifact is a report written to disk.
type Artifact struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Bytes  int64  `json:"bytes"`
}

// FileName is the deterministic report file name for a subject.
func FileName(id string, format Format) string {
	return "analysis_" + identity.Sanitize(id) + "." + format.Extension()
}

// Write renders doc into dir. The file appears only once rendering has
// fully succeeded.
func Write(doc *Document, r Renderer, dir string) (*Artifact, error) {
	path := filepath.Join(dir, FileName(doc.Metadata.Identity, r.Format()))
	n, err := fsutil.WriteFile(path, func(w io.Writer) error {
		return r.Render(doc, w)
	})
	if err != nil {
		return nil, fmt.Errorf("write %s report: %w", r.Format(), err)
	}
	return &Artifact{Path: path, Format: r.Format(), Bytes: n}, nil
}

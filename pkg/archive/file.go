package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/pkg/models"
	"github.com/Maikl76/Aplikace-data/pkg/tabular"
)

// FileStore keeps the archive in a single xlsx or csv file that is rewritten
// on every append.
type FileStore struct {
	path string
	opts options
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first append.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if _, err := tabular.FormatOf(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path, opts: buildOptions(opts)}, nil
}

// Path returns the archive file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the archive file.
func (s *FileStore) Load(ctx context.Context) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *FileStore) load(ctx context.Context) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoArchive
	}
	return tabular.Load(s.path)
}

// Append reads the whole archive, adds the stamped rows and rewrites it.
func (s *FileStore) Append(ctx context.Context, rows []models.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx)
	switch {
	case errors.Is(err, ErrNoArchive):
		t = models.NewTable()
	case err != nil:
		return err
	}
	for _, r := range stamp(rows, s.opts.clock()) {
		t.Append(r)
	}
	if err := tabular.Save(s.path, t); err != nil {
		return fmt.Errorf("rewrite archive: %w", err)
	}
	s.opts.logger.Info("archive appended",
		zap.String("path", s.path),
		zap.Int("rows", len(rows)),
		zap.Int("total", t.Len()))
	return nil
}

// Snapshots lists the archived measurements of id.
func (s *FileStore) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	t, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshotsOf(t, id), nil
}

// Snapshot returns the archived row of id measured at date.
func (s *FileStore) Snapshot(ctx context.Context, id, date string) (models.Row, error) {
	t, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshotOf(t, id, date)
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

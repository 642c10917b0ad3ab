// Package archive keeps the append-only history of subject measurements.
// Every append stamps the rows with a measurement date and rewrites the
// stored history; appends are serialized per store.
package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// DateLayout formats the measurement date stamp.
const DateLayout = "2006-01-02 15:04:05"

var (
	// ErrNoArchive means no history has been written yet.
	ErrNoArchive = errors.New("no archive data available")
	// ErrSnapshotNotFound means the identity has no row with the given date.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Backend selects the storage implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Store is the historical archive.
type Store interface {
	// Load returns the whole archive.
	Load(ctx context.Context) (*models.Table, error)
	// Append stamps rows with the current date and adds them to the archive.
	Append(ctx context.Context, rows []models.Row) error
	// Snapshots lists the archived measurements of one subject in append order.
	Snapshots(ctx context.Context, id string) ([]Snapshot, error)
	// Snapshot returns the archived row of id measured at date.
	Snapshot(ctx context.Context, id, date string) (models.Row, error)
	Close() error
}

// Snapshot identifies one archived measurement.
type Snapshot struct {
	Identity string `json:"identity"`
	Date     string `json:"date"`
}

type options struct {
	clock  func() time.Time
	logger *zap.Logger
}

// Option configures a store.
type Option func(*options)

// WithClock overrides the clock used for date stamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ParseBackend validates a backend name. An empty name selects the backend
// from the path extension: .db, .sqlite and .sqlite3 use SQLite.
func ParseBackend(name, path string) (Backend, error) {
	switch Backend(strings.ToLower(name)) {
	case BackendFile:
		return BackendFile, nil
	case BackendSQLite:
		return BackendSQLite, nil
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			return BackendSQLite, nil
		}
		return BackendFile, nil
	}
	return "", fmt.Errorf("unknown archive backend %q", name)
}

// Open creates the store for path.
func Open(path string, backend Backend, opts ...Option) (Store, error) {
	switch backend {
	case BackendSQLite:
		return OpenSQLite(path, opts...)
	case BackendFile, "":
		return NewFileStore(path, opts...)
	}
	return nil, fmt.Errorf("unknown archive backend %q", backend)
}

// stamp clones rows and sets their measurement date.
func stamp(rows []models.Row, now time.Time) []models.Row {
	date := now.Format(DateLayout)
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		c := r.Clone()
		c[models.ColMeasuredAt] = models.Cell{Raw: date}
		out[i] = c
	}
	return out
}

func snapshotsOf(t *models.Table, id string) []Snapshot {
	var out []Snapshot
	for _, r := range t.Rows {
		if identity.Resolve(r) == id {
			out = append(out, Snapshot{Identity: id, Date: r.String(models.ColMeasuredAt)})
		}
	}
	return out
}

// snapshotOf returns the last row of id stamped with date, so that two
// appends within the same second resolve to the newer one.
func snapshotOf(t *models.Table, id, date string) (models.Row, error) {
	for i := len(t.Rows) - 1; i >= 0; i-- {
		r := t.Rows[i]
		if identity.Resolve(r) == id && r.String(models.ColMeasuredAt) == date {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s at %s", ErrSnapshotNotFound, id, date)
}

// Latest returns the most recent snapshot, or false when there is none.
// Ties go to the later entry.
func Latest(snaps []Snapshot) (Snapshot, bool) {
	if len(snaps) == 0 {
		return Snapshot{}, false
	}
	best := snaps[0]
	for _, s := range snaps[1:] {
		if s.Date >= best.Date {
			best = s
		}
	}
	return best, true
}

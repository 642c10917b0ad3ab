package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// SQLiteStore keeps each archived row as a JSON list of column/value pairs.
// Raw cell text is stored so values round-trip exactly.
type SQLiteStore struct {
	db   *sql.DB
	opts options
	mu   sync.Mutex
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("archive: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	if _, err := db.Exec(`pragma journal_mode=WAL; pragma synchronous=NORMAL; pragma busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: pragmas: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, opts: buildOptions(opts)}, nil
}

func ensureSchema(db *sql.DB) error {
	schema := `
	create table if not exists measurements (
		id integer primary key autoincrement,
		identity text not null,
		measured_at text not null,
		cells text not null
	);
	create index if not exists idx_measurements_identity on measurements(identity, measured_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("archive: schema: %w", err)
	}
	return nil
}

// Load returns every archived row in insertion order. Columns appear in the
// order they were first seen.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query(ctx, `select cells from measurements order by id`)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) (*models.Table, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	t := models.NewTable()
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		var pairs [][2]string
		if err := json.Unmarshal([]byte(cells), &pairs); err != nil {
			return nil, fmt.Errorf("archive: decode row: %w", err)
		}
		row := make(models.Row, len(pairs))
		for _, p := range pairs {
			t.AddColumn(p[0])
			row[p[0]] = models.TextCell(p[1])
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: rows: %w", err)
	}
	if t.Len() == 0 {
		return nil, ErrNoArchive
	}
	return t, nil
}

// Append inserts the stamped rows in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, rows []models.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamped := stamp(rows, s.opts.clock())
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `insert into measurements(identity, measured_at, cells) values(?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range stamped {
		cells, err := json.Marshal(encodeRow(r))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive: encode row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, identity.Resolve(r), r.String(models.ColMeasuredAt), string(cells)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	s.opts.logger.Info("archive appended", zap.String("backend", string(BackendSQLite)), zap.Int("rows", len(rows)))
	return nil
}

// encodeRow lists the row's cells in a stable order: identification columns
// first, then the rest by name.
func encodeRow(r models.Row) [][2]string {
	t := models.NewTable()
	for _, col := range models.IdentificationColumns {
		if _, ok := r[col]; ok {
			t.AddColumn(col)
		}
	}
	t.Append(r)
	out := make([][2]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		c := r[col]
		raw := c.Raw
		if c.Numeric && raw == "" {
			raw = models.NumberCell(c.Number).Raw
		}
		out = append(out, [2]string{col, raw})
	}
	return out
}

// empty reports whether nothing was archived yet.
func (s *SQLiteStore) empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from measurements`).Scan(&n); err != nil {
		return false, fmt.Errorf("archive: count: %w", err)
	}
	return n == 0, nil
}

// Snapshots lists the archived measurements of id. An empty database
// reports ErrNoArchive like a missing archive file.
func (s *SQLiteStore) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if empty, err := s.empty(ctx); err != nil {
		return nil, err
	} else if empty {
		return nil, ErrNoArchive
	}

	rows, err := s.db.QueryContext(ctx, `select measured_at from measurements where identity = ? order by id`, id)
	if err != nil {
		return nil, fmt.Errorf("archive: query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		out = append(out, Snapshot{Identity: id, Date: date})
	}
	return out, rows.Err()
}

// Snapshot returns the archived row of id measured at date. When several
// rows share the stamp the newest one wins.
func (s *SQLiteStore) Snapshot(ctx context.Context, id, date string) (models.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if empty, err := s.empty(ctx); err != nil {
		return nil, err
	} else if empty {
		return nil, ErrNoArchive
	}

	t, err := s.query(ctx, `select cells from measurements where identity = ? and measured_at = ? order by id desc limit 1`, id, date)
	if errors.Is(err, ErrNoArchive) {
		return nil, fmt.Errorf("%w: %s at %s", ErrSnapshotNotFound, id, date)
	}
	if err != nil {
		return nil, err
	}
	return t.Rows[0], nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

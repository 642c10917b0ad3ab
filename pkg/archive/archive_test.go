package archive

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maikl76/Aplikace-data/pkg/analyzer/identity"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

func fixedClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[min(i, len(times)-1)]
		i++
		return t
	}
}

func janRow(grip float64) models.Row {
	return models.Row{
		models.ColName:                       models.TextCell("Jan"),
		models.ColSurname:                    models.TextCell("Novak"),
		models.ColBirthDate:                  models.TextCell("1990-01-01"),
		"Sila uchopu":                        models.NumberCell(grip),
		models.InternalRotationConcentric210: models.NumberCell(40.123456789),
		models.RatioIRER210:                  models.NumberCell(math.Inf(1)),
	}
}

var storeKinds = []string{"xlsx", "csv", "sqlite"}

func newStore(t *testing.T, kind string, clock func() time.Time) Store {
	t.Helper()
	dir := t.TempDir()
	switch kind {
	case "sqlite":
		db, err := OpenSQLite(filepath.Join(dir, "history.db"), WithClock(clock))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return db
	default:
		s, err := NewFileStore(filepath.Join(dir, "history."+kind), WithClock(clock))
		require.NoError(t, err)
		return s
	}
}

func TestEmptyArchive(t *testing.T) {
	for _, kind := range storeKinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, time.Now)
			_, err := s.Load(context.Background())
			assert.ErrorIs(t, err, ErrNoArchive)
		})
	}
}

func TestAppendRoundTripIsExact(t *testing.T) {
	first := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	ctx := context.Background()
	id := "Jan Novak, 1990-01-01"

	for _, kind := range storeKinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, fixedClock(first, second))
			row := janRow(45.123456789012345)
			require.NoError(t, s.Append(ctx, []models.Row{row}))
			require.NoError(t, s.Append(ctx, []models.Row{janRow(47.5)}))

			snaps, err := s.Snapshots(ctx, id)
			require.NoError(t, err)
			require.Len(t, snaps, 2)
			assert.Equal(t, "2024-03-01 09:30:00", snaps[0].Date)

			latest, ok := Latest(snaps)
			require.True(t, ok)
			assert.Equal(t, "2024-03-02 09:30:00", latest.Date)

			snap, err := s.Snapshot(ctx, id, snaps[0].Date)
			require.NoError(t, err)
			assert.Equal(t, id, identity.Resolve(snap))
			for _, col := range []string{"Sila uchopu", models.InternalRotationConcentric210} {
				want, _ := row.Float(col)
				got, ok := snap.Float(col)
				require.True(t, ok, col)
				assert.Equal(t, want, got, col)
			}
			ratio, ok := snap.Float(models.RatioIRER210)
			require.True(t, ok)
			assert.True(t, math.IsInf(ratio, 1))

			_, err = s.Snapshot(ctx, id, "1999-01-01 00:00:00")
			assert.ErrorIs(t, err, ErrSnapshotNotFound)

			tbl, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, tbl.Len())
			assert.True(t, tbl.HasColumn(models.ColMeasuredAt))
		})
	}
}

func TestEmptyArchiveSnapshots(t *testing.T) {
	ctx := context.Background()
	for _, kind := range storeKinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, time.Now)
			_, err := s.Snapshots(ctx, "Jan Novak, 1990-01-01")
			assert.ErrorIs(t, err, ErrNoArchive)
			_, err = s.Snapshot(ctx, "Jan Novak, 1990-01-01", "2024-03-01 09:30:00")
			assert.ErrorIs(t, err, ErrNoArchive)
		})
	}
}

func TestSameSecondAppendsResolveToNewest(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	ctx := context.Background()
	id := "Jan Novak, 1990-01-01"

	for _, kind := range storeKinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, fixedClock(at))
			require.NoError(t, s.Append(ctx, []models.Row{janRow(40)}))
			require.NoError(t, s.Append(ctx, []models.Row{janRow(50)}))

			snaps, err := s.Snapshots(ctx, id)
			require.NoError(t, err)
			latest, ok := Latest(snaps)
			require.True(t, ok)

			snap, err := s.Snapshot(ctx, id, latest.Date)
			require.NoError(t, err)
			grip, ok := snap.Float("Sila uchopu")
			require.True(t, ok)
			assert.Equal(t, 50.0, grip)
		})
	}
}

func TestAppendDoesNotModifyInput(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "a.csv"))
	require.NoError(t, err)
	row := janRow(1)
	require.NoError(t, s.Append(context.Background(), []models.Row{row}))
	_, stamped := row[models.ColMeasuredAt]
	assert.False(t, stamped)
}

func TestConcurrentAppendsAreSerialized(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "a.csv"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(context.Background(), []models.Row{janRow(float64(i))}))
		}(i)
	}
	wg.Wait()

	tbl, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, tbl.Len())
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name, path string
		want       Backend
		wantErr    bool
	}{
		{"", "history.xlsx", BackendFile, false},
		{"", "history.db", BackendSQLite, false},
		{"auto", "h.sqlite3", BackendSQLite, false},
		{"file", "history.db", BackendFile, false},
		{"SQLite", "x.xlsx", BackendSQLite, false},
		{"mongo", "x", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.name, tt.path)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestOpenRejectsUnsupportedFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "history.txt"), BackendFile)
	assert.Error(t, err)
}

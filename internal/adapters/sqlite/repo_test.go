package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

func newTestRepo(t *testing.T) *LocationRepo {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "traveltip.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() }) //nolint:errcheck
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/subdir/test.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestOpen_WALMode(t *testing.T) {
	r := newTestRepo(t)

	var mode string
	require.NoError(t, r.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.NoError(t, r.Ping(context.Background()))
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	// Hold the first connection so the pool must open a second one.
	c1, err := r.db.Conn(ctx)
	require.NoError(t, err)
	defer c1.Close()
	c2, err := r.db.Conn(ctx)
	require.NoError(t, err)
	defer c2.Close()

	for i, c := range []*sql.Conn{c1, c2} {
		var timeout, sync int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&sync))
		assert.Equal(t, 5000, timeout, "conn %d busy_timeout", i)
		assert.Equal(t, 1, sync, "conn %d synchronous (NORMAL)", i)
	}
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode%28WAL%29&_pragma=busy_timeout%285000%29&_pragma=synchronous%28NORMAL%29",
		withPragmas("a.db"))
	assert.Contains(t, withPragmas("file:a.db?mode=rwc"), "mode=rwc&_pragma=")
}

func TestLocationRepo_EmptyLoad(t *testing.T) {
	r := newTestRepo(t)

	got, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocationRepo_SaveAndLoad_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	in := []domain.Location{
		{ID: "z", Name: "Zubizuri", Rate: 4, Geo: domain.Geo{Lat: 43.2686, Lng: -2.9284, Address: "Campo Volantín"},
			CreatedAt: 1700000000000, UpdatedAt: 1700000000000},
		{ID: "a", Name: "Abando", Rate: 3, Geo: domain.Geo{Lat: 43.2614, Lng: -2.9273},
			CreatedAt: 1700000001000, UpdatedAt: 1700000005000},
	}
	require.NoError(t, r.SaveAll(ctx, in))

	got, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestLocationRepo_SaveAll_Replaces(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	require.NoError(t, r.SaveAll(ctx, []domain.Location{
		{ID: "a", Name: "A", Rate: 1, CreatedAt: 1, UpdatedAt: 1},
		{ID: "b", Name: "B", Rate: 2, CreatedAt: 2, UpdatedAt: 2},
	}))
	require.NoError(t, r.SaveAll(ctx, []domain.Location{
		{ID: "b", Name: "B2", Rate: 5, CreatedAt: 2, UpdatedAt: 9},
	}))

	got, err := r.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B2", got[0].Name)
	assert.Equal(t, int64(9), got[0].UpdatedAt)
}

func TestLocationRepo_SaveAll_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	orig := []domain.Location{{ID: "a", Name: "A", Rate: 1, CreatedAt: 1, UpdatedAt: 1}}
	require.NoError(t, r.SaveAll(ctx, orig))

	// Duplicate primary key fails the second insert.
	err := r.SaveAll(ctx, []domain.Location{
		{ID: "x", Name: "X", Rate: 1},
		{ID: "x", Name: "X", Rate: 1},
	})
	require.Error(t, err)

	got, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestLocationRepo_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	r1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r1.Migrate(ctx))
	require.NoError(t, r1.SaveAll(ctx, []domain.Location{{ID: "a", Name: "A", Rate: 2, CreatedAt: 5, UpdatedAt: 5}}))
	require.NoError(t, r1.Close())

	r2, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { r2.Close() }) //nolint:errcheck
	require.NoError(t, r2.Migrate(ctx))

	got, err := r2.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

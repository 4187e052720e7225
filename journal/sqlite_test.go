package journal

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/etnz/capgains"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, table := range []string{"runs", "realizations", "rejections", "totals"} {
		assert.True(t, found[table], "table %s", table)
	}
}

func TestSQLiteRequiresARun(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	assert.ErrorIs(t, j.Realized(capgains.Realization{}), ErrNoRun)
	assert.ErrorIs(t, j.Totals(nil), ErrNoRun)
}

func TestSQLiteRun(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Begin("trades.csv", "USD"))
	p := run(t, j)
	id := j.RunID()
	require.NoError(t, j.Close())

	// reopen, as the runs and run commands do.
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "trades.csv", runs[0].Source)
	assert.Equal(t, "USD", runs[0].Currency)
	assert.Equal(t, 2, runs[0].Realized)
	assert.Equal(t, 1, runs[0].Rejected)
	assert.False(t, runs[0].Created.IsZero())

	totals, err := j.RunTotals(id)
	require.NoError(t, err)
	want := p.Summary()
	require.Len(t, totals, len(want))
	for i := range want {
		assert.Equal(t, want[i].Symbol, totals[i].Symbol)
		assert.True(t, want[i].Gain.Equal(totals[i].Gain), "gain of %s: %v want %v", want[i].Symbol, totals[i].Gain, want[i].Gain)
	}

	recs, err := j.Realizations(id)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Seq)
	assert.Equal(t, "2023-03-01", recs[0].Date.String())
	assert.Equal(t, "AAPL", recs[0].Symbol)
	assert.True(t, recs[0].Quantity.Equal(capgains.Q(120)))
	assert.True(t, recs[0].CostBasis.Equal(capgains.M(18100, "USD")))
	assert.True(t, recs[0].Gain.Equal(capgains.M(1100, "USD")))
	assert.Equal(t, 2, recs[0].Lots)
	assert.Equal(t, 3, recs[1].Seq) // the rejection took seq 2
	assert.True(t, recs[1].Gain.Equal(capgains.M(-100, "USD")))
}

func TestSQLiteSeveralRuns(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Begin("a.csv", "USD"))
	run(t, j)
	first := j.RunID()
	require.NoError(t, j.Begin("b.csv", "USD"))
	run(t, j)
	second := j.RunID()
	assert.NotEqual(t, first, second)

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	recs, err := j.Realizations(second)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Seq)
}

func TestSQLiteRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.RunTotals("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = j.Realizations("nonexistent")
	assert.Error(t, err)
}

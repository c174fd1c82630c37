package repository

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T, path string) *Journal {
	t.Helper()
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	j := New(db)
	require.NoError(t, j.Init(context.Background()))
	return j
}

func TestJournalRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, filepath.Join(t.TempDir(), "db", "journal.db"))

	require.NoError(t, j.Record(ctx, Entry{Op: OpAddLine, ObjectID: "a", Editor: "alice", Payload: `{"id":"a"}`}))
	require.NoError(t, j.Record(ctx, Entry{Op: OpPosition, ObjectID: "a", Editor: "bob"}))
	require.NoError(t, j.Record(ctx, Entry{Op: OpSelect, Editor: "alice"}))

	entries, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, OpAddLine, entries[0].Op)
	assert.Equal(t, "alice", entries[0].Editor)
	assert.Equal(t, `{"id":"a"}`, entries[0].Payload)
	assert.NotEmpty(t, entries[0].CreatedAt)
	assert.Equal(t, OpSelect, entries[2].Op)
	assert.Less(t, entries[0].Seq, entries[1].Seq)
}

func TestJournalListLimitKeepsNewest(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, filepath.Join(t.TempDir(), "journal.db"))

	for _, op := range []Op{OpAddLine, OpAddPlane, OpRemove, OpReset} {
		require.NoError(t, j.Record(ctx, Entry{Op: op}))
	}

	entries, err := j.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, OpRemove, entries[0].Op)
	assert.Equal(t, OpReset, entries[1].Op)
}

func TestJournalCount(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, filepath.Join(t.TempDir(), "journal.db"))

	require.NoError(t, j.Record(ctx, Entry{Op: OpAddPlane, ObjectID: "p"}))
	require.NoError(t, j.Record(ctx, Entry{Op: OpRotation, ObjectID: "p"}))
	require.NoError(t, j.Record(ctx, Entry{Op: OpAddLine, ObjectID: "l"}))

	n, err := j.Count(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = j.Count(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJournalInitStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	first := openTestJournal(t, path)
	require.NoError(t, first.Record(ctx, Entry{Op: OpAddLine, ObjectID: "old"}))

	second := openTestJournal(t, path)
	entries, err := second.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, second.Ping(ctx))
}

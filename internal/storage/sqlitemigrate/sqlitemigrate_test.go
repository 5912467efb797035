package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise see its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestApplyRecordsOnce(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()
	files := fstest.MapFS{
		"001_items.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"002_tags.sql":  {Data: []byte("CREATE TABLE tags(id TEXT PRIMARY KEY);")},
		"notes.txt":     {Data: []byte("ignored")},
	}

	require.NoError(t, Apply(ctx, db, files, ""))
	require.NoError(t, Apply(ctx, db, files, ""))

	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='items'"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='tags'"))
}

func TestApplyLeavesFailedMigrationUnrecorded(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	bad := fstest.MapFS{"001_bad.sql": {Data: []byte("CREAT TABLE broken(id INT);")}}
	require.Error(t, Apply(ctx, db, bad, ""))
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))

	good := fstest.MapFS{"001_bad.sql": {Data: []byte("CREATE TABLE broken(id INTEGER PRIMARY KEY);")}}
	require.NoError(t, Apply(ctx, db, good, ""))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestApplyKeysByRoot(t *testing.T) {
	db := openMemoryDB(t)
	files := fstest.MapFS{"game/001_rows.sql": {Data: []byte("CREATE TABLE rows_a(id TEXT);")}}

	require.NoError(t, Apply(context.Background(), db, files, "game"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM schema_migrations WHERE name = ?", "game/001_rows.sql"))
}

func TestApplyRequiresDB(t *testing.T) {
	assert.Error(t, Apply(context.Background(), nil, fstest.MapFS{}, ""))
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nA\n", UpSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	assert.Equal(t, "\nA", UpSection("-- +migrate Up\nA"))
	assert.Equal(t, "A", UpSection("A"))
}

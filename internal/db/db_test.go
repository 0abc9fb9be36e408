package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	d, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "open.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	assert.Equal(t, DriverSQLite, d.Driver)
	assert.NoError(t, d.Ping())

	var mode string
	require.NoError(t, d.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{"", DriverSQLite, false},
		{"sqlite", DriverSQLite, false},
		{"SQLite", DriverSQLite, false},
		{"postgres", DriverPostgres, false},
		{"pgx", DriverPostgres, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDriver(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRebind(t *testing.T) {
	q := "UPDATE items SET name = ?, price = ? WHERE id = ?"

	assert.Equal(t, q, Rebind(DriverSQLite, q))
	assert.Equal(t, "UPDATE items SET name = $1, price = $2 WHERE id = $3", Rebind(DriverPostgres, q))
	assert.Equal(t, "SELECT 1", Rebind(DriverPostgres, "SELECT 1"))
}

func TestMigrationsApply(t *testing.T) {
	d := NewTestDB(t)

	var tableName string
	err := d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='items'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "items", tableName)

	version, dirty, err := Version(d)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running again is a no-op.
	assert.NoError(t, Migrate(d))
}

func TestItemsDefaults(t *testing.T) {
	d := NewTestDB(t)

	_, err := d.Exec("INSERT INTO items (name, price) VALUES ('Bananas', 5)")
	require.NoError(t, err)

	var (
		image   string
		deleted bool
		msg     *string
	)
	err = d.QueryRow("SELECT image, deleted, msg FROM items WHERE name = 'Bananas'").Scan(&image, &deleted, &msg)
	require.NoError(t, err)
	assert.Equal(t, "./static/images/box.jpg", image)
	assert.False(t, deleted)
	assert.Nil(t, msg)
}

func TestReset(t *testing.T) {
	d := NewTestDB(t)

	_, err := d.Exec("INSERT INTO items (name, price) VALUES ('Bananas', 5)")
	require.NoError(t, err)

	require.NoError(t, Reset(d))

	var count int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
	assert.Zero(t, count)
}

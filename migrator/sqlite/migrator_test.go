package sqlite

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	// applied migrations are skipped on the second run
	require.NoError(t, Migrate(db))

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM wfh_requests`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	var objects int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE name IN ('wfh_requests', 'idx_wfh_requests_status')
	`).Scan(&objects)
	require.NoError(t, err)
	assert.Equal(t, 2, objects)
}

package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/model"
)

func TestOpen_SQLiteMigrateAndReset(t *testing.T) {
	gormDB, err := Open("sqlite", filepath.Join(t.TempDir(), "tracker.db"), nil, "error")
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB))
	for _, m := range Models() {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}

	require.NoError(t, gormDB.Create(&model.User{
		Username: "admin", Email: "admin@example.com", PasswordHash: "x", FullName: "Admin", Role: model.RoleAdmin,
	}).Error)

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.User{}))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn", nil, "")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:a.db?mode=rwc"))
	assert.Equal(t, "a.db?_foreign_keys=off", sqliteDSN("a.db?_foreign_keys=off"))
}

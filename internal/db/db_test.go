package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	gormDB, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestMigrate_Reset(t *testing.T) {
	gormDB, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB, false))
	for _, m := range Models() {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}

	require.NoError(t, gormDB.Exec("INSERT INTO users (username, email, password_hash, role) VALUES ('a', 'a@x.com', 'h', 'customer')").Error)
	require.NoError(t, Migrate(gormDB, true))

	var count int64
	require.NoError(t, gormDB.Table("users").Count(&count).Error)
	assert.Zero(t, count)
}

// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"storefront/internal/db"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "storefront.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"testing"

	"quizhub/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated in-memory database that lives for the duration of t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:?_foreign_keys=on", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// Use installs db as the global handle used by the HTTP controllers and
// restores the previous one when t ends.
func Use(t testing.TB, db *gorm.DB) {
	t.Helper()
	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = prev })
}

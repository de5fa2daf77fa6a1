// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"roottrack-api/internal/infrastructure/database"
	"roottrack-api/internal/infrastructure/database/transaction"
)

// NewSQLite returns a migrated in-memory database private to t.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	// A private :memory: database lives as long as its single connection.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrateEntities(context.Background(), db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// NewDatabase wraps NewSQLite for repositories.
func NewDatabase(t testing.TB) *transaction.Database {
	t.Helper()
	return transaction.NewDatabase(NewSQLite(t))
}

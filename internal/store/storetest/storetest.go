// Package storetest opens migrated, seeded databases for tests.
package storetest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/datawizard/backend/internal/db"
	"github.com/datawizard/backend/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens a database for tests.
// When TEST_DATABASE_URL is set it connects to PostgreSQL; otherwise it
// opens a fresh SQLite file in the test's temp dir. The schema is migrated
// and the default catalog seeded.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	var gdb *gorm.DB
	var err error
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err, "open postgres test db")
		cleanupPostgresDB(gdb)
		t.Cleanup(func() { cleanupPostgresDB(gdb) })
	} else {
		path := filepath.Join(t.TempDir(), "test.db")
		gdb, err = gorm.Open(sqlite.Open(db.SQLiteDSN(path)), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err, "open sqlite test db")
	}

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(gdb), "migrate schema")
	require.NoError(t, store.SeedDefaultCatalog(context.Background(), gdb), "seed catalog")
	return gdb
}

// NewStore returns a GormStore over a fresh test database.
func NewStore(t testing.TB) *store.GormStore {
	t.Helper()
	return store.NewGormStore(OpenDB(t))
}

// cleanupPostgresDB deletes all job rows so tests are isolated.
// Order matters: respect foreign key constraints.
func cleanupPostgresDB(gdb *gorm.DB) {
	for _, tbl := range []string{"output_files", "history", "output_format_preferences"} {
		gdb.Exec("DELETE FROM " + tbl)
	}
}

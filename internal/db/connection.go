package db

import (
	"fmt"

	"github.com/datawizard/backend/internal/config"
	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the database selected by DB_DRIVER.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// one writer at a time; concurrent jobs would otherwise hit SQLITE_BUSY
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Info("Database connected successfully", map[string]interface{}{
		"driver": cfg.DBDriver,
	})
	return gdb, nil
}

// SQLiteDSN enables foreign keys so output_files cascade with history.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// AutoMigrate creates or updates every table, catalog tables first.
func AutoMigrate(gdb *gorm.DB) error {
	tables := []interface{}{
		&models.FileType{},
		&models.OutputFormat{},
		&models.History{},
		&models.OutputFile{},
		&models.OutputFormatPreference{},
	}
	for _, table := range tables {
		if err := gdb.AutoMigrate(table); err != nil {
			return fmt.Errorf("migrate %T: %w", table, err)
		}
	}
	logger.Info("All database migrations completed successfully", map[string]interface{}{
		"tables": len(tables),
	})
	return nil
}

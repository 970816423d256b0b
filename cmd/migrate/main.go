package main

import (
	"github.com/datawizard/backend/internal/config"
	"github.com/datawizard/backend/internal/db"
	"github.com/datawizard/backend/internal/logger"
)

func main() {
	cfg := config.LoadConfig()
	logger.Initialize(cfg.LogLevel, cfg.LogFile)

	gdb, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Running database migrations...", nil)
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("Migration failed", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Database migrations completed successfully", nil)
}

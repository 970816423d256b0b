package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/datawizard/backend/internal/config"
	"github.com/datawizard/backend/internal/db"
	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
)

// catalogFile is the layout of data/reference-catalog.json.
type catalogFile struct {
	FileTypes     []models.FileType     `json:"fileTypes"`
	OutputFormats []models.OutputFormat `json:"outputFormats"`
}

func main() {
	path := flag.String("catalog", "data/reference-catalog.json", "reference catalog JSON file")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Initialize(cfg.LogLevel, cfg.LogFile)

	gdb, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("Migration failed", map[string]interface{}{"error": err.Error()})
	}

	catalog, err := loadCatalog(*path)
	if err != nil {
		logger.Fatal("Failed to read reference catalog", map[string]interface{}{"path": *path, "error": err.Error()})
	}

	if err := store.SeedCatalog(context.Background(), gdb, catalog.FileTypes, catalog.OutputFormats); err != nil {
		logger.Fatal("Failed to seed reference catalog", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Reference catalog seeded", map[string]interface{}{
		"file_types":     len(catalog.FileTypes),
		"output_formats": len(catalog.OutputFormats),
	})
}

// loadCatalog reads path, falling back to the built-in catalog when the
// file does not exist. The OTHER file type is required.
func loadCatalog(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Catalog file not found, using built-in defaults", map[string]interface{}{"path": path})
		return &catalogFile{FileTypes: models.DefaultFileTypes, OutputFormats: models.DefaultOutputFormats}, nil
	}
	if err != nil {
		return nil, err
	}

	var c catalogFile
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	for _, ft := range c.FileTypes {
		if ft.Name == models.FileTypeOther {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("catalog has no %s file type", models.FileTypeOther)
}

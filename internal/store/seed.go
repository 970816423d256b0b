package store

import (
	"context"
	"fmt"

	"github.com/datawizard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCatalog inserts the reference rows; existing ids are left untouched.
func SeedCatalog(ctx context.Context, db *gorm.DB, fileTypes []models.FileType, formats []models.OutputFormat) error {
	if len(fileTypes) > 0 {
		rows := append([]models.FileType(nil), fileTypes...)
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("seed file types: %w", err)
		}
	}
	if len(formats) > 0 {
		rows := append([]models.OutputFormat(nil), formats...)
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("seed output formats: %w", err)
		}
	}
	return nil
}

// SeedDefaultCatalog seeds the built-in file types and output formats.
func SeedDefaultCatalog(ctx context.Context, db *gorm.DB) error {
	return SeedCatalog(ctx, db, models.DefaultFileTypes, models.DefaultOutputFormats)
}

package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/datawizard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of GORM (Postgres or SQLite).
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying connection.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) FileTypeID(ctx context.Context, name string) (int, error) {
	return s.lookupID(ctx, &models.FileType{}, name)
}

func (s *GormStore) OutputFormatID(ctx context.Context, name string) (int, error) {
	return s.lookupID(ctx, &models.OutputFormat{}, name)
}

func (s *GormStore) lookupID(ctx context.Context, model interface{}, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNotFound
	}
	var ids []int
	err := s.db.WithContext(ctx).
		Model(model).
		Where("UPPER(name) = UPPER(?)", name).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}

// CreateHistory inserts a running record and fills in its id.
func (s *GormStore) CreateHistory(ctx context.Context, h *models.History) error {
	h.IsSuccess = nil
	h.ProcessingTimeMs = nil
	if h.ProcessDate.IsZero() {
		h.ProcessDate = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(h).Error
}

// FinalizeHistory only touches rows that are still running, so a second
// finalize of the same id affects nothing.
func (s *GormStore) FinalizeHistory(ctx context.Context, id int64, success bool, processingTimeMs int64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.History{}).
		Where("id = ? AND is_success IS NULL", id).
		Updates(map[string]interface{}{
			"is_success":         success,
			"processing_time_ms": processingTimeMs,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) GetHistory(ctx context.Context, id int64) (*models.History, error) {
	var h models.History
	err := s.db.WithContext(ctx).
		Preload("InputFileType").
		Preload("OutputFormat").
		First(&h, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// RecentHistory returns the user's records, most recent first.
func (s *GormStore) RecentHistory(ctx context.Context, userID int64, limit int) ([]models.History, error) {
	var items []models.History
	err := s.db.WithContext(ctx).
		Preload("InputFileType").
		Preload("OutputFormat").
		Where("user_id = ?", userID).
		Order("process_date DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// FileTypeStats counts the user's jobs per input file type.
func (s *GormStore) FileTypeStats(ctx context.Context, userID int64) ([]models.FileTypeStat, error) {
	var stats []models.FileTypeStat
	err := s.db.WithContext(ctx).
		Table("history").
		Select("COALESCE(file_types.name, 'UNKNOWN') AS file_type, COUNT(*) AS usage_count").
		Joins("LEFT JOIN file_types ON file_types.id = history.input_file_type_id").
		Where("history.user_id = ?", userID).
		Group("file_types.name").
		Order("usage_count DESC, file_type ASC").
		Scan(&stats).Error
	return stats, err
}

func (s *GormStore) GetPreference(ctx context.Context, userID int64) (*models.OutputFormatPreference, error) {
	var p models.OutputFormatPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPreference inserts or overwrites the row keyed on user_id.
func (s *GormStore) UpsertPreference(ctx context.Context, p *models.OutputFormatPreference) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"format", "updated_at"}),
		}).
		Create(p).Error
}

func (s *GormStore) CreateOutputFile(ctx context.Context, f *models.OutputFile) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error
}

func (s *GormStore) OutputFilesForHistory(ctx context.Context, historyID int64) ([]models.OutputFile, error) {
	var files []models.OutputFile
	err := s.db.WithContext(ctx).
		Where("history_id = ?", historyID).
		Order("id ASC").
		Find(&files).Error
	return files, err
}

// RecentFiles returns output files of the user's jobs, newest first.
func (s *GormStore) RecentFiles(ctx context.Context, userID int64, limit int) ([]models.OutputFile, error) {
	var files []models.OutputFile
	err := s.db.WithContext(ctx).
		Select("output_files.*").
		Joins("JOIN history ON history.id = output_files.history_id").
		Where("history.user_id = ?", userID).
		Preload("History").
		Order("output_files.created_at DESC, output_files.id DESC").
		Limit(limit).
		Find(&files).Error
	return files, err
}

package services

import (
	"context"
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHistoryLimit     = 10
	DefaultRecentFilesLimit = 4
	MaxListLimit            = 100
)

// HistoryItem is the list view of one history record.
type HistoryItem struct {
	HistoryID        int64               `json:"historyId"`
	InputType        string              `json:"inputType"`
	OutputFormat     string              `json:"outputFormat"`
	PromptText       string              `json:"promptText"`
	ProcessType      string              `json:"processType"`
	ProcessDate      time.Time           `json:"processDate"`
	ProcessingTimeMs *int64              `json:"processingTimeMs"`
	IsSuccess        *bool               `json:"isSuccess"`
	State            models.HistoryState `json:"state"`
}

// Dashboard is the per-user overview. Sections that failed to load are empty.
type Dashboard struct {
	PreferredFormat string                `json:"preferredFormat"`
	RecentHistory   []HistoryItem         `json:"recentHistory"`
	RecentFiles     []models.OutputFile   `json:"recentFiles"`
	FileTypeStats   []models.FileTypeStat `json:"fileTypeStats"`
}

// HistoryService answers the read-side queries over the audit trail.
type HistoryService struct {
	histories   store.Histories
	artifacts   store.Artifacts
	preferences *PreferenceStore
}

func NewHistoryService(histories store.Histories, artifacts store.Artifacts, preferences *PreferenceStore) *HistoryService {
	return &HistoryService{histories: histories, artifacts: artifacts, preferences: preferences}
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func (s *HistoryService) RecentHistory(ctx context.Context, userID int64, limit int) ([]HistoryItem, error) {
	rows, err := s.histories.RecentHistory(ctx, userID, clampLimit(limit, DefaultHistoryLimit))
	if err != nil {
		return nil, err
	}
	items := make([]HistoryItem, 0, len(rows))
	for i := range rows {
		items = append(items, toHistoryItem(&rows[i]))
	}
	return items, nil
}

func (s *HistoryService) RecentFiles(ctx context.Context, userID int64, limit int) ([]models.OutputFile, error) {
	files, err := s.artifacts.RecentFiles(ctx, userID, clampLimit(limit, DefaultRecentFilesLimit))
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []models.OutputFile{}
	}
	return files, nil
}

func (s *HistoryService) FileTypeStats(ctx context.Context, userID int64) ([]models.FileTypeStat, error) {
	stats, err := s.histories.FileTypeStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []models.FileTypeStat{}
	}
	return stats, nil
}

// Dashboard loads every section concurrently.
func (s *HistoryService) Dashboard(ctx context.Context, userID int64) *Dashboard {
	d := &Dashboard{
		RecentHistory: []HistoryItem{},
		RecentFiles:   []models.OutputFile{},
		FileTypeStats: []models.FileTypeStat{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.PreferredFormat = s.preferences.Get(gctx, userID)
		return nil
	})
	g.Go(func() error {
		items, err := s.RecentHistory(gctx, userID, DefaultHistoryLimit)
		if err != nil {
			logSectionFailure("recent_history", userID, err)
			return nil
		}
		d.RecentHistory = items
		return nil
	})
	g.Go(func() error {
		files, err := s.RecentFiles(gctx, userID, DefaultRecentFilesLimit)
		if err != nil {
			logSectionFailure("recent_files", userID, err)
			return nil
		}
		d.RecentFiles = files
		return nil
	})
	g.Go(func() error {
		stats, err := s.FileTypeStats(gctx, userID)
		if err != nil {
			logSectionFailure("file_type_stats", userID, err)
			return nil
		}
		d.FileTypeStats = stats
		return nil
	})
	_ = g.Wait()

	return d
}

func logSectionFailure(section string, userID int64, err error) {
	logger.WithError(err, "history_service").WithFields(map[string]interface{}{
		"section": section,
		"user_id": userID,
	}).Warn("Dashboard section failed to load")
}

func toHistoryItem(h *models.History) HistoryItem {
	item := HistoryItem{
		HistoryID:        h.ID,
		PromptText:       h.PromptText,
		ProcessType:      h.ProcessType,
		ProcessDate:      h.ProcessDate,
		ProcessingTimeMs: h.ProcessingTimeMs,
		IsSuccess:        h.IsSuccess,
		State:            h.State(),
	}
	if h.InputFileType != nil {
		item.InputType = h.InputFileType.Name
	}
	if h.OutputFormat != nil {
		item.OutputFormat = h.OutputFormat.Name
	}
	return item
}

// Package store is the persistence capability behind the job audit trail.
package store

import (
	"context"
	"errors"

	"github.com/datawizard/backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Catalog resolves reference names to ids. Names match case-insensitively.
type Catalog interface {
	FileTypeID(ctx context.Context, name string) (int, error)
	OutputFormatID(ctx context.Context, name string) (int, error)
}

// Histories persists the per-job audit rows.
type Histories interface {
	CreateHistory(ctx context.Context, h *models.History) error
	// FinalizeHistory sets the outcome of a running record. It reports false
	// when no running record with that id exists.
	FinalizeHistory(ctx context.Context, id int64, success bool, processingTimeMs int64) (bool, error)
	GetHistory(ctx context.Context, id int64) (*models.History, error)
	RecentHistory(ctx context.Context, userID int64, limit int) ([]models.History, error)
	FileTypeStats(ctx context.Context, userID int64) ([]models.FileTypeStat, error)
}

// Preferences holds one output format preference row per user.
type Preferences interface {
	GetPreference(ctx context.Context, userID int64) (*models.OutputFormatPreference, error)
	UpsertPreference(ctx context.Context, p *models.OutputFormatPreference) error
}

// Artifacts records output files produced by jobs.
type Artifacts interface {
	CreateOutputFile(ctx context.Context, f *models.OutputFile) error
	OutputFilesForHistory(ctx context.Context, historyID int64) ([]models.OutputFile, error)
	RecentFiles(ctx context.Context, userID int64, limit int) ([]models.OutputFile, error)
}

// Store is everything the job subsystem needs from persistence.
type Store interface {
	Catalog
	Histories
	Preferences
	Artifacts
	Ping(ctx context.Context) error
}

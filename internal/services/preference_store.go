package services

import (
	"context"
	"errors"
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
)

// PreferenceStore keeps each user's preferred output format. It never
// reports failures: reads default to Excel and writes are best-effort.
type PreferenceStore struct {
	prefs store.Preferences
}

func NewPreferenceStore(prefs store.Preferences) *PreferenceStore {
	return &PreferenceStore{prefs: prefs}
}

func (p *PreferenceStore) Get(ctx context.Context, userID int64) string {
	pref, err := p.prefs.GetPreference(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.WithError(err, "preference_store").Warn("Failed to read format preference, using default")
		}
		return models.DefaultPreferredFormat
	}
	if pref.Format == "" {
		return models.DefaultPreferredFormat
	}
	return pref.Format
}

// Set upserts the preference; concurrent writes for one user are last-write-wins.
func (p *PreferenceStore) Set(ctx context.Context, userID int64, format string) {
	err := p.prefs.UpsertPreference(ctx, &models.OutputFormatPreference{
		UserID:    userID,
		Format:    format,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.WithError(err, "preference_store").WithField("user_id", userID).
			Warn("Failed to save format preference")
	}
}

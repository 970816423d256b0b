package services

import (
	"context"
	"testing"
	"time"

	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultHistoryLimit, clampLimit(0, DefaultHistoryLimit))
	assert.Equal(t, DefaultRecentFilesLimit, clampLimit(-3, DefaultRecentFilesLimit))
	assert.Equal(t, 25, clampLimit(25, DefaultHistoryLimit))
	assert.Equal(t, MaxListLimit, clampLimit(5000, DefaultHistoryLimit))
}

func TestHistoryService_Dashboard(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)
	prefs := NewPreferenceStore(s)
	rec := NewJobRecorder(s)
	reg := NewArtifactRegistrar(s)

	csv, pdf := 3, 5
	first := rec.Create(ctx, 1, csv, 1, "first", "file")
	rec.FinalizeSuccess(ctx, first, 10)
	reg.Register(ctx, first, "a_parsed.xlsx", "/out/a_parsed.xlsx", 4)
	time.Sleep(5 * time.Millisecond)
	second := rec.Create(ctx, 1, csv, 2, "second", "file")
	rec.FinalizeFailure(ctx, second, 20)
	time.Sleep(5 * time.Millisecond)
	third := rec.Create(ctx, 1, pdf, 3, "third", "file")
	rec.Create(ctx, 2, pdf, 1, "someone else", "file")
	prefs.Set(ctx, 1, "word")

	svc := NewHistoryService(s, s, prefs)
	d := svc.Dashboard(ctx, 1)

	assert.Equal(t, "word", d.PreferredFormat)
	require.Len(t, d.RecentHistory, 3)
	assert.Equal(t, third, d.RecentHistory[0].HistoryID)
	assert.Equal(t, models.HistoryStateRunning, d.RecentHistory[0].State)
	assert.Equal(t, "PDF", d.RecentHistory[0].InputType)
	assert.Equal(t, "Text", d.RecentHistory[0].OutputFormat)
	assert.Equal(t, first, d.RecentHistory[2].HistoryID)
	assert.True(t, *d.RecentHistory[2].IsSuccess)

	require.Len(t, d.RecentFiles, 1)
	assert.Equal(t, first, d.RecentFiles[0].HistoryID)

	require.Len(t, d.FileTypeStats, 2)
	assert.Equal(t, models.FileTypeStat{FileType: "CSV", UsageCount: 2}, d.FileTypeStats[0])
	assert.Equal(t, models.FileTypeStat{FileType: "PDF", UsageCount: 1}, d.FileTypeStats[1])
}

func TestHistoryService_EmptyUser(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)
	svc := NewHistoryService(s, s, NewPreferenceStore(s))

	items, err := svc.RecentHistory(ctx, 99, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	files, err := svc.RecentFiles(ctx, 99, 0)
	require.NoError(t, err)
	assert.NotNil(t, files)

	stats, err := svc.FileTypeStats(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, stats)
}

func TestHistoryService_DashboardStoreDown(t *testing.T) {
	svc := NewHistoryService(unavailableStore{}, unavailableStore{}, NewPreferenceStore(unavailableStore{}))

	d := svc.Dashboard(context.Background(), 1)
	assert.Equal(t, models.DefaultPreferredFormat, d.PreferredFormat)
	assert.Empty(t, d.RecentHistory)
	assert.Empty(t, d.RecentFiles)
	assert.Empty(t, d.FileTypeStats)

	_, err := svc.RecentHistory(context.Background(), 1, 5)
	assert.ErrorIs(t, err, errUnavailable)
}

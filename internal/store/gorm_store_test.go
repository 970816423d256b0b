package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
	"github.com/datawizard/backend/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(userID int64, fileTypeID int) *models.History {
	return &models.History{
		UserID:          userID,
		InputFileTypeID: fileTypeID,
		OutputFormatID:  models.DefaultOutputFormatID,
		PromptText:      "Summarize",
		ProcessType:     string(models.ModeFileToFile),
	}
}

func TestCatalogLookup_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	upper, err := s.FileTypeID(ctx, "CSV")
	require.NoError(t, err)
	lower, err := s.FileTypeID(ctx, "csv")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)

	id, err := s.OutputFormatID(ctx, "word")
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func TestCatalogLookup_Miss(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	_, err := s.FileTypeID(ctx, "UNKNOWN_EXT")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.OutputFormatID(ctx, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateHistory_AssignsIDAndStartsRunning(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	h := newHistory(1, 3)
	require.NoError(t, s.CreateHistory(ctx, h))
	assert.Positive(t, h.ID)

	got, err := s.GetHistory(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HistoryStateRunning, got.State())
	assert.Nil(t, got.ProcessingTimeMs)
	assert.False(t, got.ProcessDate.IsZero())
	require.NotNil(t, got.InputFileType)
	assert.Equal(t, "CSV", got.InputFileType.Name)
}

func TestFinalizeHistory_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	h := newHistory(1, 1)
	require.NoError(t, s.CreateHistory(ctx, h))

	ok, err := s.FinalizeHistory(ctx, h.ID, false, 1234)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.FinalizeHistory(ctx, h.ID, true, 99)
	require.NoError(t, err)
	assert.False(t, ok, "second finalize must not match")

	got, err := s.GetHistory(ctx, h.ID)
	require.NoError(t, err)
	require.NotNil(t, got.IsSuccess)
	assert.False(t, *got.IsSuccess)
	require.NotNil(t, got.ProcessingTimeMs)
	assert.Equal(t, int64(1234), *got.ProcessingTimeMs)
}

func TestFinalizeHistory_UnknownID(t *testing.T) {
	s := storetest.NewStore(t)

	ok, err := s.FinalizeHistory(context.Background(), 987654, true, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetHistory_NotFound(t *testing.T) {
	s := storetest.NewStore(t)

	_, err := s.GetHistory(context.Background(), 404)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecentHistory_NewestFirstAndScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	var ids []int64
	for i := 0; i < 3; i++ {
		h := newHistory(7, 1)
		h.ProcessDate = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateHistory(ctx, h))
		ids = append(ids, h.ID)
	}
	require.NoError(t, s.CreateHistory(ctx, newHistory(8, 1)))

	items, err := s.RecentHistory(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID)
	assert.Equal(t, ids[1], items[1].ID)
	require.NotNil(t, items[0].OutputFormat)
	assert.Equal(t, "Excel", items[0].OutputFormat.Name)
}

func TestFileTypeStats(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	csv, err := s.FileTypeID(ctx, "CSV")
	require.NoError(t, err)
	pdf, err := s.FileTypeID(ctx, "PDF")
	require.NoError(t, err)

	for _, ft := range []int{csv, csv, pdf} {
		require.NoError(t, s.CreateHistory(ctx, newHistory(5, ft)))
	}
	require.NoError(t, s.CreateHistory(ctx, newHistory(6, pdf)))

	stats, err := s.FileTypeStats(ctx, 5)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.FileTypeStat{FileType: "CSV", UsageCount: 2}, stats[0])
	assert.Equal(t, models.FileTypeStat{FileType: "PDF", UsageCount: 1}, stats[1])
}

func TestUpsertPreference(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	_, err := s.GetPreference(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.UpsertPreference(ctx, &models.OutputFormatPreference{UserID: 1, Format: "excel"}))
	require.NoError(t, s.UpsertPreference(ctx, &models.OutputFormatPreference{UserID: 1, Format: "word"}))

	p, err := s.GetPreference(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "word", p.Format)

	var count int64
	require.NoError(t, s.DB().Model(&models.OutputFormatPreference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOutputFiles(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	mine := newHistory(1, 1)
	require.NoError(t, s.CreateHistory(ctx, mine))
	theirs := newHistory(2, 1)
	require.NoError(t, s.CreateHistory(ctx, theirs))

	require.NoError(t, s.CreateOutputFile(ctx, &models.OutputFile{
		HistoryID: mine.ID, FileName: "a_parsed.xlsx", FilePath: "/out/a_parsed.xlsx", SizeBytes: 10,
	}))
	require.NoError(t, s.CreateOutputFile(ctx, &models.OutputFile{
		HistoryID: theirs.ID, FileName: "b_parsed.xlsx", FilePath: "/out/b_parsed.xlsx", SizeBytes: 20,
	}))

	// one artifact per history record
	err := s.CreateOutputFile(ctx, &models.OutputFile{HistoryID: mine.ID, FileName: "dup", FilePath: "/out/dup"})
	assert.Error(t, err)

	files, err := s.OutputFilesForHistory(ctx, mine.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a_parsed.xlsx", files[0].FileName)

	recent, err := s.RecentFiles(ctx, 1, 4)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, mine.ID, recent[0].HistoryID)
	require.NotNil(t, recent[0].History)
	assert.Equal(t, int64(1), recent[0].History.UserID)
}

func TestPing(t *testing.T) {
	s := storetest.NewStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewStore(t)

	require.NoError(t, store.SeedDefaultCatalog(ctx, s.DB()))

	var count int64
	require.NoError(t, s.DB().Model(&models.FileType{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultFileTypes)), count)
}

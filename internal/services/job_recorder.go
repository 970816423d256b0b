package services

import (
	"context"
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
)

// JobRecorder owns the history record state machine:
// Create puts a record in Running, one Finalize call moves it to Terminal.
type JobRecorder struct {
	histories store.Histories
}

func NewJobRecorder(histories store.Histories) *JobRecorder {
	return &JobRecorder{histories: histories}
}

// Create inserts a running record. It returns models.InvalidHistoryID when
// the store fails; callers then skip finalize and artifact registration.
func (r *JobRecorder) Create(ctx context.Context, userID int64, inputFileTypeID, outputFormatID int, prompt, processType string) int64 {
	h := &models.History{
		UserID:          userID,
		InputFileTypeID: inputFileTypeID,
		OutputFormatID:  outputFormatID,
		PromptText:      prompt,
		ProcessType:     processType,
		ProcessDate:     time.Now().UTC(),
	}
	if err := r.histories.CreateHistory(ctx, h); err != nil {
		logger.WithError(err, "job_recorder").WithField("user_id", userID).
			Error("Failed to create history record")
		return models.InvalidHistoryID
	}

	logger.WithJob(h.ID, processType).Debug("History record created")
	return h.ID
}

func (r *JobRecorder) FinalizeSuccess(ctx context.Context, historyID, processingTimeMs int64) {
	r.finalize(ctx, historyID, true, processingTimeMs)
}

func (r *JobRecorder) FinalizeFailure(ctx context.Context, historyID, processingTimeMs int64) {
	r.finalize(ctx, historyID, false, processingTimeMs)
}

// finalize is a no-op with a warning for invalid, unknown or already
// finalized ids.
func (r *JobRecorder) finalize(ctx context.Context, historyID int64, success bool, processingTimeMs int64) {
	fields := map[string]interface{}{
		"component":          "job_recorder",
		"history_id":         historyID,
		"is_success":         success,
		"processing_time_ms": processingTimeMs,
	}
	if historyID <= 0 {
		logger.Warn("Finalize called with invalid history id", fields)
		return
	}

	updated, err := r.histories.FinalizeHistory(ctx, historyID, success, processingTimeMs)
	if err != nil {
		fields["error"] = err.Error()
		logger.Error("Failed to finalize history record", fields)
		return
	}
	if !updated {
		logger.Warn("History record not running, finalize ignored", fields)
		return
	}
	logger.Debug("History record finalized", fields)
}

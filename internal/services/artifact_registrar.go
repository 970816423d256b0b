package services

import (
	"context"
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
)

// ArtifactRegistrar links an output file to the history record of the job
// that produced it. Failures are logged and never touch the history record.
type ArtifactRegistrar struct {
	artifacts store.Artifacts
}

func NewArtifactRegistrar(artifacts store.Artifacts) *ArtifactRegistrar {
	return &ArtifactRegistrar{artifacts: artifacts}
}

func (a *ArtifactRegistrar) Register(ctx context.Context, historyID int64, fileName, filePath string, sizeBytes int64) {
	fields := map[string]interface{}{
		"component":  "artifact_registrar",
		"history_id": historyID,
		"file_path":  filePath,
	}
	if historyID <= 0 {
		logger.Warn("Artifact not registered: invalid history id", fields)
		return
	}

	err := a.artifacts.CreateOutputFile(ctx, &models.OutputFile{
		HistoryID: historyID,
		FileName:  fileName,
		FilePath:  filePath,
		SizeBytes: sizeBytes,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		fields["error"] = err.Error()
		logger.Error("Failed to register output file", fields)
		return
	}
	logger.Info("Output file registered", fields)
}

package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datawizard/backend/internal/engine"
	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const missingArtifactWarning = "\n\nWarning: the %s output file was not produced."

// JobOutcome is what the caller sees after a job ran.
type JobOutcome struct {
	Text             string `json:"text"`
	ArtifactPath     string `json:"artifactPath,omitempty"`
	Error            string `json:"error,omitempty"`
	HistoryID        int64  `json:"historyId"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// EngineError is returned by Run when the engine failed or could not start.
type EngineError struct {
	Stdout string
	Stderr string
	Cause  error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Error: %v", e.Cause)
	}
	return fmt.Sprintf("Error: %s\nOutput: %s", strings.TrimSpace(e.Stderr), strings.TrimSpace(e.Stdout))
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// JobOrchestrator runs one job end to end: it records the preference,
// opens the history record, invokes the engine, finalizes the record and
// registers the produced artifact.
type JobOrchestrator struct {
	resolver    *ReferenceResolver
	preferences *PreferenceStore
	recorder    *JobRecorder
	registrar   *ArtifactRegistrar
	engine      engine.Engine
	outputDir   string
}

func NewJobOrchestrator(
	resolver *ReferenceResolver,
	preferences *PreferenceStore,
	recorder *JobRecorder,
	registrar *ArtifactRegistrar,
	eng engine.Engine,
	outputDir string,
) *JobOrchestrator {
	return &JobOrchestrator{
		resolver:    resolver,
		preferences: preferences,
		recorder:    recorder,
		registrar:   registrar,
		engine:      eng,
		outputDir:   outputDir,
	}
}

// Run executes req. Persistence failures never fail the job; only an
// invalid request or an engine failure return an error. On engine failure
// the outcome is still returned with Error set.
func (o *JobOrchestrator) Run(ctx context.Context, req models.JobRequest) (*JobOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	// Once started, a job always reaches a terminal record.
	ctx = context.WithoutCancel(ctx)

	var (
		fileTypeID     int
		fileTypeErr    error
		outputFormatID int
		g              errgroup.Group
	)
	g.Go(func() error {
		o.preferences.Set(ctx, req.UserID, string(req.OutputFormat))
		return nil
	})
	g.Go(func() error {
		fileTypeID, fileTypeErr = o.resolver.FileTypeID(ctx, req.InputFileTypeName())
		return nil
	})
	g.Go(func() error {
		outputFormatID = o.resolver.OutputFormatID(ctx, req.OutputFormat.CatalogName())
		return nil
	})
	_ = g.Wait()

	historyID := models.InvalidHistoryID
	if fileTypeErr != nil {
		logger.WithError(fileTypeErr, "job_orchestrator").WithField("user_id", req.UserID).
			Error("Input file type unresolved, running job without history record")
	} else {
		historyID = o.recorder.Create(ctx, req.UserID, fileTypeID, outputFormatID, req.Prompt, string(req.Mode))
	}
	log := logger.WithJob(historyID, string(req.Mode))

	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		log.WithField("error", err.Error()).Warn("Failed to create output directory")
	}
	outputTextPath := filepath.Join(o.outputDir, uuid.NewString()+".txt")

	log.WithFields(map[string]interface{}{
		"input":         req.InputRef,
		"output_format": req.OutputFormat,
	}).Info("Starting job")

	start := time.Now()
	res, runErr := o.engine.Process(ctx, engine.Invocation{
		InputPath:      req.InputRef,
		OutputTextPath: outputTextPath,
		Prompt:         req.Prompt,
		OutputFormat:   req.OutputFormat,
		Mode:           req.Mode,
	})
	elapsed := time.Since(start).Milliseconds()

	outcome := &JobOutcome{HistoryID: historyID, ProcessingTimeMs: elapsed}

	if runErr != nil || !res.Succeeded() {
		engErr := &EngineError{Cause: runErr}
		if res != nil {
			engErr.Stdout = res.Stdout
			engErr.Stderr = res.Stderr
		}
		if historyID != models.InvalidHistoryID {
			o.recorder.FinalizeFailure(ctx, historyID, elapsed)
		}
		outcome.Error = engErr.Error()
		log.WithField("processing_time_ms", elapsed).Warn("Job failed")
		return outcome, engErr
	}

	if historyID != models.InvalidHistoryID {
		o.recorder.FinalizeSuccess(ctx, historyID, elapsed)
	}
	outcome.Text = readResultText(outputTextPath, res.Stdout)

	if artifact := engine.ArtifactPath(outputTextPath, req.OutputFormat); artifact != "" {
		info, err := os.Stat(artifact)
		if err == nil && !info.IsDir() {
			outcome.ArtifactPath = artifact
			if historyID != models.InvalidHistoryID {
				o.registrar.Register(ctx, historyID, filepath.Base(artifact), artifact, info.Size())
			}
		} else {
			outcome.Text += fmt.Sprintf(missingArtifactWarning, req.OutputFormat.CatalogName())
			log.WithField("artifact", artifact).Warn("Engine reported success but produced no artifact")
		}
	}

	log.WithField("processing_time_ms", elapsed).Info("Job completed")
	return outcome, nil
}

// readResultText prefers the text file the engine wrote and falls back to
// its stdout.
func readResultText(outputTextPath, stdout string) string {
	if data, err := os.ReadFile(outputTextPath); err == nil {
		if text := strings.TrimSpace(string(data)); text != "" {
			return text
		}
	}
	return strings.TrimSpace(stdout)
}

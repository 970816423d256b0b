package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// JobRunner runs one job synchronously.
type JobRunner interface {
	Run(ctx context.Context, req models.JobRequest) (*services.JobOutcome, error)
}

type JobController struct {
	runner JobRunner
}

func NewJobController(runner JobRunner) *JobController {
	return &JobController{runner: runner}
}

type RunJobRequest struct {
	InputRef     string `json:"inputRef"`
	Prompt       string `json:"prompt" binding:"required"`
	OutputFormat string `json:"outputFormat"`
	Mode         string `json:"mode"`
}

// RunJob runs a job and returns its outcome. Engine failures answer 502
// with the outcome body, which carries the error text.
func (jc *JobController) RunJob(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logEntry := logger.WithUser(userID)

	var body RunJobRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		logEntry.WithField("error", err.Error()).Warn("Invalid job request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req, err := models.NewJobRequest(userID, body.InputRef, body.Prompt, body.OutputFormat, body.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := jc.runner.Run(c.Request.Context(), req)
	if err != nil {
		var engErr *services.EngineError
		switch {
		case errors.Is(err, models.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &engErr) && outcome != nil:
			c.JSON(http.StatusBadGateway, outcome)
		default:
			logger.WithError(err, "job_controller").Error("Job failed unexpectedly")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Job failed"})
		}
		return
	}

	logEntry.WithField("history_id", outcome.HistoryID).Info("Job finished")
	c.JSON(http.StatusOK, outcome)
}

package controllers

import (
	"net/http"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	history *services.HistoryService
}

func NewHistoryController(history *services.HistoryService) *HistoryController {
	return &HistoryController{history: history}
}

func (hc *HistoryController) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := hc.history.RecentHistory(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		logger.WithError(err, "history_controller").Error("Failed to load history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (hc *HistoryController) GetRecentFiles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	files, err := hc.history.RecentFiles(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		logger.WithError(err, "history_controller").Error("Failed to load recent files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recent files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (hc *HistoryController) GetFileTypeStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := hc.history.FileTypeStats(c.Request.Context(), userID)
	if err != nil {
		logger.WithError(err, "history_controller").Error("Failed to load file type stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (hc *HistoryController) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, hc.history.Dashboard(c.Request.Context(), userID))
}

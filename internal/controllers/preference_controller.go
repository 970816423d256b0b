package controllers

import (
	"net/http"
	"strings"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type PreferenceController struct {
	preferences *services.PreferenceStore
}

func NewPreferenceController(preferences *services.PreferenceStore) *PreferenceController {
	return &PreferenceController{preferences: preferences}
}

type FormatPreferenceRequest struct {
	Format string `json:"format" binding:"required"`
}

func (pc *PreferenceController) GetFormat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"format": pc.preferences.Get(c.Request.Context(), userID)})
}

// SetFormat stores the preference. Storage failures are logged, not reported.
func (pc *PreferenceController) SetFormat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req FormatPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	format := models.OutputFormatKind(strings.ToLower(strings.TrimSpace(req.Format)))
	if !format.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format: " + req.Format})
		return
	}

	pc.preferences.Set(c.Request.Context(), userID, string(format))
	logger.WithUser(userID).WithField("format", format).Info("Format preference updated")
	c.JSON(http.StatusOK, gin.H{"format": format})
}

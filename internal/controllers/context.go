package controllers

import (
	"net/http"
	"strconv"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated user, writing a 401 when absent.
func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	userID, ok := v.(int64)
	if !exists || !ok || userID <= 0 {
		logger.Error("Unauthorized access attempt", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// queryLimit parses the limit query parameter; 0 means "use the default".
func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

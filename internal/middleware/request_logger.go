package middleware

import (
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id; an incoming value is reused.
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request through the application logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}
		if userID, ok := c.Get(UserIDKey); ok {
			fields["user_id"] = userID
		}

		entry := logger.GetLogger().WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("[API] request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("[API] request rejected")
		default:
			entry.Info("[API] request served")
		}
	}
}

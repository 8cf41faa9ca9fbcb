package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := log.WithFields(log.Fields{
			"status":        c.Writer.Status(),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"latency_ms":    time.Since(start).Milliseconds(),
			"bytes_written": c.Writer.Size(),
			"client_ip":     c.ClientIP(),
			"request_id":    c.GetString(ctxRequestID),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		entry.Info("request completed")
	}
}

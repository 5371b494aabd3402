package middleware

import (
	"time"

	"hospital-management-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		var cause error
		if last := c.Errors.Last(); last != nil {
			cause = last.Err
		}
		log.HTTPRequest(c.Request.Method, path, c.ClientIP(), c.Writer.Status(), time.Since(start).Milliseconds(), cause)
	}
}

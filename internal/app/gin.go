package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// requestLogger logs every request through the application logger,
// raising the level with the response status.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			event = event.Str("errors", errs)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Msg("handled request")
	}
}

package api

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request once it completes. At debug level the
// request body is logged too and then restored for the handler.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()

		if logger.GetLevel() <= zerolog.DebugLevel && c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to read request body")
			}
			logger.Debug().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Bytes("body", body).
				Msg("incoming request")
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}

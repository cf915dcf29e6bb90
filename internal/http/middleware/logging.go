package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/radahn42/chronicles/internal/lib/authctx"
)

// Logger logs each request at DEBUG and its response at a level chosen by
// status: ERROR for 5xx, WARN for 4xx, INFO otherwise.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		requestID, _ := authctx.RequestID(ctx)
		log := log.With(slog.String("request_id", requestID))

		log.DebugContext(ctx, "request", slog.Group("http",
			slog.String("uri", c.Request.RequestURI),
			slog.String("method", c.Request.Method),
		))

		c.Next()

		status := c.Writer.Status()

		var level slog.Level
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		default:
			level = slog.LevelInfo
		}

		attrs := []any{
			slog.Group("http",
				slog.String("uri", c.Request.RequestURI),
				slog.String("method", c.Request.Method),
				slog.String("route", c.FullPath()),
				slog.Int("status", status),
				slog.Int("bytes_sent", c.Writer.Size()),
				slog.Duration("duration", time.Since(start)),
			),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		log.Log(ctx, level, "response", attrs...)
	}
}

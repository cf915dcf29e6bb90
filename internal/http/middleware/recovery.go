package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panicking handler into a 500 response and logs the
// panic with its stack trace.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				log.ErrorContext(c.Request.Context(), "request panic",
					slog.Group("http",
						slog.String("uri", c.Request.RequestURI),
						slog.String("method", c.Request.Method),
					),
					slog.Group("error",
						slog.Any("panic", p),
						slog.String("stack", string(debug.Stack())),
					),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": http.StatusText(http.StatusInternalServerError),
				})
			}
		}()

		c.Next()
	}
}

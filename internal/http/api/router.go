package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/radahn42/chronicles/internal/http/middleware"
)

type RouterConfig struct {
	// AllowedOrigins may send credentialed cross-origin requests. Empty
	// disables CORS handling.
	AllowedOrigins []string
	Policy         Policy
}

// NewRouter builds the gin engine serving routes. Requests pass through
// request-id, access logging, panic recovery and CORS before routing;
// protected routes additionally pass guard.
func NewRouter(log *slog.Logger, cfg RouterConfig, routes []Route, guard gin.HandlerFunc) (*gin.Engine, error) {
	const op = "api.NewRouter"

	routes, err := cfg.Policy.Apply(routes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
	)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
			},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := Register(r, routes, guard); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, route := range routes {
		log.Debug("route registered",
			slog.String("route", route.Key()),
			slog.String("access", string(route.Access)),
		)
	}

	return r, nil
}

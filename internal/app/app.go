package app

import (
	"context"
	"fmt"
	"log/slog"

	grpcapp "github.com/radahn42/chronicles/internal/app/grpc"
	httpapp "github.com/radahn42/chronicles/internal/app/http"
	"github.com/radahn42/chronicles/internal/config"
	"github.com/radahn42/chronicles/internal/http/api"
	"github.com/radahn42/chronicles/internal/http/middleware"
	"github.com/radahn42/chronicles/internal/services/auth"
	"github.com/radahn42/chronicles/internal/services/blog"
	"github.com/radahn42/chronicles/internal/services/comment"
	"github.com/radahn42/chronicles/internal/services/newsletter"
	"github.com/radahn42/chronicles/internal/services/wishlist"
	"github.com/radahn42/chronicles/internal/storage"
	"github.com/radahn42/chronicles/internal/storage/mongo"
	"github.com/radahn42/chronicles/internal/storage/sqlite"
)

type App struct {
	HTTPSrv *httpapp.App
	// GRPCSrv is nil when the admin listener is disabled.
	GRPCSrv *grpcapp.App
	Storage storage.DocumentStore
}

func New(
	ctx context.Context,
	log *slog.Logger,
	cfg *config.Config,
) *App {
	store, err := NewStorage(ctx, log, cfg.Storage)
	if err != nil {
		panic(err)
	}

	authService := auth.New(log, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	blogService := blog.New(log, store, store)
	commentService := comment.New(log, store, store)
	wishlistService := wishlist.New(log, store, store)
	newsletterService := newsletter.New(log, store)

	handlers := api.New(log,
		api.Cookie{Name: cfg.Auth.CookieName, Insecure: cfg.Auth.InsecureCookie},
		authService,
		blogService,
		commentService,
		wishlistService,
		newsletterService,
	)

	router, err := api.NewRouter(log,
		api.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Policy: api.Policy{
				Disabled:  cfg.Auth.Disabled,
				Overrides: cfg.Auth.AccessOverrides,
			},
		},
		handlers.Routes(),
		middleware.Auth(log, authService, cfg.Auth.CookieName),
	)
	if err != nil {
		_ = store.Close()
		panic(err)
	}

	httpApp := httpapp.New(log, router, cfg.HTTP.Host, cfg.HTTP.Port, httpapp.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	var grpcApp *grpcapp.App
	if cfg.GRPC.Port > 0 {
		grpcApp = grpcapp.New(log, store, cfg.GRPC.Host, cfg.GRPC.Port, cfg.GRPC.ProbeInterval, cfg.GRPC.Timeout)
	}

	return &App{
		HTTPSrv: httpApp,
		GRPCSrv: grpcApp,
		Storage: store,
	}
}

// NewStorage opens the configured document store driver.
func NewStorage(ctx context.Context, log *slog.Logger, cfg config.StorageConfig) (storage.DocumentStore, error) {
	const op = "app.NewStorage"

	log = log.With(slog.String("op", op), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("storage opened", slog.String("path", cfg.SQLite.Path))

		return s, nil
	case config.DriverMongo:
		uri, err := mongo.ConnectionURI(cfg.Mongo.URI, cfg.Mongo.User, cfg.Mongo.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		s, err := mongo.New(ctx, uri, cfg.Mongo.Database, cfg.Mongo.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("storage opened", slog.String("database", cfg.Mongo.Database))

		return s, nil
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}

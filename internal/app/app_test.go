package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/radahn42/chronicles/internal/app"
	"github.com/radahn42/chronicles/internal/config"
	"github.com/radahn42/chronicles/internal/lib/logger/slogdiscard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLite(t *testing.T) {
	cfg := &config.Config{
		Env: config.EnvLocal,
		HTTP: config.HTTPConfig{
			Port:           0,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Auth: config.AuthConfig{
			Secret:     "test-secret",
			CookieName: "token",
			AccessOverrides: map[string]string{
				"GET /blogs": "public",
			},
		},
		Storage: config.StorageConfig{
			Driver: config.DriverSQLite,
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "app.db")},
		},
	}

	application := app.New(context.Background(), slogdiscard.NewDiscardLogger(), cfg)
	t.Cleanup(func() { _ = application.Storage.Close() })

	assert.NotNil(t, application.HTTPSrv)
	assert.Nil(t, application.GRPCSrv)
	require.NoError(t, application.Storage.Ping(context.Background()))
}

func TestNew_InvalidOverridePanics(t *testing.T) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret:          "test-secret",
			CookieName:      "token",
			AccessOverrides: map[string]string{"GET /nope": "public"},
		},
		Storage: config.StorageConfig{
			Driver: config.DriverSQLite,
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "app.db")},
		},
	}

	assert.Panics(t, func() {
		app.New(context.Background(), slogdiscard.NewDiscardLogger(), cfg)
	})
}

func TestNewStorage_UnknownDriver(t *testing.T) {
	_, err := app.NewStorage(context.Background(), slogdiscard.NewDiscardLogger(), config.StorageConfig{Driver: "redis"})
	assert.ErrorContains(t, err, "unknown storage driver")

	_, err = app.NewStorage(context.Background(), slogdiscard.NewDiscardLogger(), config.StorageConfig{
		Driver: config.DriverMongo,
		Mongo:  config.MongoConfig{URI: "http://localhost:27017"},
	})
	assert.ErrorContains(t, err, "unsupported scheme")
}

package storage

import (
	"context"
	"errors"

	"github.com/radahn42/chronicles/internal/domain/models"
)

var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidID     = errors.New("invalid ID format")
	ErrInvalidQuery  = errors.New("invalid query")
)

// DocumentStore is implemented by every storage driver. FindOne returns
// ErrNotFound for a missing id; writes on a missing id report zero counts.
type DocumentStore interface {
	Find(ctx context.Context, collection string, query models.Query) ([]models.Document, error)
	FindOne(ctx context.Context, collection, id string) (models.Document, error)
	InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error)
	UpdateOne(ctx context.Context, collection, id string, fields models.Document) (models.UpdateResult, error)
	DeleteOne(ctx context.Context, collection, id string) (models.DeleteResult, error)
	Ping(ctx context.Context) error
	Close() error
}

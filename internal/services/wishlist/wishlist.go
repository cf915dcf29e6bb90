package wishlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/radahn42/chronicles/internal/domain/models"
)

type Saver interface {
	InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error)
	DeleteOne(ctx context.Context, collection, id string) (models.DeleteResult, error)
}

type Provider interface {
	Find(ctx context.Context, collection string, query models.Query) ([]models.Document, error)
}

type Service struct {
	log      *slog.Logger
	saver    Saver
	provider Provider
}

func New(log *slog.Logger, saver Saver, provider Provider) *Service {
	return &Service{
		log:      log,
		saver:    saver,
		provider: provider,
	}
}

func (s *Service) AddToWishlist(ctx context.Context, item models.Document) (models.InsertResult, error) {
	const op = "wishlist.AddToWishlist"

	res, err := s.saver.InsertOne(ctx, models.CollectionWishlist, item)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to add wishlist item", slog.String("op", op), slog.Any("error", err))
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// Wishlist returns the items saved by userEmail. An empty email owns nothing.
func (s *Service) Wishlist(ctx context.Context, userEmail string) ([]models.Document, error) {
	const op = "wishlist.Wishlist"

	if userEmail == "" {
		return []models.Document{}, nil
	}

	items, err := s.provider.Find(ctx, models.CollectionWishlist, models.Query{
		Filter: map[string]any{"userEmail": userEmail},
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list wishlist",
			slog.String("op", op),
			slog.String("email", userEmail),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *Service) RemoveFromWishlist(ctx context.Context, id string) (models.DeleteResult, error) {
	const op = "wishlist.RemoveFromWishlist"

	log := s.log.With(slog.String("op", op), slog.String("id", id))

	res, err := s.saver.DeleteOne(ctx, models.CollectionWishlist, id)
	if err != nil {
		log.ErrorContext(ctx, "failed to remove wishlist item", slog.Any("error", err))
		return models.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.InfoContext(ctx, "wishlist item removed", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

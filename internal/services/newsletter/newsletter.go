package newsletter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/radahn42/chronicles/internal/domain/models"
)

type Saver interface {
	InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error)
}

type Service struct {
	log   *slog.Logger
	saver Saver
}

func New(log *slog.Logger, saver Saver) *Service {
	return &Service{
		log:   log,
		saver: saver,
	}
}

// Subscribe stores the submitted signup as is.
func (s *Service) Subscribe(ctx context.Context, subscription models.Document) (models.InsertResult, error) {
	const op = "newsletter.Subscribe"

	res, err := s.saver.InsertOne(ctx, models.CollectionNewsletters, subscription)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to subscribe", slog.String("op", op), slog.Any("error", err))
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

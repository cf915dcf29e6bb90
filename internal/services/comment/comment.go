package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/radahn42/chronicles/internal/domain/models"
)

type Saver interface {
	InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error)
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

// Comments returns the comments of a blog, newest first.
func (s *Service) Comments(ctx context.Context, blogID string) ([]models.Document, error) {
	const op = "comment.Comments"

	comments, err := s.provider.Find(ctx, models.CollectionComments, models.Query{
		Filter:    map[string]any{"blogId": blogID},
		SortField: "timestamp",
		SortDesc:  true,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list comments",
			slog.String("op", op),
			slog.String("blog_id", blogID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

func (s *Service) AddComment(ctx context.Context, comment models.Document) (models.InsertResult, error) {
	const op = "comment.AddComment"

	res, err := s.saver.InsertOne(ctx, models.CollectionComments, comment)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to add comment", slog.String("op", op), slog.Any("error", err))
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

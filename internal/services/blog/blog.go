package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/storage"
)

const (
	// CategoryAll disables the category filter.
	CategoryAll = "ALL"

	recentLimit   = 6
	featuredLimit = 10
)

type Saver interface {
	InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error)
	UpdateOne(ctx context.Context, collection, id string, fields models.Document) (models.UpdateResult, error)
}

type Provider interface {
	Find(ctx context.Context, collection string, query models.Query) ([]models.Document, error)
	FindOne(ctx context.Context, collection, id string) (models.Document, error)
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

// Blogs lists every blog, or only those of category unless it is empty or ALL.
func (s *Service) Blogs(ctx context.Context, category string) ([]models.Document, error) {
	const op = "blog.Blogs"

	var query models.Query
	if category != "" && category != CategoryAll {
		query.Filter = map[string]any{"category": category}
	}

	blogs, err := s.provider.Find(ctx, models.CollectionBlogs, query)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list blogs",
			slog.String("op", op),
			slog.String("category", category),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blogs, nil
}

// RecentBlogs returns the newest blogs by timestamp.
func (s *Service) RecentBlogs(ctx context.Context) ([]models.Document, error) {
	const op = "blog.RecentBlogs"

	blogs, err := s.provider.Find(ctx, models.CollectionBlogs, models.Query{
		SortField: "timestamp",
		SortDesc:  true,
		Limit:     recentLimit,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list recent blogs", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blogs, nil
}

// FeaturedBlogs returns the blogs with the longest descriptions.
func (s *Service) FeaturedBlogs(ctx context.Context) ([]models.Document, error) {
	const op = "blog.FeaturedBlogs"

	blogs, err := s.provider.Find(ctx, models.CollectionBlogs, models.Query{
		SortField: "descriptionLength",
		SortDesc:  true,
		Limit:     featuredLimit,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list featured blogs", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blogs, nil
}

// Blog returns the blog with the given id, or nil when there is none.
func (s *Service) Blog(ctx context.Context, id string) (models.Document, error) {
	const op = "blog.Blog"

	blog, err := s.provider.FindOne(ctx, models.CollectionBlogs, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		s.log.ErrorContext(ctx, "failed to get blog",
			slog.String("op", op),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blog, nil
}

func (s *Service) UpdateBlog(ctx context.Context, id string, fields models.Document) (models.UpdateResult, error) {
	const op = "blog.UpdateBlog"

	log := s.log.With(slog.String("op", op), slog.String("id", id))

	res, err := s.saver.UpdateOne(ctx, models.CollectionBlogs, id, fields)
	if err != nil {
		log.ErrorContext(ctx, "failed to update blog", slog.Any("error", err))
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.InfoContext(ctx, "blog updated",
		slog.Int64("matched", res.MatchedCount),
		slog.Int64("modified", res.ModifiedCount),
	)

	return res, nil
}

func (s *Service) AddBlog(ctx context.Context, blog models.Document) (models.InsertResult, error) {
	const op = "blog.AddBlog"

	log := s.log.With(slog.String("op", op))

	res, err := s.saver.InsertOne(ctx, models.CollectionBlogs, blog)
	if err != nil {
		log.ErrorContext(ctx, "failed to add blog", slog.Any("error", err))
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.InfoContext(ctx, "blog added", slog.String("id", res.InsertedID))

	return res, nil
}

package newsletter_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/lib/logger/slogdiscard"
	"github.com/radahn42/chronicles/internal/services/newsletter"
	"github.com/radahn42/chronicles/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "newsletters.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := newsletter.New(slogdiscard.NewDiscardLogger(), store)

	email := gofakeit.Email()
	res, err := s.Subscribe(ctx, models.Document{"email": email, "name": gofakeit.Name()})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	got, err := store.FindOne(ctx, models.CollectionNewsletters, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, email, got["email"])
}

type saverFunc func(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error)

func (f saverFunc) InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error) {
	return f(ctx, collection, doc)
}

func TestSubscribe_StoreError(t *testing.T) {
	storeErr := errors.New("write concern timeout")

	s := newsletter.New(slogdiscard.NewDiscardLogger(), saverFunc(
		func(context.Context, string, models.Document) (models.InsertResult, error) {
			return models.InsertResult{}, storeErr
		},
	))

	_, err := s.Subscribe(context.Background(), models.Document{"email": gofakeit.Email()})
	assert.ErrorIs(t, err, storeErr)
}

package comment_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/lib/logger/slogdiscard"
	"github.com/radahn42/chronicles/internal/services/comment"
	"github.com/radahn42/chronicles/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_ByBlogNewestFirst(t *testing.T) {
	ctx := context.Background()

	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "comments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := comment.New(slogdiscard.NewDiscardLogger(), store, store)

	blogID := gofakeit.UUID()
	otherID := gofakeit.UUID()

	for i, id := range []string{blogID, otherID, blogID, blogID} {
		res, err := s.AddComment(ctx, models.Document{
			"blogId":    id,
			"comment":   gofakeit.Sentence(6),
			"userEmail": gofakeit.Email(),
			"timestamp": float64(i),
		})
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
	}

	comments, err := s.Comments(ctx, blogID)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	assert.Equal(t, float64(3), comments[0]["timestamp"])
	assert.Equal(t, float64(2), comments[1]["timestamp"])
	assert.Equal(t, float64(0), comments[2]["timestamp"])
	for _, c := range comments {
		assert.Equal(t, blogID, c["blogId"])
	}

	none, err := s.Comments(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, none)
}

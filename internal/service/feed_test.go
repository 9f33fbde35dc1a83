package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/repository"
	"github.com/storyverse/storyverse/pkg/database"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedFeed(t *testing.T, db *gorm.DB, published int) {
	t.Helper()
	author := model.Profile{ID: uuid.NewString(), Username: "ada", AvatarURL: "https://example.com/a.png"}
	require.NoError(t, db.Create(&author).Error)

	base := time.Now()
	for i := 0; i < published; i++ {
		s := model.Story{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Story %02d", i),
			Content:     "body",
			Genre:       "fiction",
			AuthorID:    author.ID,
			IsPublished: true,
			WordCount:   100,
			CreatedAt:   base.Add(-time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&s).Error)
	}
	draft := model.Story{
		ID: uuid.NewString(), Title: "Draft", Content: "body", Genre: "fiction",
		AuthorID: author.ID, IsPublished: false, CreatedAt: base.Add(time.Hour),
	}
	require.NoError(t, db.Create(&draft).Error)
}

func newFeedService(t *testing.T, db *gorm.DB) *FeedService {
	t.Helper()
	return NewFeedService(repository.NewStoryRepository(db), cache.NewLoader(nil))
}

func TestFeedPagination(t *testing.T) {
	db := setupDB(t)
	seedFeed(t, db, 25)
	svc := newFeedService(t, db)
	ctx := context.Background()

	feed := svc.NewFeed(FeedQuery{Genre: model.GenreAll})
	assert.True(t, feed.HasMore())

	require.NoError(t, feed.FetchMore(ctx))
	assert.Len(t, feed.Stories(), 12)
	assert.True(t, feed.HasMore(), "a full page means another page may exist")

	require.NoError(t, feed.FetchMore(ctx))
	assert.Len(t, feed.Stories(), 24)
	assert.True(t, feed.HasMore())

	require.NoError(t, feed.FetchMore(ctx))
	stories := feed.Stories()
	assert.Len(t, stories, 25)
	assert.False(t, feed.HasMore(), "a short page ends the partition")

	// Flattened list keeps the reverse-chronological order across pages.
	for i := 1; i < len(stories); i++ {
		assert.False(t, stories[i].CreatedAt.After(stories[i-1].CreatedAt))
	}
	for _, s := range stories {
		assert.True(t, s.IsPublished)
	}

	// Exhausted feeds ignore further FetchMore calls.
	require.NoError(t, feed.FetchMore(ctx))
	assert.Len(t, feed.Stories(), 25)
}

func TestFeedExactPageMultiple(t *testing.T) {
	db := setupDB(t)
	seedFeed(t, db, 12)
	svc := newFeedService(t, db)
	ctx := context.Background()

	feed := svc.NewFeed(FeedQuery{Genre: model.GenreAll})
	require.NoError(t, feed.FetchMore(ctx))
	assert.Len(t, feed.Stories(), 12)
	assert.True(t, feed.HasMore(), "an exactly-full page still reports a next page")

	require.NoError(t, feed.FetchMore(ctx))
	assert.Len(t, feed.Stories(), 12)
	assert.False(t, feed.HasMore())
}

func TestFeedEmptyPartition(t *testing.T) {
	db := setupDB(t)
	seedFeed(t, db, 5)
	svc := newFeedService(t, db)
	ctx := context.Background()

	page, err := svc.FetchPage(ctx, FeedQuery{Search: "zzz_no_match", Genre: model.GenreAll}, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Nil(t, page.NextPage)

	feed := svc.NewFeed(FeedQuery{Search: "zzz_no_match", Genre: model.GenreAll})
	require.NoError(t, feed.FetchMore(ctx))
	assert.Empty(t, feed.Stories())
	assert.False(t, feed.HasMore())
	assert.NoError(t, feed.Err())
}

func TestFeedPartitionIdempotent(t *testing.T) {
	db := setupDB(t)
	seedFeed(t, db, 20)
	svc := newFeedService(t, db)
	ctx := context.Background()

	q := FeedQuery{Search: "story", Genre: model.GenreAll}
	a := svc.NewFeed(q)
	b := svc.NewFeed(q)
	for _, f := range []*Feed{a, b} {
		require.NoError(t, f.FetchMore(ctx))
		require.NoError(t, f.FetchMore(ctx))
	}
	assert.Equal(t, a.Stories(), b.Stories(), "same partition without mutation yields identical lists")
}

func TestFeedProjection(t *testing.T) {
	db := setupDB(t)
	seedFeed(t, db, 1)
	svc := newFeedService(t, db)

	page, err := svc.FetchPage(context.Background(), FeedQuery{Genre: model.GenreAll}, 0)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	s := page.Data[0]
	require.NotNil(t, s.AuthorUsername)
	assert.Equal(t, "ada", *s.AuthorUsername)
	require.NotNil(t, s.AuthorAvatar)
	// The feed projection does not compute review aggregates.
	assert.Zero(t, s.AverageRating)
	assert.Zero(t, s.ReviewCount)
}

func TestFeedGenreSentinel(t *testing.T) {
	db := setupDB(t)
	seedFeed(t, db, 3)
	author := model.Profile{ID: uuid.NewString(), Username: "kay"}
	require.NoError(t, db.Create(&author).Error)
	s := model.Story{
		ID: uuid.NewString(), Title: "Spooky", Content: "boo", Genre: "horror",
		AuthorID: author.ID, IsPublished: true, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&s).Error)
	svc := newFeedService(t, db)
	ctx := context.Background()

	all, err := svc.FetchPage(ctx, FeedQuery{Genre: model.GenreAll}, 0)
	require.NoError(t, err)
	assert.Len(t, all.Data, 4)

	horror, err := svc.FetchPage(ctx, FeedQuery{Genre: "horror"}, 0)
	require.NoError(t, err)
	require.Len(t, horror.Data, 1)
	assert.Equal(t, "horror", horror.Data[0].Genre)
}

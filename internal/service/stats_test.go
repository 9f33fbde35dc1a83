package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/repository"
)

func newStatsService(t *testing.T, db *gorm.DB) *StatsService {
	t.Helper()
	return NewStatsService(
		repository.NewStoryRepository(db),
		repository.NewProfileRepository(db),
		repository.NewReviewRepository(db),
		cache.NewLoader(nil),
	)
}

func TestStatsNoReviews(t *testing.T) {
	db := setupDB(t)
	svc := newStatsService(t, db)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.TotalStories)
	assert.Zero(t, snap.TotalAuthors)
	assert.Zero(t, snap.TotalReviews)
	assert.Zero(t, snap.AverageRating, "no reviews must not divide by zero")
}

func TestStatsAggregates(t *testing.T) {
	db := setupDB(t)
	svc := newStatsService(t, db)
	ctx := context.Background()

	author := model.Profile{ID: uuid.NewString(), Username: "ada"}
	reader := model.Profile{ID: uuid.NewString(), Username: "kay"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&reader).Error)

	published := model.Story{ID: uuid.NewString(), Title: "A", Content: "x", Genre: "fiction", AuthorID: author.ID, IsPublished: true}
	draft := model.Story{ID: uuid.NewString(), Title: "B", Content: "x", Genre: "fiction", AuthorID: author.ID, IsPublished: false}
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&draft).Error)

	for _, rating := range []int{5, 4, 4} {
		rev := model.Review{ID: uuid.NewString(), StoryID: published.ID, ReviewerID: reader.ID, Rating: rating}
		require.NoError(t, db.Create(&rev).Error)
	}

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.TotalStories, "drafts count toward the story total")
	assert.Equal(t, int64(2), snap.TotalAuthors)
	assert.Equal(t, int64(3), snap.TotalReviews)
	// (5+4+4)/3 = 4.333..., rounded to one decimal place.
	assert.Equal(t, 4.3, snap.AverageRating)
}

func TestReviewListForStory(t *testing.T) {
	db := setupDB(t)
	svc := NewReviewService(repository.NewReviewRepository(db), cache.NewLoader(nil))
	ctx := context.Background()

	reader := model.Profile{ID: uuid.NewString(), Username: "kay"}
	require.NoError(t, db.Create(&reader).Error)
	storyID := uuid.NewString()

	rev := model.Review{ID: uuid.NewString(), StoryID: storyID, ReviewerID: reader.ID, Rating: 5, ReviewText: "great"}
	require.NoError(t, db.Create(&rev).Error)
	anon := model.Review{ID: uuid.NewString(), StoryID: storyID, ReviewerID: uuid.NewString(), Rating: 2}
	require.NoError(t, db.Create(&anon).Error)

	got, err := svc.ListForStory(ctx, storyID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	usernames := []string{got[0].ReviewerUsername, got[1].ReviewerUsername}
	assert.Contains(t, usernames, "kay")
	assert.Contains(t, usernames, "Unknown")
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/repository"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(title, _ string) { n.successes = append(n.successes, title) }
func (n *recordingNotifier) Error(title, _ string)   { n.errors = append(n.errors, title) }

// countingRepo records how many queries reach the backend.
type countingRepo struct {
	repository.CollectionRepository
	calls int
}

func (r *countingRepo) Create(ctx context.Context, c *model.Collection) error {
	r.calls++
	return r.CollectionRepository.Create(ctx, c)
}

func newCollectionService(t *testing.T, db *gorm.DB) (*CollectionService, *recordingNotifier, repository.CollectionRepository) {
	t.Helper()
	repo := repository.NewCollectionRepository(db)
	notifier := &recordingNotifier{}
	return NewCollectionService(repo, cache.NewLoader(nil), notifier), notifier, repo
}

func TestCreateCollection(t *testing.T) {
	db := setupDB(t)
	svc, notifier, repo := newCollectionService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateCollectionInput{Name: "Favorites", IsPublic: true})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "user-1", created.UserID)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Favorites", got.Name)
	assert.True(t, got.IsPublic)

	assert.Equal(t, []string{"Collection created"}, notifier.successes)
	assert.Empty(t, notifier.errors)
}

func TestCreateCollectionUnauthenticated(t *testing.T) {
	db := setupDB(t)
	counting := &countingRepo{CollectionRepository: repository.NewCollectionRepository(db)}
	notifier := &recordingNotifier{}
	svc := NewCollectionService(counting, cache.NewLoader(nil), notifier)

	created, err := svc.Create(context.Background(), "", CreateCollectionInput{Name: "Nope"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Nil(t, created)
	assert.Zero(t, counting.calls, "the authorization check must precede any query")
	assert.Len(t, notifier.errors, 1)
	assert.Empty(t, notifier.successes)
}

func TestAddStoryPositions(t *testing.T) {
	db := setupDB(t)
	svc, notifier, repo := newCollectionService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateCollectionInput{Name: "Ordered"})
	require.NoError(t, err)

	storyA, storyB := uuid.NewString(), uuid.NewString()
	require.NoError(t, svc.AddStory(ctx, created.ID, storyA))
	require.NoError(t, svc.AddStory(ctx, created.ID, storyB))

	max, err := repo.MaxPosition(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, max, "first insert takes 1, second takes 2")

	assert.Equal(t, []string{"Collection created", "Story added", "Story added"}, notifier.successes)
}

func TestAddStoryPositionsMonotonic(t *testing.T) {
	db := setupDB(t)
	svc, _, repo := newCollectionService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateCollectionInput{Name: "Ordered"})
	require.NoError(t, err)

	prev := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.AddStory(ctx, created.ID, uuid.NewString()))
		max, err := repo.MaxPosition(ctx, created.ID)
		require.NoError(t, err)
		assert.Greater(t, max, prev)
		prev = max
	}
}

func TestDeleteCollectionRemovesMembershipsFirst(t *testing.T) {
	db := setupDB(t)
	svc, notifier, repo := newCollectionService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateCollectionInput{Name: "Doomed"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.AddStory(ctx, created.ID, uuid.NewString()))
	}

	require.NoError(t, svc.Delete(ctx, created.ID))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	rows, err := repo.ListMemberships(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Contains(t, notifier.successes, "Collection deleted")
}

func TestGetWithStories(t *testing.T) {
	db := setupDB(t)
	svc, _, _ := newCollectionService(t, db)
	ctx := context.Background()

	author := model.Profile{ID: uuid.NewString(), Username: "grace"}
	require.NoError(t, db.Create(&author).Error)
	story := model.Story{
		ID: uuid.NewString(), Title: "The Keep", Content: "x", Genre: "fantasy",
		AuthorID: author.ID, IsPublished: true, WordCount: 1200, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&story).Error)
	orphan := model.Story{
		ID: uuid.NewString(), Title: "No Author", Content: "x", Genre: "drama",
		AuthorID: uuid.NewString(), IsPublished: true, WordCount: 900, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&orphan).Error)

	created, err := svc.Create(ctx, "user-1", CreateCollectionInput{Name: "Mixed", Description: "both kinds"})
	require.NoError(t, err)
	require.NoError(t, svc.AddStory(ctx, created.ID, story.ID))
	require.NoError(t, svc.AddStory(ctx, created.ID, orphan.ID))

	out, err := svc.GetWithStories(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Mixed", out.Name)
	require.Len(t, out.Stories, 2)
	assert.Equal(t, 1, out.Stories[0].Position)
	assert.Equal(t, "grace", out.Stories[0].Author)
	assert.Equal(t, 2, out.Stories[1].Position)
	assert.Equal(t, "Unknown", out.Stories[1].Author, "absent profile renders the placeholder")
}

func TestGetWithStoriesMissingCollection(t *testing.T) {
	db := setupDB(t)
	svc, _, _ := newCollectionService(t, db)

	out, err := svc.GetWithStories(context.Background(), uuid.NewString())
	require.NoError(t, err, "a missing collection is not an error")
	assert.Nil(t, out)
}

func TestListOwnedUnauthenticated(t *testing.T) {
	db := setupDB(t)
	svc, _, _ := newCollectionService(t, db)

	list, err := svc.ListOwned(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateInvalidatesOwnedListing(t *testing.T) {
	db := setupDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	loader := cache.NewLoader(cache.NewRedisCache(client, time.Minute))

	svc := NewCollectionService(repository.NewCollectionRepository(db), loader, &recordingNotifier{})
	ctx := context.Background()

	first, err := svc.ListOwned(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, first)

	_, err = svc.Create(ctx, "user-1", CreateCollectionInput{Name: "Fresh"})
	require.NoError(t, err)

	second, err := svc.ListOwned(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, second, 1, "creation must invalidate the cached owner listing")
	assert.Equal(t, "Fresh", second[0].Name)
}

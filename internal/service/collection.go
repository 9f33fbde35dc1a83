package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/repository"
	"github.com/storyverse/storyverse/pkg/logger"
)

// ErrNotAuthenticated is returned by mutations that require an owner when
// no identity was supplied. It is raised before any query is issued.
var ErrNotAuthenticated = errors.New("not authenticated")

// CreateCollectionInput carries the caller-supplied collection fields.
type CreateCollectionInput struct {
	Name        string
	Description string
	IsPublic    bool
}

// CollectionStoryItem is one story summary inside a collection view.
type CollectionStoryItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	WordCount int    `json:"word_count"`
	Position  int    `json:"position"`
}

// CollectionWithStories is the denormalized collection view: the
// collection's own fields plus its stories ordered by position.
type CollectionWithStories struct {
	model.Collection
	Stories []CollectionStoryItem `json:"stories"`
}

// CollectionService manages collections and their story memberships.
// Operations that require an owner take the identity explicitly; an empty
// userID means no authenticated user.
type CollectionService struct {
	collections repository.CollectionRepository
	loader      *cache.Loader
	notifier    Notifier
}

func NewCollectionService(collections repository.CollectionRepository, loader *cache.Loader, notifier Notifier) *CollectionService {
	return &CollectionService{collections: collections, loader: loader, notifier: notifier}
}

// Create inserts a collection owned by userID. It fails before any query
// when userID is empty.
func (s *CollectionService) Create(ctx context.Context, userID string, in CreateCollectionInput) (*model.Collection, error) {
	if userID == "" {
		logger.Error("create collection", zap.Error(ErrNotAuthenticated))
		s.notifier.Error("Error", "Failed to create collection. Please try again.")
		return nil, ErrNotAuthenticated
	}

	now := time.Now()
	c := &model.Collection{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collections.Create(ctx, c); err != nil {
		logger.Error("create collection", zap.Error(err))
		s.notifier.Error("Error", "Failed to create collection. Please try again.")
		return nil, err
	}

	s.invalidate(ctx, kindCollections)
	s.notifier.Success("Collection created", "Your collection has been created successfully.")
	return c, nil
}

// Delete removes a collection's membership rows, then the collection row.
// The two deletes are sequential and non-transactional: a failure of the
// second leaves an orphaned empty collection behind.
func (s *CollectionService) Delete(ctx context.Context, collectionID string) error {
	if err := s.collections.DeleteMemberships(ctx, collectionID); err != nil {
		logger.Error("delete collection memberships", zap.String("collection", collectionID), zap.Error(err))
		s.notifier.Error("Error", "Failed to delete collection. Please try again.")
		return err
	}
	if err := s.collections.Delete(ctx, collectionID); err != nil {
		logger.Error("delete collection", zap.String("collection", collectionID), zap.Error(err))
		s.notifier.Error("Error", "Failed to delete collection. Please try again.")
		return err
	}

	s.invalidate(ctx, kindCollections)
	s.notifier.Success("Collection deleted", "Your collection has been deleted successfully.")
	return nil
}

// AddStory appends a story to the collection at max(position)+1, with the
// max of an empty collection taken as 0. The position read and the insert
// are not isolated: concurrent adds to one collection can race and assign
// duplicate positions.
func (s *CollectionService) AddStory(ctx context.Context, collectionID, storyID string) error {
	maxPos, err := s.collections.MaxPosition(ctx, collectionID)
	if err != nil {
		logger.Error("read max position", zap.String("collection", collectionID), zap.Error(err))
		s.notifier.Error("Error", "Failed to add story to collection. Please try again.")
		return err
	}

	m := &model.CollectionStory{
		ID:           uuid.NewString(),
		CollectionID: collectionID,
		StoryID:      storyID,
		Position:     maxPos + 1,
		CreatedAt:    time.Now(),
	}
	if err := s.collections.InsertMembership(ctx, m); err != nil {
		logger.Error("insert membership", zap.String("collection", collectionID), zap.String("story", storyID), zap.Error(err))
		s.notifier.Error("Error", "Failed to add story to collection. Please try again.")
		return err
	}

	s.invalidate(ctx, kindCollectionStories)
	s.notifier.Success("Story added", "Story has been added to your collection.")
	return nil
}

// GetWithStories returns the collection joined with its ordered story
// summaries, or (nil, nil) when the collection does not exist.
func (s *CollectionService) GetWithStories(ctx context.Context, collectionID string) (*CollectionWithStories, error) {
	key := cache.NewKey(kindCollectionStories, collectionID)
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) (*CollectionWithStories, error) {
		c, err := s.collections.GetByID(ctx, collectionID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}

		rows, err := s.collections.ListMemberships(ctx, collectionID)
		if err != nil {
			return nil, err
		}
		out := &CollectionWithStories{
			Collection: *c,
			Stories:    make([]CollectionStoryItem, 0, len(rows)),
		}
		for _, row := range rows {
			author := "Unknown"
			if row.AuthorUsername != nil {
				author = *row.AuthorUsername
			}
			out.Stories = append(out.Stories, CollectionStoryItem{
				ID:        row.StoryID,
				Title:     row.Title,
				Author:    author,
				Genre:     row.Genre,
				WordCount: row.WordCount,
				Position:  row.Position,
			})
		}
		return out, nil
	})
}

// ListOwned returns userID's collections, newest first. An empty identity
// yields an empty list without querying.
func (s *CollectionService) ListOwned(ctx context.Context, userID string) ([]model.Collection, error) {
	if userID == "" {
		return []model.Collection{}, nil
	}
	key := cache.NewKey(kindCollections, userID)
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) ([]model.Collection, error) {
		return s.collections.ListByOwner(ctx, userID)
	})
}

// ListPublic returns publicly visible collections, newest first,
// unpaginated.
func (s *CollectionService) ListPublic(ctx context.Context) ([]model.Collection, error) {
	key := cache.NewKey(kindPublicCollections)
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) ([]model.Collection, error) {
		return s.collections.ListPublic(ctx)
	})
}

func (s *CollectionService) invalidate(ctx context.Context, kind string) {
	if err := s.loader.Invalidate(ctx, kind); err != nil {
		logger.Warn("cache invalidation failed", zap.String("kind", kind), zap.Error(err))
	}
}

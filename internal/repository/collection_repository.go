package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/model"
)

// MembershipRow is one entry of a collection's story list: the membership
// position joined with a lightweight story summary and its author name.
type MembershipRow struct {
	Position       int
	StoryID        string
	Title          string
	Genre          string
	WordCount      int
	AuthorUsername *string
}

// CollectionRepository persists collections and their story memberships.
type CollectionRepository interface {
	Create(ctx context.Context, c *model.Collection) error

	// Delete removes the collection row only. Membership rows must be
	// removed first via DeleteMemberships; there is no cascade.
	Delete(ctx context.Context, collectionID string) error

	// GetByID returns (nil, nil) when the collection does not exist.
	GetByID(ctx context.Context, collectionID string) (*model.Collection, error)

	// ListByOwner returns the user's collections, newest first.
	ListByOwner(ctx context.Context, userID string) ([]model.Collection, error)

	// ListPublic returns publicly visible collections, newest first.
	ListPublic(ctx context.Context) ([]model.Collection, error)

	// MaxPosition returns the highest membership position in the
	// collection, 0 when it has no memberships.
	MaxPosition(ctx context.Context, collectionID string) (int, error)

	InsertMembership(ctx context.Context, m *model.CollectionStory) error

	DeleteMemberships(ctx context.Context, collectionID string) error

	// ListMemberships returns the collection's stories ordered by
	// position ascending.
	ListMemberships(ctx context.Context, collectionID string) ([]MembershipRow, error)
}

type gormCollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &gormCollectionRepository{db: db}
}

func (r *gormCollectionRepository) Create(ctx context.Context, c *model.Collection) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *gormCollectionRepository) Delete(ctx context.Context, collectionID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", collectionID).
		Delete(&model.Collection{}).Error
}

func (r *gormCollectionRepository) GetByID(ctx context.Context, collectionID string) (*model.Collection, error) {
	var c model.Collection
	err := r.db.WithContext(ctx).Where("id = ?", collectionID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *gormCollectionRepository) ListByOwner(ctx context.Context, userID string) ([]model.Collection, error) {
	var list []model.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *gormCollectionRepository) ListPublic(ctx context.Context) ([]model.Collection, error) {
	var list []model.Collection
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *gormCollectionRepository) MaxPosition(ctx context.Context, collectionID string) (int, error) {
	var m model.CollectionStory
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("position DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return m.Position, nil
}

func (r *gormCollectionRepository) InsertMembership(ctx context.Context, m *model.CollectionStory) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormCollectionRepository) DeleteMemberships(ctx context.Context, collectionID string) error {
	return r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Delete(&model.CollectionStory{}).Error
}

func (r *gormCollectionRepository) ListMemberships(ctx context.Context, collectionID string) ([]MembershipRow, error) {
	var rows []MembershipRow
	err := r.db.WithContext(ctx).
		Table("collection_stories").
		Select("collection_stories.position, stories.id AS story_id, stories.title, stories.genre, "+
			"stories.word_count, profiles.username AS author_username").
		Joins("JOIN stories ON stories.id = collection_stories.story_id").
		Joins("LEFT JOIN profiles ON profiles.id = stories.author_id").
		Where("collection_stories.collection_id = ?", collectionID).
		Order("collection_stories.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

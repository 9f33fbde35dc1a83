package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/model"
)

// StoryFilter narrows a feed query. Zero values mean "no restriction";
// the "All" genre sentinel is resolved to an empty Genre by the caller.
type StoryFilter struct {
	Search string
	Genre  string
}

// StoryRow is one feed row: story columns plus the joined author profile.
// Author fields are nil when the author has no profile row.
type StoryRow struct {
	ID             string
	Title          string
	Content        string
	Genre          string
	AuthorID       string
	IsPublished    bool
	WordCount      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorUsername *string
	AuthorAvatar   *string
}

// StoryRepository reads stories for the feed and site stats.
type StoryRepository interface {
	// ListPublished returns published stories matching f, newest first,
	// within the [offset, offset+limit) row range.
	ListPublished(ctx context.Context, f StoryFilter, offset, limit int) ([]StoryRow, error)

	// Create inserts a story row.
	Create(ctx context.Context, story *model.Story) error

	// Count counts all story rows, published or not.
	Count(ctx context.Context) (int64, error)
}

type gormStoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &gormStoryRepository{db: db}
}

func (r *gormStoryRepository) ListPublished(ctx context.Context, f StoryFilter, offset, limit int) ([]StoryRow, error) {
	tx := r.db.WithContext(ctx).
		Table("stories").
		Select("stories.id, stories.title, stories.content, stories.genre, stories.author_id, "+
			"stories.is_published, stories.word_count, stories.created_at, stories.updated_at, "+
			"profiles.username AS author_username, profiles.avatar_url AS author_avatar").
		Joins("LEFT JOIN profiles ON profiles.id = stories.author_id").
		Where("stories.is_published = ?", true)

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where("LOWER(stories.title) LIKE ? OR LOWER(stories.content) LIKE ?", pattern, pattern)
	}
	if f.Genre != "" {
		tx = tx.Where("stories.genre = ?", f.Genre)
	}

	var rows []StoryRow
	err := tx.Order("stories.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormStoryRepository) Create(ctx context.Context, story *model.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *gormStoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Story{}).Count(&count).Error
	return count, err
}

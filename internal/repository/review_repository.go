package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/model"
)

// ReviewRow is a review joined with the reviewer's profile.
type ReviewRow struct {
	ID               string
	StoryID          string
	ReviewerID       string
	Rating           int
	ReviewText       string
	CreatedAt        time.Time
	ReviewerUsername *string
	ReviewerAvatar   *string
}

// ReviewRepository reads reviews and their ratings.
type ReviewRepository interface {
	Create(ctx context.Context, rev *model.Review) error
	Count(ctx context.Context) (int64, error)

	// ListRatings returns every rating value in the reviews table.
	ListRatings(ctx context.Context) ([]int, error)

	// ListForStory returns a story's reviews, newest first, with the
	// reviewer profile joined.
	ListForStory(ctx context.Context, storyID string) ([]ReviewRow, error)
}

type gormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(ctx context.Context, rev *model.Review) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *gormReviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Count(&count).Error
	return count, err
}

func (r *gormReviewRepository) ListRatings(ctx context.Context) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *gormReviewRepository) ListForStory(ctx context.Context, storyID string) ([]ReviewRow, error) {
	var rows []ReviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.story_id, reviews.reviewer_id, reviews.rating, reviews.review_text, "+
			"reviews.created_at, profiles.username AS reviewer_username, profiles.avatar_url AS reviewer_avatar").
		Joins("LEFT JOIN profiles ON profiles.id = reviews.reviewer_id").
		Where("reviews.story_id = ?", storyID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package service

import (
	"context"
	"time"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/repository"
)

// ReviewSnapshot is the reader-facing projection of a review.
type ReviewSnapshot struct {
	ID               string    `json:"id"`
	StoryID          string    `json:"story_id"`
	ReviewerID       string    `json:"reviewer_id"`
	Rating           int       `json:"rating"`
	ReviewText       string    `json:"review_text,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	ReviewerUsername string    `json:"reviewer_username"`
	ReviewerAvatar   *string   `json:"reviewer_avatar,omitempty"`
}

// ReviewService serves per-story review listings.
type ReviewService struct {
	reviews repository.ReviewRepository
	loader  *cache.Loader
}

func NewReviewService(reviews repository.ReviewRepository, loader *cache.Loader) *ReviewService {
	return &ReviewService{reviews: reviews, loader: loader}
}

// ListForStory returns a story's reviews, newest first.
func (s *ReviewService) ListForStory(ctx context.Context, storyID string) ([]ReviewSnapshot, error) {
	key := cache.NewKey(kindStoryReviews, storyID)
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) ([]ReviewSnapshot, error) {
		rows, err := s.reviews.ListForStory(ctx, storyID)
		if err != nil {
			return nil, err
		}
		out := make([]ReviewSnapshot, 0, len(rows))
		for _, row := range rows {
			username := "Unknown"
			if row.ReviewerUsername != nil {
				username = *row.ReviewerUsername
			}
			out = append(out, ReviewSnapshot{
				ID:               row.ID,
				StoryID:          row.StoryID,
				ReviewerID:       row.ReviewerID,
				Rating:           row.Rating,
				ReviewText:       row.ReviewText,
				CreatedAt:        row.CreatedAt,
				ReviewerUsername: username,
				ReviewerAvatar:   row.ReviewerAvatar,
			})
		}
		return out, nil
	})
}

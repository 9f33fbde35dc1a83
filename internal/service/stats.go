package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/repository"
)

// StatsSnapshot is the derived site-wide aggregate shown on the home
// page. It is computed fresh on every cache miss, never persisted.
type StatsSnapshot struct {
	TotalStories  int64   `json:"total_stories"`
	TotalAuthors  int64   `json:"total_authors"`
	TotalReviews  int64   `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}

// StatsService computes StatsSnapshot from the story, profile and review
// tables.
type StatsService struct {
	stories  repository.StoryRepository
	profiles repository.ProfileRepository
	reviews  repository.ReviewRepository
	loader   *cache.Loader
}

func NewStatsService(stories repository.StoryRepository, profiles repository.ProfileRepository, reviews repository.ReviewRepository, loader *cache.Loader) *StatsService {
	return &StatsService{stories: stories, profiles: profiles, reviews: reviews, loader: loader}
}

// Snapshot returns the current site aggregates. The three counts are
// issued concurrently and joined; the average rating is rounded to one
// decimal place and is 0 when there are no reviews. The story count
// covers all rows, drafts included.
func (s *StatsService) Snapshot(ctx context.Context) (*StatsSnapshot, error) {
	key := cache.NewKey(kindStoriesStats)
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) (*StatsSnapshot, error) {
		var stories, authors, reviews int64

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stories, err = s.stories.Count(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			authors, err = s.profiles.Count(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			reviews, err = s.reviews.Count(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		ratings, err := s.reviews.ListRatings(ctx)
		if err != nil {
			return nil, err
		}
		var avg float64
		if len(ratings) > 0 {
			var sum int
			for _, r := range ratings {
				sum += r
			}
			avg = float64(sum) / float64(len(ratings))
		}

		return &StatsSnapshot{
			TotalStories:  stories,
			TotalAuthors:  authors,
			TotalReviews:  reviews,
			AverageRating: math.Round(avg*10) / 10,
		}, nil
	})
}

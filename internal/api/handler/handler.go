package handler

import (
	"github.com/storyverse/storyverse/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	feed        *service.FeedService
	collections *service.CollectionService
	stats       *service.StatsService
	reviews     *service.ReviewService
}

func New(feed *service.FeedService, collections *service.CollectionService, stats *service.StatsService, reviews *service.ReviewService) *Handler {
	return &Handler{feed: feed, collections: collections, stats: stats, reviews: reviews}
}

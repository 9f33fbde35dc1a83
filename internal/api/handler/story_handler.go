package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/storyverse/storyverse/internal/model"
	"github.com/storyverse/storyverse/internal/service"
	"github.com/storyverse/storyverse/pkg/response"
)

type listStoriesRequest struct {
	Search string `form:"search"`
	Genre  string `form:"genre" binding:"omitempty,storygenre"`
	Page   int    `form:"page" binding:"omitempty,min=0"`
}

// ValidGenre is the "storygenre" binding rule: the sentinel "All" or any
// catalog value.
func ValidGenre(fl validator.FieldLevel) bool {
	g := fl.Field().String()
	return g == model.GenreAll || model.IsGenre(g)
}

// ListStories serves one feed page.
// @Summary List published stories
// @Param search query string false "free-text filter over title and content"
// @Param genre query string false "genre filter, All for no restriction"
// @Param page query int false "zero-based page index" default(0)
// @Router /api/v1/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	var req listStoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Genre == "" {
		req.Genre = model.GenreAll
	}
	page, err := h.feed.FetchPage(c.Request.Context(), service.FeedQuery{Search: req.Search, Genre: req.Genre}, req.Page)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}

// StoriesStats serves the site-wide aggregates.
// @Summary Site statistics
// @Router /api/v1/stories/stats [get]
func (h *Handler) StoriesStats(c *gin.Context) {
	snap, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, snap)
}

// ListStoryReviews serves a story's reviews, newest first.
// @Summary List reviews of a story
// @Param id path string true "story id"
// @Router /api/v1/stories/{id}/reviews [get]
func (h *Handler) ListStoryReviews(c *gin.Context) {
	reviews, err := h.reviews.ListForStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, reviews)
}

// ListGenres serves the genre catalog. The "All" sentinel is not part of
// the catalog and is supplied by clients.
// @Summary Genre catalog
// @Router /api/v1/genres [get]
func (h *Handler) ListGenres(c *gin.Context) {
	response.Success(c, model.StoryGenres)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/storyverse/storyverse/internal/auth"
	"github.com/storyverse/storyverse/internal/service"
	"github.com/storyverse/storyverse/pkg/response"
)

type createCollectionRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    bool   `json:"is_public"`
}

type addStoryRequest struct {
	StoryID string `json:"story_id" binding:"required"`
}

// CreateCollection creates a collection owned by the caller.
// @Summary Create a collection
// @Param request body createCollectionRequest true "collection fields"
// @Router /api/v1/collections [post]
func (h *Handler) CreateCollection(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := h.collections.Create(c.Request.Context(), auth.UserID(c), service.CreateCollectionInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, created)
}

// DeleteCollection deletes a collection and its memberships.
// @Summary Delete a collection
// @Param id path string true "collection id"
// @Router /api/v1/collections/{id} [delete]
func (h *Handler) DeleteCollection(c *gin.Context) {
	if err := h.collections.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddStoryToCollection appends a story to a collection.
// @Summary Add a story to a collection
// @Param id path string true "collection id"
// @Param request body addStoryRequest true "story reference"
// @Router /api/v1/collections/{id}/stories [post]
func (h *Handler) AddStoryToCollection(c *gin.Context) {
	var req addStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.collections.AddStory(c.Request.Context(), c.Param("id"), req.StoryID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetCollection serves a collection with its ordered stories.
// @Summary Read a collection with stories
// @Param id path string true "collection id"
// @Router /api/v1/collections/{id} [get]
func (h *Handler) GetCollection(c *gin.Context) {
	out, err := h.collections.GetWithStories(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if out == nil {
		response.NotFound(c, "collection not found")
		return
	}
	response.Success(c, out)
}

// ListMyCollections serves the caller's collections, newest first.
// @Summary List own collections
// @Router /api/v1/collections [get]
func (h *Handler) ListMyCollections(c *gin.Context) {
	list, err := h.collections.ListOwned(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// ListPublicCollections serves publicly visible collections.
// @Summary List public collections
// @Router /api/v1/collections/public [get]
func (h *Handler) ListPublicCollections(c *gin.Context) {
	list, err := h.collections.ListPublic(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

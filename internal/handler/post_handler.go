package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/service"
)

// PostHandler handles the feed endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// GetPosts godoc
// @Summary List one feed page
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /feed/posts [get]
func (h *PostHandler) GetPosts(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	posts, total, err := h.postService.GetPosts(c.Request().Context(), page)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "posts fetched",
		"posts":      posts,
		"totalItems": total,
	})
}

// GetPost godoc
// @Summary Fetch a single post
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feed/post/{postId} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		return httpError(apperrors.NotFound("post not found"))
	}

	post, err := h.postService.GetPost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "post fetched",
		"post":    post,
	})
}

// CreatePost godoc
// @Summary Create a post with an image attachment
// @Tags feed
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param image formData file true "Image (png/jpg/jpeg)"
// @Success 201 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /feed/post [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return httpError(apperrors.Unauthenticated("not authenticated"))
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil // the service rejects a missing image with field detail
	}

	post, err := h.postService.CreatePost(c.Request().Context(), userID,
		c.FormValue("title"), c.FormValue("content"), image)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "post created",
		"post":    post,
		"creator": map[string]interface{}{
			"id":   post.Creator.ID,
			"name": post.Creator.Name,
		},
	})
}

// UpdatePost godoc
// @Summary Update an owned post
// @Tags feed
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param image formData file false "Replacement image"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /feed/post/{postId} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return httpError(apperrors.Unauthenticated("not authenticated"))
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		return httpError(apperrors.NotFound("post not found"))
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil // keep the existing image
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), userID, postID,
		c.FormValue("title"), c.FormValue("content"), image)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "post updated",
		"post":    post,
	})
}

// DeletePost godoc
// @Summary Delete an owned post
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /feed/post/{postId} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return httpError(apperrors.Unauthenticated("not authenticated"))
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		return httpError(apperrors.NotFound("post not found"))
	}

	if err := h.postService.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "post deleted"})
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// VideoHandler handles video requests
type VideoHandler struct {
	service service.VideoService
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(service service.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

// List godoc
// @Summary      List videos
// @Description  Published videos, paginated. Searching uses Elasticsearch when enabled.
// @Tags         videos
// @Produce      json
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Page size (default 10, max 100)"
// @Param        query    query string false "Title/description search"
// @Param        sortBy   query string false "createdAt | views | duration | title"
// @Param        sortType query string false "asc | desc"
// @Param        userId   query int    false "Owner filter"
// @Success      200 {object} common.APIResponse{data=domain.VideoListResult}
// @Router       /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var q domain.VideoListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), q, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Videos fetched successfully", result)
}

// Publish godoc
// @Summary      Publish a video
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title       formData string true  "Title"
// @Param        description formData string true  "Description"
// @Param        duration    formData number false "Duration in seconds"
// @Param        videoFile   formData file   true  "Video file"
// @Param        thumbnail   formData file   true  "Thumbnail image"
// @Success      201 {object} common.APIResponse{data=domain.VideoResponse}
// @Failure      400 {object} common.APIError
// @Router       /videos [post]
func (h *VideoHandler) Publish(c *gin.Context) {
	var req domain.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	video, err := h.service.Publish(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, "Video published successfully", video)
}

// Get godoc
// @Summary      Get a video
// @Description  Increments the view count and records watch history for logged-in viewers.
// @Tags         videos
// @Produce      json
// @Param        videoId path int true "Video ID"
// @Success      200 {object} common.APIResponse{data=domain.VideoResponse}
// @Failure      404 {object} common.APIError
// @Router       /videos/{videoId} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}

	video, err := h.service.Get(c.Request.Context(), videoID, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Video fetched successfully", video)
}

// Update godoc
// @Summary      Update a video
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        videoId     path     int    true  "Video ID"
// @Param        title       formData string true  "Title"
// @Param        description formData string true  "Description"
// @Param        thumbnail   formData file   false "New thumbnail"
// @Success      200 {object} common.APIResponse{data=domain.VideoResponse}
// @Failure      403 {object} common.APIError
// @Router       /videos/{videoId} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}

	var req domain.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	video, err := h.service.Update(c.Request.Context(), videoID, middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Video updated successfully", video)
}

// Delete godoc
// @Summary      Delete a video
// @Description  Removes the video with its comments, reactions, playlist entries and search document.
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        videoId path int true "Video ID"
// @Success      200 {object} common.APIResponse
// @Failure      403 {object} common.APIError
// @Router       /videos/{videoId} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), videoID, middleware.GetUserID(c)); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Video deleted successfully", nil)
}

// TogglePublish godoc
// @Summary      Toggle a video's published flag
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        videoId path int true "Video ID"
// @Success      200 {object} common.APIResponse{data=domain.VideoResponse}
// @Router       /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}

	video, err := h.service.TogglePublish(c.Request.Context(), videoID, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Publish status toggled successfully", video)
}

// LikedVideos godoc
// @Summary      Videos the caller currently likes
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} common.APIResponse{data=[]domain.VideoResponse,meta=common.Meta}
// @Router       /likes/videos [get]
func (h *VideoHandler) LikedVideos(c *gin.Context) {
	page, limit := pageParams(c)
	videos, meta, err := h.service.LikedVideos(c.Request.Context(), middleware.GetUserID(c), page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.PaginatedResponse(c, "Liked videos fetched successfully", videos, meta)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// CommentHandler handles video comment requests
type CommentHandler struct {
	service service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// List godoc
// @Summary      List comments on a video
// @Description  Newest first; every comment carries likeCount, dislikeCount and the viewer's reaction.
// @Tags         comments
// @Produce      json
// @Param        videoId path  int true  "Video ID"
// @Param        page    query int false "Page"
// @Param        limit   query int false "Page size"
// @Success      200 {object} common.APIResponse{data=[]domain.CommentResponse,meta=common.Meta}
// @Failure      404 {object} common.APIError
// @Router       /comments/{videoId} [get]
func (h *CommentHandler) List(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}

	page, limit := pageParams(c)
	comments, meta, err := h.service.List(c.Request.Context(), videoID, middleware.GetUserID(c), page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.PaginatedResponse(c, "Comments fetched successfully", comments, meta)
}

// Add godoc
// @Summary      Comment on a video
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        videoId path int                   true "Video ID"
// @Param        body    body domain.CommentRequest true "Comment"
// @Success      201 {object} common.APIResponse{data=domain.CommentResponse}
// @Failure      404 {object} common.APIError
// @Router       /comments/{videoId} [post]
func (h *CommentHandler) Add(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}

	var req domain.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.service.Add(c.Request.Context(), videoID, middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, "Comment added successfully", comment)
}

// Update godoc
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int                   true "Comment ID"
// @Param        body      body domain.CommentRequest true "Comment"
// @Success      200 {object} common.APIResponse{data=domain.CommentResponse}
// @Failure      403 {object} common.APIError
// @Router       /comments/c/{commentId} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "comment id")
	if !ok {
		return
	}

	var req domain.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.service.Update(c.Request.Context(), commentID, middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Comment updated successfully", comment)
}

// Delete godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "Comment ID"
// @Success      200 {object} common.APIResponse
// @Failure      403 {object} common.APIError
// @Router       /comments/c/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "comment id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), commentID, middleware.GetUserID(c)); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Comment deleted successfully", nil)
}

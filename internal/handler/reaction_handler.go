package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// ReactionHandler handles like/dislike requests
type ReactionHandler struct {
	service service.ReactionService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(service service.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

// ToggleResponse is returned by the per-type like toggles
type ToggleResponse struct {
	*domain.ToggleResult
	*domain.ReactionSummary
}

// Toggle godoc
// @Summary      Toggle a like or dislike
// @Description  Same kind again clears the reaction, the opposite kind swaps it. Returns fresh counts.
// @Tags         reactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        targetType path string                       true "video | comment | post"
// @Param        targetId   path int                          true "Target ID"
// @Param        body       body domain.ToggleReactionRequest true "Reaction kind"
// @Success      200 {object} common.APIResponse{data=domain.ReactionSummary}
// @Failure      400 {object} common.APIError
// @Failure      401 {object} common.APIError
// @Failure      404 {object} common.APIError
// @Failure      409 {object} common.APIError
// @Router       /reactions/{targetType}/{targetId} [post]
func (h *ReactionHandler) Toggle(c *gin.Context) {
	target, ok := parseTarget(c, domain.TargetType(c.Param("targetType")), "targetId")
	if !ok {
		return
	}

	var req domain.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	_, summary, err := h.toggle(c, target, domain.ReactionKind(req.Kind))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Reaction updated successfully", summary)
}

// Status godoc
// @Summary      Reaction counts for a target
// @Description  actorReaction is null for anonymous callers.
// @Tags         reactions
// @Produce      json
// @Param        targetType path string true "video | comment | post"
// @Param        targetId   path int    true "Target ID"
// @Success      200 {object} common.APIResponse{data=domain.ReactionSummary}
// @Failure      404 {object} common.APIError
// @Router       /reactions/{targetType}/{targetId} [get]
func (h *ReactionHandler) Status(c *gin.Context) {
	target, ok := parseTarget(c, domain.TargetType(c.Param("targetType")), "targetId")
	if !ok {
		return
	}

	summary, err := h.service.Recount(c.Request.Context(), target, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Reactions fetched successfully", summary)
}

// ToggleVideoLike godoc
// @Summary      Toggle a like on a video
// @Tags         likes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        videoId path int                          true  "Video ID"
// @Param        body    body domain.OptionalToggleRequest false "Kind, defaults to like"
// @Success      200 {object} common.APIResponse{data=ToggleResponse}
// @Router       /likes/toggle/v/{videoId} [post]
func (h *ReactionHandler) ToggleVideoLike(c *gin.Context) {
	h.legacyToggle(c, domain.TargetVideo, "videoId")
}

// ToggleCommentLike godoc
// @Summary      Toggle a like on a comment
// @Tags         likes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int                          true  "Comment ID"
// @Param        body      body domain.OptionalToggleRequest false "Kind, defaults to like"
// @Success      200 {object} common.APIResponse{data=ToggleResponse}
// @Router       /likes/toggle/c/{commentId} [post]
func (h *ReactionHandler) ToggleCommentLike(c *gin.Context) {
	h.legacyToggle(c, domain.TargetComment, "commentId")
}

// ToggleTweetLike godoc
// @Summary      Toggle a like on a tweet
// @Tags         likes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId path int                          true  "Tweet ID"
// @Param        body    body domain.OptionalToggleRequest false "Kind, defaults to like"
// @Success      200 {object} common.APIResponse{data=ToggleResponse}
// @Router       /likes/toggle/t/{tweetId} [post]
func (h *ReactionHandler) ToggleTweetLike(c *gin.Context) {
	h.legacyToggle(c, domain.TargetPost, "tweetId")
}

func (h *ReactionHandler) legacyToggle(c *gin.Context, targetType domain.TargetType, param string) {
	target, ok := parseTarget(c, targetType, param)
	if !ok {
		return
	}

	// an empty body means like
	var req domain.OptionalToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	kind := domain.ReactionLike
	if req.Kind != "" {
		kind = domain.ReactionKind(req.Kind)
	}

	result, summary, err := h.toggle(c, target, kind)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Like toggled successfully", ToggleResponse{ToggleResult: result, ReactionSummary: summary})
}

// toggle applies the transition and recounts within the same request
func (h *ReactionHandler) toggle(c *gin.Context, target domain.Target, kind domain.ReactionKind) (*domain.ToggleResult, *domain.ReactionSummary, error) {
	ctx := c.Request.Context()
	actorID := middleware.GetUserID(c)

	result, err := h.service.Toggle(ctx, actorID, target, kind)
	if err != nil {
		return nil, nil, err
	}
	summary, err := h.service.Recount(ctx, target, actorID)
	if err != nil {
		return nil, nil, err
	}
	return result, summary, nil
}

func parseTarget(c *gin.Context, targetType domain.TargetType, param string) (domain.Target, bool) {
	id, ok := pathID(c, param, "target id")
	if !ok {
		return domain.Target{}, false
	}
	target := domain.Target{Type: targetType, ID: id}
	if err := target.Validate(); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid target type", err)
		return domain.Target{}, false
	}
	return target, true
}

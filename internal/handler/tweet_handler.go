package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// TweetHandler handles channel post requests
type TweetHandler struct {
	service service.TweetService
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(service service.TweetService) *TweetHandler {
	return &TweetHandler{service: service}
}

// Create godoc
// @Summary      Create a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body domain.TweetRequest true "Tweet"
// @Success      201 {object} common.APIResponse{data=domain.TweetResponse}
// @Router       /tweets [post]
func (h *TweetHandler) Create(c *gin.Context) {
	var req domain.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tweet, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, "Tweet created successfully", tweet)
}

// ListByUser godoc
// @Summary      List a channel's tweets
// @Tags         tweets
// @Produce      json
// @Param        username path string true "Channel username"
// @Success      200 {object} common.APIResponse{data=[]domain.TweetResponse}
// @Failure      404 {object} common.APIError
// @Router       /tweets/user/{username} [get]
func (h *TweetHandler) ListByUser(c *gin.Context) {
	tweets, err := h.service.ListByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Tweets fetched successfully", tweets)
}

// Update godoc
// @Summary      Edit a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId path int                 true "Tweet ID"
// @Param        body    body domain.TweetRequest true "Tweet"
// @Success      200 {object} common.APIResponse{data=domain.TweetResponse}
// @Failure      403 {object} common.APIError
// @Router       /tweets/{tweetId} [patch]
func (h *TweetHandler) Update(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId", "tweet id")
	if !ok {
		return
	}

	var req domain.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tweet, err := h.service.Update(c.Request.Context(), tweetID, middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Tweet updated successfully", tweet)
}

// Delete godoc
// @Summary      Delete a tweet
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId path int true "Tweet ID"
// @Success      200 {object} common.APIResponse
// @Router       /tweets/{tweetId} [delete]
func (h *TweetHandler) Delete(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId", "tweet id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tweetID, middleware.GetUserID(c)); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Tweet deleted successfully", nil)
}

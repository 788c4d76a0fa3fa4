package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// SubscriptionHandler handles channel subscription requests
type SubscriptionHandler struct {
	service service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Toggle godoc
// @Summary      Subscribe to or unsubscribe from a channel
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        channelId path int true "Channel (user) ID"
// @Success      200 {object} common.APIResponse{data=domain.SubscriptionToggleResult}
// @Failure      400 {object} common.APIError
// @Failure      404 {object} common.APIError
// @Router       /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, ok := pathID(c, "channelId", "channel id")
	if !ok {
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), middleware.GetUserID(c), channelID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	message := "Unsubscribed successfully"
	if result.Subscribed {
		message = "Subscribed successfully"
	}
	common.SuccessResponse(c, message, result)
}

// Subscribers godoc
// @Summary      List a channel's subscribers
// @Tags         subscriptions
// @Produce      json
// @Param        channelId path int true "Channel (user) ID"
// @Success      200 {object} common.APIResponse{data=domain.SubscriberList}
// @Router       /subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	channelID, ok := pathID(c, "channelId", "channel id")
	if !ok {
		return
	}

	list, err := h.service.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Subscribers fetched successfully", list)
}

// Channels godoc
// @Summary      List the channels a user subscribes to
// @Tags         subscriptions
// @Produce      json
// @Param        subscriberId path int true "Subscriber (user) ID"
// @Success      200 {object} common.APIResponse{data=domain.ChannelList}
// @Router       /subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) Channels(c *gin.Context) {
	subscriberID, ok := pathID(c, "subscriberId", "subscriber id")
	if !ok {
		return
	}

	list, err := h.service.Channels(c.Request.Context(), subscriberID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Subscribed channels fetched successfully", list)
}

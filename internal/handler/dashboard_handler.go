package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// DashboardHandler serves the creator dashboard
type DashboardHandler struct {
	service service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary      Channel totals for the caller
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.APIResponse{data=domain.ChannelStats}
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Channel stats fetched successfully", stats)
}

// Videos godoc
// @Summary      All of the caller's videos
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.APIResponse{data=[]domain.VideoResponse}
// @Router       /dashboard/videos [get]
func (h *DashboardHandler) Videos(c *gin.Context) {
	videos, err := h.service.Videos(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Channel videos fetched successfully", videos)
}

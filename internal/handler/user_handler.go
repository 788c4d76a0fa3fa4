package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// UserHandler handles account, channel and history requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CurrentUser godoc
// @Summary      Get the logged-in user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.APIResponse{data=domain.User}
// @Router       /users/current-user [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Current user fetched successfully", user)
}

// UpdateAccount godoc
// @Summary      Update full name and email
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body domain.UpdateAccountRequest true "Account details"
// @Success      200 {object} common.APIResponse{data=domain.User}
// @Failure      409 {object} common.APIError
// @Router       /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req domain.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.service.UpdateAccount(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Account details updated successfully", user)
}

// UpdateAvatar godoc
// @Summary      Replace the avatar image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image"
// @Success      200 {object} common.APIResponse{data=domain.User}
// @Router       /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Avatar file is missing", err)
		return
	}

	user, err := h.service.UpdateAvatar(c.Request.Context(), middleware.GetUserID(c), file)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Avatar image updated successfully", user)
}

// UpdateCoverImage godoc
// @Summary      Replace the cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage formData file true "Cover image"
// @Success      200 {object} common.APIResponse{data=domain.User}
// @Router       /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	file, err := c.FormFile("coverImage")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Cover image file is missing", err)
		return
	}

	user, err := h.service.UpdateCoverImage(c.Request.Context(), middleware.GetUserID(c), file)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Cover image updated successfully", user)
}

// ChannelProfile godoc
// @Summary      Get a channel profile
// @Tags         users
// @Produce      json
// @Param        username path string true "Channel username"
// @Success      200 {object} common.APIResponse{data=domain.ChannelProfile}
// @Failure      404 {object} common.APIError
// @Router       /users/c/{username} [get]
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.service.GetChannelProfile(c.Request.Context(), c.Param("username"), middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "User channel fetched successfully", profile)
}

// WatchHistory godoc
// @Summary      Get the current user's watch history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.APIResponse{data=[]domain.VideoResponse}
// @Router       /users/history [get]
func (h *UserHandler) WatchHistory(c *gin.Context) {
	videos, err := h.service.GetWatchHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Watch history fetched successfully", videos)
}

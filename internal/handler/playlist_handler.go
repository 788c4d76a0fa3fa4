package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
	"github.com/vidora/vidora-backend/pkg/ginutil"
)

// PlaylistHandler handles playlist requests
type PlaylistHandler struct {
	service service.PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler
func NewPlaylistHandler(service service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

// Create godoc
// @Summary      Create a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body domain.PlaylistRequest true "Playlist"
// @Success      201 {object} common.APIResponse{data=domain.PlaylistResponse}
// @Router       /playlist [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req domain.PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	playlist, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, "Playlist created successfully", playlist)
}

// ListByUser godoc
// @Summary      List a user's playlists
// @Tags         playlists
// @Produce      json
// @Param        userId query int true "Owner ID"
// @Success      200 {object} common.APIResponse{data=domain.PlaylistList}
// @Router       /playlist [get]
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	userID := ginutil.QueryUint64(c, "userId")
	if userID == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "userId is required", nil)
		return
	}

	list, err := h.service.ListByUser(c.Request.Context(), userID, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Playlists fetched successfully", list)
}

// Get godoc
// @Summary      Get a playlist with its videos
// @Tags         playlists
// @Produce      json
// @Param        playlistId path int true "Playlist ID"
// @Success      200 {object} common.APIResponse{data=domain.PlaylistResponse}
// @Failure      404 {object} common.APIError
// @Router       /playlist/{playlistId} [get]
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "playlist id")
	if !ok {
		return
	}

	playlist, err := h.service.Get(c.Request.Context(), playlistID, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Playlist fetched successfully", playlist)
}

// Update godoc
// @Summary      Rename a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId path int                    true "Playlist ID"
// @Param        body       body domain.PlaylistRequest true "Playlist"
// @Success      200 {object} common.APIResponse{data=domain.PlaylistResponse}
// @Failure      403 {object} common.APIError
// @Router       /playlist/{playlistId} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "playlist id")
	if !ok {
		return
	}

	var req domain.PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	playlist, err := h.service.Update(c.Request.Context(), playlistID, middleware.GetUserID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Playlist updated successfully", playlist)
}

// Delete godoc
// @Summary      Delete a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId path int true "Playlist ID"
// @Success      200 {object} common.APIResponse
// @Router       /playlist/{playlistId} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "playlist id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), playlistID, middleware.GetUserID(c)); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Playlist deleted successfully", nil)
}

// AddVideos godoc
// @Summary      Add videos to a playlist
// @Description  Videos already in the playlist are ignored.
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId path int                          true "Playlist ID"
// @Param        body       body domain.PlaylistVideosRequest true "Video IDs"
// @Success      200 {object} common.APIResponse{data=domain.PlaylistResponse}
// @Router       /playlist/add/{playlistId} [patch]
func (h *PlaylistHandler) AddVideos(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "playlist id")
	if !ok {
		return
	}

	var req domain.PlaylistVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	playlist, err := h.service.AddVideos(c.Request.Context(), playlistID, middleware.GetUserID(c), req.VideoIDs)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Videos added to playlist", playlist)
}

// RemoveVideo godoc
// @Summary      Remove a video from a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        videoId    path int true "Video ID"
// @Param        playlistId path int true "Playlist ID"
// @Success      200 {object} common.APIResponse{data=domain.PlaylistResponse}
// @Router       /playlist/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "video id")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId", "playlist id")
	if !ok {
		return
	}

	playlist, err := h.service.RemoveVideo(c.Request.Context(), playlistID, videoID, middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Video removed from playlist", playlist)
}

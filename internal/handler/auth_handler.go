package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/config"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/middleware"
	"github.com/vidora/vidora-backend/internal/service"
)

// AuthHandler handles registration, login and token lifecycle requests
type AuthHandler struct {
	service service.AuthService
	config  *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, config: cfg}
}

// Register godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        username    formData string true  "Username"
// @Param        fullName    formData string true  "Full name"
// @Param        email       formData string true  "Email"
// @Param        password    formData string true  "Password"
// @Param        avatar      formData file   true  "Avatar image"
// @Param        coverImage  formData file   false "Cover image"
// @Success      201 {object} common.APIResponse{data=domain.AuthResult}
// @Failure      400 {object} common.APIError
// @Failure      409 {object} common.APIError
// @Router       /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	h.setTokenCookies(c, result)
	common.CreatedResponse(c, "User registered successfully", result)
}

// Login godoc
// @Summary      Log in with username or email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body body domain.LoginRequest true "Credentials"
// @Success      200 {object} common.APIResponse{data=domain.AuthResult}
// @Failure      400 {object} common.APIError
// @Failure      401 {object} common.APIError
// @Failure      404 {object} common.APIError
// @Router       /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Username == "" && req.Email == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Username or email is required", nil)
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	h.setTokenCookies(c, result)
	common.SuccessResponse(c, "User logged in successfully", result)
}

// Logout godoc
// @Summary      Log out the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.APIResponse
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		common.HandleError(c, err)
		return
	}

	h.clearTokenCookies(c)
	common.SuccessResponse(c, "User logged out", nil)
}

// RefreshToken godoc
// @Summary      Rotate the refresh token
// @Description  Reads the refresh token from the refreshToken cookie, falling back to the body.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body body domain.RefreshRequest false "Refresh token"
// @Success      200 {object} common.APIResponse{data=domain.AuthResult}
// @Failure      401 {object} common.APIError
// @Router       /users/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || token == "" {
		var req domain.RefreshRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized request", common.ErrInvalidToken)
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearTokenCookies(c)
		common.HandleError(c, err)
		return
	}

	h.setTokenCookies(c, result)
	common.SuccessResponse(c, "Access token refreshed", result)
}

// ChangePassword godoc
// @Summary      Change the current user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body domain.ChangePasswordRequest true "Old and new password"
// @Success      200 {object} common.APIResponse
// @Failure      400 {object} common.APIError
// @Router       /users/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, "Password changed successfully", nil)
}

// setTokenCookies sets both tokens as httpOnly cookies
func (h *AuthHandler) setTokenCookies(c *gin.Context, result *domain.AuthResult) {
	secure := h.config.Server.SecureCookies
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, result.AccessToken, h.config.JWT.ExpiresIn, "/", "", secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, result.RefreshToken, h.config.JWT.RefreshIn, "/", "", secure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	secure := h.config.Server.SecureCookies
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", secure, true)
}

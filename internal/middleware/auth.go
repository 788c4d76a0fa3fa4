package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/pkg/jwt"
)

// Cookie names shared with the auth handler
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// JWTAuth requires a valid access token from the Authorization header or the accessToken cookie
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized request", err)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid access token", err)
			}
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// OptionalJWTAuth identifies the caller when a valid token is present and never rejects
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := extractToken(c); err == nil {
			if claims, err := jwtManager.VerifyToken(tokenString); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUsername, claims.Username)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("invalid authorization header format")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("missing access token")
}

// GetUserID returns the authenticated user id, or 0 for anonymous requests
func GetUserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// GetUsername returns the authenticated username, or ""
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

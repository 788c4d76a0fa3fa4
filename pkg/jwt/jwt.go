package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload carried by access and refresh tokens
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"`
}

// Manager issues and verifies HMAC-signed tokens.
// Access and refresh tokens are signed with separate secrets.
type Manager struct {
	secretKey        []byte
	refreshSecretKey []byte
	expiresIn        time.Duration
	refreshIn        time.Duration
}

// NewManager creates a token manager. expiresIn and refreshIn are in seconds.
// An empty refreshSecret falls back to secret.
func NewManager(secret, refreshSecret string, expiresIn, refreshIn int) *Manager {
	if refreshSecret == "" {
		refreshSecret = secret
	}
	return &Manager{
		secretKey:        []byte(secret),
		refreshSecretKey: []byte(refreshSecret),
		expiresIn:        time.Duration(expiresIn) * time.Second,
		refreshIn:        time.Duration(refreshIn) * time.Second,
	}
}

// AccessTTL returns the access token lifetime
func (m *Manager) AccessTTL() time.Duration { return m.expiresIn }

// RefreshTTL returns the refresh token lifetime
func (m *Manager) RefreshTTL() time.Duration { return m.refreshIn }

// GenerateAccessToken issues a short-lived access token
func (m *Manager) GenerateAccessToken(userID uint64, username, email string) (string, error) {
	claims := &Claims{
		RegisteredClaims: m.registered(userID, m.expiresIn),
		UserID:           userID,
		Username:         username,
		Email:            email,
		TokenType:        TokenTypeAccess,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

// GenerateRefreshToken issues a long-lived refresh token
func (m *Manager) GenerateRefreshToken(userID uint64) (string, error) {
	claims := &Claims{
		RegisteredClaims: m.registered(userID, m.refreshIn),
		UserID:           userID,
		TokenType:        TokenTypeRefresh,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecretKey)
}

// VerifyToken validates an access token
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.secretKey, TokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.refreshSecretKey, TokenTypeRefresh)
}

func (m *Manager) registered(userID uint64, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *Manager) verify(tokenString string, key []byte, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

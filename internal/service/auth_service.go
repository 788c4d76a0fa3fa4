package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/pkg/jwt"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResult, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResult, error)
	Logout(ctx context.Context, userID uint64) error
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	ChangePassword(ctx context.Context, userID uint64, req *domain.ChangePasswordRequest) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	media      MediaUploader
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager, media MediaUploader) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		media:      media,
	}
}

// HashPassword hashes a plain password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Register creates an account and signs it in. The avatar is required, the cover image optional.
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)
	if username == "" || email == "" || fullName == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrInvalidInput)
	}
	if req.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", common.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.media.Upload(ctx, FolderAvatars, req.Avatar)
	if err != nil {
		return nil, err
	}
	uploaded := []string{avatarURL}

	var coverURL string
	if req.CoverImage != nil {
		coverURL, err = s.media.Upload(ctx, FolderCovers, req.CoverImage)
		if err != nil {
			s.discardUploads(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, coverURL)
	}

	user := &domain.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.discardUploads(ctx, uploaded)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, err
	}

	pkglogger.GetLogger().Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return s.issueTokens(ctx, user)
}

// Login authenticates by username or email and issues a token pair
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email is required", common.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByLogin(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	if !checkPassword(user.Password, req.Password) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Logout forgets the stored refresh token
func (s *authService) Logout(ctx context.Context, userID uint64) error {
	return s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"refresh_token": ""})
}

// Refresh rotates the token pair. A refresh token is valid once.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, common.ErrUnauthorized
	}

	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken != refreshToken {
		return nil, common.ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

// ChangePassword verifies the old password before storing the new one
func (s *authService) ChangePassword(ctx context.Context, userID uint64, req *domain.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return common.ErrUserNotFound
	}
	if !checkPassword(user.Password, req.OldPassword) {
		return common.ErrWrongPassword
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": hashed})
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"refresh_token": refreshToken}); err != nil {
		return nil, err
	}
	user.RefreshToken = refreshToken

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) discardUploads(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := s.media.Delete(ctx, u); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("url", u).Msg("failed to remove orphaned upload")
		}
	}
}

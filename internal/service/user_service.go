package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/pkg/cache"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

const historyLimit = 100

// UserService account and channel operations
type UserService interface {
	GetCurrentUser(ctx context.Context, userID uint64) (*domain.User, error)
	UpdateAccount(ctx context.Context, userID uint64, req *domain.UpdateAccountRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID uint64, file *multipart.FileHeader) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID uint64, file *multipart.FileHeader) (*domain.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID uint64) (*domain.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID uint64) ([]*domain.VideoResponse, error)
}

type userService struct {
	userRepo    repository.UserRepository
	subRepo     repository.SubscriptionRepository
	historyRepo repository.HistoryRepository
	media       MediaUploader
	cache       cache.Service
}

// NewUserService creates a new UserService. cacheSvc may be nil.
func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	historyRepo repository.HistoryRepository,
	media MediaUploader,
	cacheSvc cache.Service,
) UserService {
	return &userService{
		userRepo:    userRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
		media:       media,
		cache:       cacheSvc,
	}
}

func (s *userService) GetCurrentUser(ctx context.Context, userID uint64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateAccount(ctx context.Context, userID uint64, req *domain.UpdateAccountRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.userRepo.EmailTakenByOther(ctx, email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrUserAlreadyExists
	}

	fields := map[string]interface{}{
		"full_name": strings.TrimSpace(req.FullName),
		"email":     email,
	}
	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, err
	}
	return s.refreshed(ctx, userID)
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint64, file *multipart.FileHeader) (*domain.User, error) {
	return s.replaceImage(ctx, userID, file, FolderAvatars, "avatar")
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID uint64, file *multipart.FileHeader) (*domain.User, error) {
	return s.replaceImage(ctx, userID, file, FolderCovers, "cover_image")
}

func (s *userService) replaceImage(ctx context.Context, userID uint64, file *multipart.FileHeader, folder, column string) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, folder, file)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{column: url}); err != nil {
		return nil, err
	}

	previous := user.Avatar
	if column == "cover_image" {
		previous = user.CoverImage
	}
	if previous != "" {
		if err := s.media.Delete(ctx, previous); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("url", previous).Msg("failed to delete replaced image")
		}
	}

	return s.refreshed(ctx, userID)
}

// GetChannelProfile returns the channel page. Anonymous views are served from cache.
func (s *userService) GetChannelProfile(ctx context.Context, username string, viewerID uint64) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, common.ErrChannelNotFound
	}

	if viewerID == 0 && s.cache != nil {
		var cached domain.ChannelProfile
		if err := s.cache.Get(ctx, cache.ChannelKey(username), &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrChannelNotFound
	}

	subscribers, err := s.subRepo.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subRepo.CountSubscriptions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &domain.ChannelProfile{
		ID:                   user.ID,
		Username:             user.Username,
		FullName:             user.FullName,
		Email:                user.Email,
		Avatar:               user.Avatar,
		CoverImage:           user.CoverImage,
		SubscriberCount:      subscribers,
		ChannelsSubscribedTo: subscribedTo,
		CreatedAt:            user.CreatedAt,
	}

	if viewerID != 0 {
		sub, err := s.subRepo.Find(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = sub != nil
		return profile, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ChannelKey(username), profile, cache.TTLShort); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("username", username).Msg("failed to cache channel profile")
		}
	}
	return profile, nil
}

func (s *userService) GetWatchHistory(ctx context.Context, userID uint64) ([]*domain.VideoResponse, error) {
	videos, err := s.historyRepo.ListVideos(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}
	return domain.ToVideoResponses(videos), nil
}

func (s *userService) refreshed(ctx context.Context, userID uint64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	s.invalidateProfile(ctx, user.Username)
	return user, nil
}

func (s *userService) invalidateProfile(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ChannelKey(username)); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("username", username).Msg("failed to invalidate channel profile")
	}
}

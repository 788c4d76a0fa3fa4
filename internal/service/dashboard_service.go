package service

import (
	"context"

	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
)

// DashboardService creator statistics
type DashboardService interface {
	Stats(ctx context.Context, userID uint64) (*domain.ChannelStats, error)
	Videos(ctx context.Context, userID uint64) ([]*domain.VideoResponse, error)
}

type dashboardService struct {
	videoRepo repository.VideoRepository
	subRepo   repository.SubscriptionRepository
	reactions repository.ReactionStore
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(videoRepo repository.VideoRepository, subRepo repository.SubscriptionRepository, reactions repository.ReactionStore) DashboardService {
	return &dashboardService{videoRepo: videoRepo, subRepo: subRepo, reactions: reactions}
}

// Stats is computed on every call; like totals come straight from the reaction store
func (s *dashboardService) Stats(ctx context.Context, userID uint64) (*domain.ChannelStats, error) {
	videos, views, err := s.videoRepo.OwnerStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.subRepo.CountSubscribers(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids, err := s.videoRepo.IDsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.reactions.CountKindOnTargets(ctx, domain.TargetVideo, ids, domain.ReactionLike)
	if err != nil {
		return nil, err
	}

	return &domain.ChannelStats{
		TotalVideos:      videos,
		TotalViews:       views,
		TotalSubscribers: subscribers,
		TotalLikes:       likes,
	}, nil
}

// Videos lists every video of the creator, drafts included
func (s *dashboardService) Videos(ctx context.Context, userID uint64) ([]*domain.VideoResponse, error) {
	videos, err := s.videoRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ToVideoResponses(videos), nil
}

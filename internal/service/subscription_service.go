package service

import (
	"context"
	"errors"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/pkg/cache"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

// SubscriptionService channel subscription business logic
type SubscriptionService interface {
	Toggle(ctx context.Context, subscriberID, channelID uint64) (*domain.SubscriptionToggleResult, error)
	Subscribers(ctx context.Context, channelID uint64) (*domain.SubscriberList, error)
	Channels(ctx context.Context, subscriberID uint64) (*domain.ChannelList, error)
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	cache    cache.Service
}

// NewSubscriptionService creates a new SubscriptionService. cacheSvc may be nil.
func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, cacheSvc cache.Service) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo, cache: cacheSvc}
}

// Toggle subscribes when not subscribed and unsubscribes otherwise
func (s *subscriptionService) Toggle(ctx context.Context, subscriberID, channelID uint64) (*domain.SubscriptionToggleResult, error) {
	if subscriberID == 0 {
		return nil, common.ErrUnauthorized
	}
	if subscriberID == channelID {
		return nil, common.ErrSelfSubscribe
	}
	channel, err := s.userRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, common.ErrChannelNotFound
	}

	result, err := s.toggle(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	s.invalidateProfiles(ctx, channel.Username, subscriberID)
	return result, nil
}

// invalidateProfiles drops the cached profiles of the channel and the
// subscriber, which both carry subscription counts
func (s *subscriptionService) invalidateProfiles(ctx context.Context, channelUsername string, subscriberID uint64) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.ChannelKey(channelUsername)}
	subscriber, err := s.userRepo.FindByID(ctx, subscriberID)
	switch {
	case err != nil:
		pkglogger.GetLogger().Warn().Err(err).Uint64("subscriber_id", subscriberID).Msg("failed to load subscriber for cache invalidation")
	case subscriber != nil:
		keys = append(keys, cache.ChannelKey(subscriber.Username))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate channel profiles")
	}
}

func (s *subscriptionService) toggle(ctx context.Context, subscriberID, channelID uint64) (*domain.SubscriptionToggleResult, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		existing, err := s.subRepo.Find(ctx, subscriberID, channelID)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			err := s.subRepo.Create(ctx, &domain.Subscription{SubscriberID: subscriberID, ChannelID: channelID})
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return &domain.SubscriptionToggleResult{Subscribed: true}, nil
		}

		removed, err := s.subRepo.Delete(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if removed {
			return &domain.SubscriptionToggleResult{Subscribed: false}, nil
		}
	}
	return nil, common.ErrConflict
}

func (s *subscriptionService) Subscribers(ctx context.Context, channelID uint64) (*domain.SubscriberList, error) {
	if err := s.requireUser(ctx, channelID, common.ErrChannelNotFound); err != nil {
		return nil, err
	}
	users, err := s.subRepo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &domain.SubscriberList{Total: int64(len(users)), Subscribers: summaries(users)}, nil
}

func (s *subscriptionService) Channels(ctx context.Context, subscriberID uint64) (*domain.ChannelList, error) {
	if err := s.requireUser(ctx, subscriberID, common.ErrUserNotFound); err != nil {
		return nil, err
	}
	users, err := s.subRepo.ListChannels(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	return &domain.ChannelList{Total: int64(len(users)), Channels: summaries(users)}, nil
}

func (s *subscriptionService) requireUser(ctx context.Context, id uint64, notFound error) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound
	}
	return nil
}

func summaries(users []*domain.User) []*domain.UserSummary {
	out := make([]*domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}

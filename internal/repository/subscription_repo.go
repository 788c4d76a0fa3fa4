package repository

import (
	"context"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

// SubscriptionRepository subscription data access interface
type SubscriptionRepository interface {
	Find(ctx context.Context, subscriberID, channelID uint64) (*domain.Subscription, error)
	Create(ctx context.Context, sub *domain.Subscription) error
	Delete(ctx context.Context, id uint64) (bool, error)
	CountSubscribers(ctx context.Context, channelID uint64) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID uint64) (int64, error)
	ListSubscribers(ctx context.Context, channelID uint64) ([]*domain.User, error)
	ListChannels(ctx context.Context, subscriberID uint64) ([]*domain.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, channelID uint64) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Take(&sub).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a subscription; an existing pair returns ErrDuplicate
func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	err := r.db.WithContext(ctx).Create(sub).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Subscription{})
	return result.RowsAffected == 1, result.Error
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

// ListSubscribers returns the users subscribed to channelID, newest first
func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID uint64) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.subscriber_id = users.id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error
	return users, err
}

// ListChannels returns the channels subscriberID follows, newest first
func (r *subscriptionRepository) ListChannels(ctx context.Context, subscriberID uint64) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.channel_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error
	return users, err
}

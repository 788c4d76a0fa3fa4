package repository

import (
	"context"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

// TweetRepository tweet data access interface
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	FindByID(ctx context.Context, id uint64) (*domain.Tweet, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Tweet, error)
	UpdateContent(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new TweetRepository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) FindByID(ctx context.Context, id uint64) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).Take(&tweet).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Tweet{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Tweet, error) {
	var tweets []*domain.Tweet
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.db.WithContext(ctx).Model(&domain.Tweet{}).Where("id = ?", id).Update("content", content).Error
}

func (r *tweetRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Tweet{}).Error
}

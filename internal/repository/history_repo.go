package repository

import (
	"context"
	"time"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository watch history data access interface
type HistoryRepository interface {
	Record(ctx context.Context, userID, videoID uint64) error
	ListVideos(ctx context.Context, userID uint64, limit int) ([]*domain.Video, error)
	DeleteByVideo(ctx context.Context, videoID uint64) error
	WithTx(tx *gorm.DB) HistoryRepository
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) WithTx(tx *gorm.DB) HistoryRepository {
	return &historyRepository{db: tx}
}

// Record upserts the (user, video) entry and moves it to the top
func (r *historyRepository) Record(ctx context.Context, userID, videoID uint64) error {
	entry := domain.WatchHistory{UserID: userID, VideoID: videoID, WatchedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(&entry).Error
}

// ListVideos returns watched videos, most recent first
func (r *historyRepository) ListVideos(ctx context.Context, userID uint64, limit int) ([]*domain.Video, error) {
	var videos []*domain.Video
	err := r.db.WithContext(ctx).Preload("Owner").
		Joins("JOIN watch_history ON watch_history.video_id = videos.id").
		Where("watch_history.user_id = ?", userID).
		Order("watch_history.watched_at DESC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *historyRepository) DeleteByVideo(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&domain.WatchHistory{}).Error
}

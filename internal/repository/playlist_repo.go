package repository

import (
	"context"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository playlist data access interface
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	FindByID(ctx context.Context, id uint64) (*domain.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Playlist, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
	AddVideos(ctx context.Context, playlistID uint64, videoIDs []uint64) error
	RemoveVideo(ctx context.Context, playlistID, videoID uint64) (bool, error)
	RemoveVideoEverywhere(ctx context.Context, videoID uint64) error
	ListVideos(ctx context.Context, playlistID uint64) ([]*domain.Video, error)
	WithTx(tx *gorm.DB) PlaylistRepository
}

type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new PlaylistRepository
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) WithTx(tx *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: tx}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) FindByID(ctx context.Context, id uint64) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&playlist).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Playlist, error) {
	var playlists []*domain.Playlist
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Playlist{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the playlist and its entries in one transaction
func (r *playlistRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&domain.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Playlist{}).Error
	})
}

// AddVideos inserts entries, ignoring videos already in the playlist
func (r *playlistRepository) AddVideos(ctx context.Context, playlistID uint64, videoIDs []uint64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	entries := make([]domain.PlaylistVideo, 0, len(videoIDs))
	seen := make(map[uint64]struct{}, len(videoIDs))
	for _, id := range videoIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, domain.PlaylistVideo{PlaylistID: playlistID, VideoID: id})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&domain.PlaylistVideo{})
	return result.RowsAffected > 0, result.Error
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&domain.PlaylistVideo{}).Error
}

// ListVideos returns the playlist's videos in insertion order
func (r *playlistRepository) ListVideos(ctx context.Context, playlistID uint64) ([]*domain.Video, error) {
	var videos []*domain.Video
	err := r.db.WithContext(ctx).Preload("Owner").
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Order("playlist_videos.created_at ASC").
		Find(&videos).Error
	return videos, err
}

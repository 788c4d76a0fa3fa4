package repository

import (
	"context"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository comment data access interface
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uint64) (*domain.Comment, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	ListByVideo(ctx context.Context, videoID uint64, offset, limit int) ([]*domain.Comment, int64, error)
	IDsByVideo(ctx context.Context, videoID uint64) ([]uint64, error)
	UpdateContent(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error
	DeleteByVideo(ctx context.Context, videoID uint64) error
	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).Take(&comment).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListByVideo returns comments newest first
func (r *commentRepository) ListByVideo(ctx context.Context, videoID uint64, offset, limit int) ([]*domain.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("video_id = ?", videoID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*domain.Comment
	err := query.Preload("Owner").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) IDsByVideo(ctx context.Context, videoID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("video_id = ?", videoID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", id).Update("content", content).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{}).Error
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&domain.Comment{}).Error
}

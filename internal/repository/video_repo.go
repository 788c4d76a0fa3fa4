package repository

import (
	"context"
	"strings"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoRepository video data access interface
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	FindByID(ctx context.Context, id uint64) (*domain.Video, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Video, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context, filter domain.VideoFilter) ([]*domain.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Video, error)
	IDsByOwner(ctx context.Context, ownerID uint64) ([]uint64, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	IncrementViews(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
	OwnerStats(ctx context.Context, ownerID uint64) (videos int64, views int64, err error)
	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// FindByID loads a video with its owner; nil, nil when missing
func (r *videoRepository) FindByID(ctx context.Context, id uint64) (*domain.Video, error) {
	var video domain.Video
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).Take(&video).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// FindByIDs loads videos with owners, preserving the order of ids
func (r *videoRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Video, error) {
	if len(ids) == 0 {
		return []*domain.Video{}, nil
	}

	var videos []*domain.Video
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint64]*domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]*domain.Video, 0, len(videos))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

func (r *videoRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List applies filter and returns one page plus the total match count
func (r *videoRepository) List(ctx context.Context, filter domain.VideoFilter) ([]*domain.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Video{})

	if !filter.IncludePrivate {
		query = query.Where("is_published = ?", true)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn := filter.SortColumn
	if sortColumn == "" {
		sortColumn = "created_at"
	}

	var videos []*domain.Video
	err := query.Preload("Owner").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn}, Desc: filter.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: filter.Desc}).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Video, error) {
	var videos []*domain.Video
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) IDsByOwner(ctx context.Context, ownerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&domain.Video{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

func (r *videoRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Video{}).Where("id = ?", id).Updates(fields).Error
}

// IncrementViews bumps the view counter without touching updated_at
func (r *videoRepository) IncrementViews(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&domain.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *videoRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Video{}).Error
}

// OwnerStats returns the number of videos and the sum of their views
func (r *videoRepository) OwnerStats(ctx context.Context, ownerID uint64) (int64, int64, error) {
	var row struct {
		Videos int64
		Views  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Video{}).
		Select("COUNT(*) AS videos, COALESCE(SUM(views), 0) AS views").
		Where("owner_id = ?", ownerID).
		Scan(&row).Error
	return row.Videos, row.Views, err
}

package repository

import (
	"context"
	"fmt"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

// ReactionStore persists at most one reaction per (actor, target).
// Writes are conditional so concurrent toggles cannot create a second row
// or overwrite a kind they did not read.
type ReactionStore interface {
	// FindReaction returns nil, nil when the actor has no reaction on the target
	FindReaction(ctx context.Context, actorID uint64, target domain.Target) (*domain.Reaction, error)
	// CreateReaction inserts r, returning ErrDuplicate if a reaction already exists
	CreateReaction(ctx context.Context, r *domain.Reaction) error
	// SwapReactionKind changes existing to kind only if it still holds existing.Kind
	SwapReactionKind(ctx context.Context, existing *domain.Reaction, kind domain.ReactionKind) (bool, error)
	// DeleteReaction removes existing only if it still holds existing.Kind
	DeleteReaction(ctx context.Context, existing *domain.Reaction) (bool, error)
	CountReactions(ctx context.Context, target domain.Target, kind domain.ReactionKind) (int64, error)

	CountReactionsByTargets(ctx context.Context, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionCounts, error)
	FindActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionKind, error)
	ListActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, kind domain.ReactionKind, offset, limit int) ([]*domain.Reaction, int64, error)
	CountKindOnTargets(ctx context.Context, targetType domain.TargetType, ids []uint64, kind domain.ReactionKind) (int64, error)
	DeleteTargetReactions(ctx context.Context, targetType domain.TargetType, ids []uint64) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a SQL backed ReactionStore.
// db must be opened with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewReactionRepository(db *gorm.DB) ReactionStore {
	return &reactionRepository{db: db}
}

// WithTx binds the store to tx
func (r *reactionRepository) WithTx(tx *gorm.DB) ReactionStore {
	return &reactionRepository{db: tx}
}

func (r *reactionRepository) FindReaction(ctx context.Context, actorID uint64, target domain.Target) (*domain.Reaction, error) {
	var reaction domain.Reaction
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_type = ? AND target_id = ?", actorID, target.Type, target.ID).
		Take(&reaction).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) CreateReaction(ctx context.Context, reaction *domain.Reaction) error {
	err := r.db.WithContext(ctx).Create(reaction).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *reactionRepository) SwapReactionKind(ctx context.Context, existing *domain.Reaction, kind domain.ReactionKind) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Reaction{}).
		Where("id = ? AND kind = ?", existing.ID, existing.Kind).
		Update("kind", kind)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *reactionRepository) DeleteReaction(ctx context.Context, existing *domain.Reaction) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND kind = ?", existing.ID, existing.Kind).
		Delete(&domain.Reaction{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *reactionRepository) CountReactions(ctx context.Context, target domain.Target, kind domain.ReactionKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Reaction{}).
		Where("target_type = ? AND target_id = ? AND kind = ?", target.Type, target.ID, kind).
		Count(&count).Error
	return count, err
}

// CountReactionsByTargets aggregates like/dislike totals for many targets in one query
func (r *reactionRepository) CountReactionsByTargets(ctx context.Context, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionCounts, error) {
	counts := make(map[uint64]domain.ReactionCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		TargetID uint64
		Kind     domain.ReactionKind
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Reaction{}).
		Select("target_id, kind, COUNT(*) AS total").
		Where("target_type = ? AND target_id IN ?", targetType, ids).
		Group("target_id, kind").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count reactions by targets: %w", err)
	}

	for _, row := range rows {
		c := counts[row.TargetID]
		switch row.Kind {
		case domain.ReactionLike:
			c.Likes = row.Total
		case domain.ReactionDislike:
			c.Dislikes = row.Total
		}
		counts[row.TargetID] = c
	}
	return counts, nil
}

func (r *reactionRepository) FindActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionKind, error) {
	kinds := make(map[uint64]domain.ReactionKind, len(ids))
	if actorID == 0 || len(ids) == 0 {
		return kinds, nil
	}

	var reactions []domain.Reaction
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_type = ? AND target_id IN ?", actorID, targetType, ids).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		kinds[reaction.TargetID] = reaction.Kind
	}
	return kinds, nil
}

func (r *reactionRepository) ListActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, kind domain.ReactionKind, offset, limit int) ([]*domain.Reaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Reaction{}).
		Where("actor_id = ? AND target_type = ? AND kind = ?", actorID, targetType, kind).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reactions []*domain.Reaction
	err := query.Order("updated_at DESC, id DESC").Offset(offset).Limit(limit).Find(&reactions).Error
	if err != nil {
		return nil, 0, err
	}
	return reactions, total, nil
}

func (r *reactionRepository) CountKindOnTargets(ctx context.Context, targetType domain.TargetType, ids []uint64, kind domain.ReactionKind) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Reaction{}).
		Where("target_type = ? AND target_id IN ? AND kind = ?", targetType, ids, kind).
		Count(&count).Error
	return count, err
}

func (r *reactionRepository) DeleteTargetReactions(ctx context.Context, targetType domain.TargetType, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", targetType, ids).
		Delete(&domain.Reaction{}).Error
}

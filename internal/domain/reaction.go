package domain

import (
	"fmt"
	"time"

	"github.com/vidora/vidora-backend/internal/common"
)

// TargetType is the kind of entity a reaction points at
type TargetType string

const (
	TargetVideo   TargetType = "video"
	TargetComment TargetType = "comment"
	TargetPost    TargetType = "post"
)

// IsValid reports whether t is a known target type
func (t TargetType) IsValid() bool {
	switch t {
	case TargetVideo, TargetComment, TargetPost:
		return true
	}
	return false
}

// ReactionKind is like or dislike. Neutral is never stored.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// IsValid reports whether k is like or dislike
func (k ReactionKind) IsValid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Target identifies the reacted-to entity
type Target struct {
	Type TargetType `json:"targetType"`
	ID   uint64     `json:"targetId"`
}

// Validate rejects unknown target types and zero ids
func (t Target) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: unknown target type %q", common.ErrInvalidInput, t.Type)
	}
	if t.ID == 0 {
		return fmt.Errorf("%w: target id is required", common.ErrInvalidInput)
	}
	return nil
}

// Reaction is one actor's like or dislike on one target.
// (actor_id, target_type, target_id) is unique.
type Reaction struct {
	ID         uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID    uint64       `gorm:"column:actor_id;not null;uniqueIndex:idx_reaction_actor_target,priority:1" json:"actorId"`
	TargetType TargetType   `gorm:"column:target_type;size:16;not null;uniqueIndex:idx_reaction_actor_target,priority:2;index:idx_reaction_target,priority:1" json:"targetType"`
	TargetID   uint64       `gorm:"column:target_id;not null;uniqueIndex:idx_reaction_actor_target,priority:3;index:idx_reaction_target,priority:2" json:"targetId"`
	Kind       ReactionKind `gorm:"column:kind;size:8;not null" json:"kind"`
	CreatedAt  time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for reactions
func (Reaction) TableName() string {
	return "reactions"
}

// Target returns the reaction's target
func (r *Reaction) Target() Target {
	return Target{Type: r.TargetType, ID: r.TargetID}
}

// ToggleAction is the single store mutation a toggle performed
type ToggleAction string

const (
	ActionCreated ToggleAction = "created"
	ActionDeleted ToggleAction = "deleted"
	ActionUpdated ToggleAction = "updated"
)

// ToggleResult is the outcome of a toggle. FinalKind nil means neutral.
type ToggleResult struct {
	FinalKind *ReactionKind `json:"finalKind"`
	Action    ToggleAction  `json:"action"`
}

// ReactionSummary is the recount returned to clients after a toggle
type ReactionSummary struct {
	LikeCount     int64         `json:"likeCount"`
	DislikeCount  int64         `json:"dislikeCount"`
	ActorReaction *ReactionKind `json:"actorReaction"`
}

// ReactionCounts holds per-target totals from a batch aggregation
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ToggleReactionRequest is the toggle body
type ToggleReactionRequest struct {
	Kind string `json:"kind" binding:"required,reaction_kind"`
}

// OptionalToggleRequest is the body of the legacy like toggles; kind defaults to like
type OptionalToggleRequest struct {
	Kind string `json:"kind" binding:"omitempty,reaction_kind"`
}

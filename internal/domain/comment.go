package domain

import "time"

// Comment is a comment on a video
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VideoID   uint64    `gorm:"column:video_id;not null;index" json:"videoId"`
	OwnerID   uint64    `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName returns the table name for comments
func (Comment) TableName() string {
	return "comments"
}

// CommentResponse is a comment enriched with its reaction counts
type CommentResponse struct {
	ID           uint64        `json:"id"`
	VideoID      uint64        `json:"videoId"`
	Content      string        `json:"content"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Owner        *UserSummary  `json:"owner,omitempty"`
	LikeCount    int64         `json:"likeCount"`
	DislikeCount int64         `json:"dislikeCount"`
	UserReaction *ReactionKind `json:"userReaction"`
}

// ToResponse converts a comment without reaction data
func (c *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Owner:     c.Owner.Summary(),
	}
}

// CommentRequest creates or updates a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

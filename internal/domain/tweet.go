package domain

import "time"

// Tweet is a short text post on a channel. Reactions address it as target type "post".
type Tweet struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerID   uint64    `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName returns the table name for tweets
func (Tweet) TableName() string {
	return "tweets"
}

// TweetResponse is a tweet with its like/dislike totals
type TweetResponse struct {
	ID           uint64       `json:"id"`
	Content      string       `json:"content"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	Owner        *UserSummary `json:"owner,omitempty"`
	LikeCount    int64        `json:"likeCount"`
	DislikeCount int64        `json:"dislikeCount"`
}

// ToResponse converts a tweet without reaction data
func (t *Tweet) ToResponse() *TweetResponse {
	return &TweetResponse{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Owner:     t.Owner.Summary(),
	}
}

// TweetRequest creates or updates a tweet
type TweetRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

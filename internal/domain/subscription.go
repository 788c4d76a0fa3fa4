package domain

import "time"

// Subscription links a subscriber to a channel (another user).
// (subscriber_id, channel_id) is unique.
type Subscription struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubscriberID uint64    `gorm:"column:subscriber_id;not null;uniqueIndex:idx_subscriber_channel,priority:1" json:"subscriberId"`
	ChannelID    uint64    `gorm:"column:channel_id;not null;uniqueIndex:idx_subscriber_channel,priority:2;index" json:"channelId"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for subscriptions
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionToggleResult reports the state after a toggle
type SubscriptionToggleResult struct {
	Subscribed bool `json:"subscribed"`
}

// SubscriberList lists the subscribers of a channel
type SubscriberList struct {
	Total       int64          `json:"total"`
	Subscribers []*UserSummary `json:"subscribers"`
}

// ChannelList lists the channels a user subscribes to
type ChannelList struct {
	Total    int64          `json:"total"`
	Channels []*UserSummary `json:"channels"`
}

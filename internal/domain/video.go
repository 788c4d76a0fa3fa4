package domain

import (
	"mime/multipart"
	"time"
)

// Video is an uploaded video
type Video struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerID     uint64    `gorm:"column:owner_id;not null;index" json:"ownerId"`
	VideoFile   string    `gorm:"column:video_file;size:512;not null" json:"videoFile"`
	Thumbnail   string    `gorm:"column:thumbnail;size:512;not null" json:"thumbnail"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Duration    float64   `gorm:"column:duration;not null;default:0" json:"duration"`
	Views       int64     `gorm:"column:views;not null;default:0" json:"views"`
	IsPublished bool      `gorm:"column:is_published;not null" json:"isPublished"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName returns the table name for videos
func (Video) TableName() string {
	return "videos"
}

// VideoResponse is a video with its owner summary
type VideoResponse struct {
	ID          uint64       `json:"id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	IsPublished bool         `json:"isPublished"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Owner       *UserSummary `json:"owner,omitempty"`
}

// VisibleTo reports whether viewerID (0 for anonymous) may see the video
func (v *Video) VisibleTo(viewerID uint64) bool {
	return v.IsPublished || (viewerID != 0 && v.OwnerID == viewerID)
}

// ToResponse converts a video to its API form
func (v *Video) ToResponse() *VideoResponse {
	return &VideoResponse{
		ID:          v.ID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		Owner:       v.Owner.Summary(),
	}
}

// ToVideoResponses converts a list of videos
func ToVideoResponses(videos []*Video) []*VideoResponse {
	out := make([]*VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ToResponse())
	}
	return out
}

// Sortable video columns exposed through ?sortBy=
var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

// VideoSortColumn maps a sortBy value to its column; unknown values fall back to created_at
func VideoSortColumn(sortBy string) string {
	if col, ok := videoSortColumns[sortBy]; ok {
		return col
	}
	return "created_at"
}

// VideoFilter is the repository-level listing filter
type VideoFilter struct {
	Query          string
	OwnerID        uint64
	IDs            []uint64
	IncludePrivate bool
	SortColumn     string
	Desc           bool
	Offset         int
	Limit          int
}

// VideoListQuery is the parsed ?page&limit&query&sortBy&sortType&userId of GET /videos
type VideoListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Query    string `form:"query"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
	UserID   uint64 `form:"userId"`
}

// VideoListResult is the paged video listing
type VideoListResult struct {
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
	Videos     []*VideoResponse `json:"videos"`
}

// PublishVideoRequest is the multipart upload form
type PublishVideoRequest struct {
	Title       string                `form:"title" binding:"required,max=200"`
	Description string                `form:"description" binding:"required"`
	Duration    float64               `form:"duration" binding:"omitempty,gte=0"`
	VideoFile   *multipart.FileHeader `form:"videoFile"`
	Thumbnail   *multipart.FileHeader `form:"thumbnail"`
}

// UpdateVideoRequest updates video details; thumbnail is optional
type UpdateVideoRequest struct {
	Title       string                `form:"title" binding:"required,max=200"`
	Description string                `form:"description" binding:"required"`
	Thumbnail   *multipart.FileHeader `form:"thumbnail"`
}

// WatchHistory records the last time a user watched a video
type WatchHistory struct {
	UserID    uint64    `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"userId"`
	VideoID   uint64    `gorm:"column:video_id;primaryKey;autoIncrement:false" json:"videoId"`
	WatchedAt time.Time `gorm:"column:watched_at;not null;index" json:"watchedAt"`
}

// TableName returns the table name for watch history
func (WatchHistory) TableName() string {
	return "watch_history"
}

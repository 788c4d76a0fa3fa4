package domain

import "time"

// Playlist is a named, owner-curated set of videos
type Playlist struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerID     uint64    `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Name        string    `gorm:"column:name;size:100;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for playlists
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistVideo is one playlist entry. The composite key gives set semantics.
type PlaylistVideo struct {
	PlaylistID uint64    `gorm:"column:playlist_id;primaryKey;autoIncrement:false" json:"playlistId"`
	VideoID    uint64    `gorm:"column:video_id;primaryKey;autoIncrement:false;index" json:"videoId"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for playlist entries
func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}

// PlaylistResponse is a playlist with its videos
type PlaylistResponse struct {
	ID          uint64           `json:"id"`
	OwnerID     uint64           `json:"ownerId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	TotalVideos int              `json:"totalVideos"`
	Videos      []*VideoResponse `json:"videos"`
}

// NewPlaylistResponse assembles a playlist response
func NewPlaylistResponse(p *Playlist, videos []*Video) *PlaylistResponse {
	return &PlaylistResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		TotalVideos: len(videos),
		Videos:      ToVideoResponses(videos),
	}
}

// PlaylistList lists the playlists of a user
type PlaylistList struct {
	Total     int64               `json:"total"`
	Playlists []*PlaylistResponse `json:"playlists"`
}

// PlaylistRequest creates or updates a playlist
type PlaylistRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// PlaylistVideosRequest adds videos to a playlist
type PlaylistVideosRequest struct {
	VideoIDs []uint64 `json:"videoIds" binding:"required,min=1,dive,gt=0"`
}

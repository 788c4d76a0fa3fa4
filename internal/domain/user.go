package domain

import (
	"mime/multipart"
	"time"
)

// User is a registered account; every user owns a channel
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;size:30;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"column:full_name;size:100;not null" json:"fullName"`
	Avatar       string    `gorm:"column:avatar;size:512" json:"avatar"`
	CoverImage   string    `gorm:"column:cover_image;size:512" json:"coverImage"`
	Password     string    `gorm:"column:password;size:255;not null" json:"-"`
	RefreshToken string    `gorm:"column:refresh_token;size:512" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for users
func (User) TableName() string {
	return "users"
}

// UserSummary is the public owner block embedded in videos, comments and playlists
type UserSummary struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Summary returns the public part of the user
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// RegisterRequest is the multipart registration form
type RegisterRequest struct {
	Username   string                `form:"username" binding:"required,username"`
	FullName   string                `form:"fullName" binding:"required,max=100"`
	Email      string                `form:"email" binding:"required,email"`
	Password   string                `form:"password" binding:"required,min=8,max=72"`
	Avatar     *multipart.FileHeader `form:"avatar"`
	CoverImage *multipart.FileHeader `form:"coverImage"`
}

// LoginRequest accepts either username or email
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token when no cookie is present
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest changes the current user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// UpdateAccountRequest updates profile fields
type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ChannelProfile is the public channel page
type ChannelProfile struct {
	ID                   uint64    `json:"id"`
	Username             string    `json:"username"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email"`
	Avatar               string    `json:"avatar"`
	CoverImage           string    `json:"coverImage"`
	SubscriberCount      int64     `json:"subscribersCount"`
	ChannelsSubscribedTo int64     `json:"channelsSubscribedToCount"`
	IsSubscribed         bool      `json:"isSubscribed"`
	CreatedAt            time.Time `json:"createdAt"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
	"github.com/vidora/vidora-backend/pkg/storage"
)

// Upload folders
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

const (
	maxImageSize = 10 * 1024 * 1024
	maxVideoSize = 500 * 1024 * 1024
)

// MediaUploader stores user uploads and returns their public URL
type MediaUploader interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// MediaService uploads images and videos to S3 compatible storage
type MediaService struct {
	s3 *storage.S3Client
}

// NewMediaService returns an uploader backed by s3Client.
// With a nil client every upload fails with ErrMediaUnavailable.
func NewMediaService(s3Client *storage.S3Client) MediaUploader {
	if s3Client == nil {
		return unavailableMedia{}
	}
	return &MediaService{s3: s3Client}
}

// Upload validates the file against its folder's rules and stores it
func (s *MediaService) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is required", common.ErrInvalidInput)
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	limit := int64(maxImageSize)
	if folder == FolderVideos {
		limit = maxVideoSize
		if !isVideoExt(ext) {
			return "", fmt.Errorf("%w: unsupported video format %q", common.ErrInvalidInput, ext)
		}
	} else if !isImageExt(ext) {
		return "", fmt.Errorf("%w: unsupported image format %q", common.ErrInvalidInput, ext)
	}
	if file.Size > limit {
		return "", fmt.Errorf("%w: file too large (max %dMB)", common.ErrInvalidInput, limit/(1024*1024))
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType, err := sniffContentType(src, ext)
	if err != nil {
		return "", err
	}

	key := storage.GenerateKey(folder, file.Filename)
	result, err := s.s3.Upload(ctx, key, src, contentType, file.Size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMediaUnavailable, err)
	}

	pkglogger.GetLogger().Info().
		Str("key", result.Key).
		Str("folder", folder).
		Int64("size", file.Size).
		Msg("media uploaded")

	return result.URL, nil
}

// Delete removes a previously uploaded object. Foreign URLs are ignored.
func (s *MediaService) Delete(ctx context.Context, url string) error {
	key := s.s3.KeyFromURL(url)
	if key == "" {
		return nil
	}
	return s.s3.Delete(ctx, key)
}

// sniffContentType detects the type from the first 512 bytes and rewinds src
func sniffContentType(src multipart.File, ext string) (string, error) {
	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read file header: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("reset file reader: %w", err)
	}

	contentType := http.DetectContentType(buf[:n])
	if contentType == "application/octet-stream" && isVideoExt(ext) {
		contentType = videoContentType(ext)
	}
	return contentType, nil
}

func videoContentType(ext string) string {
	if ext == ".mov" {
		return "video/quicktime"
	}
	return "video/" + strings.TrimPrefix(ext, ".")
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

func isVideoExt(ext string) bool {
	switch ext {
	case ".mp4", ".webm", ".mov", ".mkv":
		return true
	}
	return false
}

type unavailableMedia struct{}

func (unavailableMedia) Upload(context.Context, string, *multipart.FileHeader) (string, error) {
	return "", common.ErrMediaUnavailable
}

func (unavailableMedia) Delete(context.Context, string) error { return nil }

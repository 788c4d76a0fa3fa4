package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/pkg/cache"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
	"gorm.io/gorm"
)

// Listing page bounds
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// VideoService video catalogue operations
type VideoService interface {
	List(ctx context.Context, q domain.VideoListQuery, viewerID uint64) (*domain.VideoListResult, error)
	Publish(ctx context.Context, ownerID uint64, req *domain.PublishVideoRequest) (*domain.VideoResponse, error)
	Get(ctx context.Context, videoID, viewerID uint64) (*domain.VideoResponse, error)
	Update(ctx context.Context, videoID, userID uint64, req *domain.UpdateVideoRequest) (*domain.VideoResponse, error)
	Delete(ctx context.Context, videoID, userID uint64) error
	TogglePublish(ctx context.Context, videoID, userID uint64) (*domain.VideoResponse, error)
	LikedVideos(ctx context.Context, userID uint64, page, limit int) ([]*domain.VideoResponse, *common.Meta, error)
}

type videoService struct {
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	playlistRepo repository.PlaylistRepository
	historyRepo  repository.HistoryRepository
	reactions    repository.ReactionStore
	tx           repository.Transactor
	media        MediaUploader
	search       VideoSearcher
	cache        cache.Service
}

// VideoServiceDeps groups the collaborators of NewVideoService. Search and Cache are optional.
type VideoServiceDeps struct {
	Videos    repository.VideoRepository
	Comments  repository.CommentRepository
	Playlists repository.PlaylistRepository
	History   repository.HistoryRepository
	Reactions repository.ReactionStore
	Tx        repository.Transactor
	Media     MediaUploader
	Search    VideoSearcher
	Cache     cache.Service
}

// NewVideoService creates a new VideoService
func NewVideoService(deps VideoServiceDeps) VideoService {
	return &videoService{
		videoRepo:    deps.Videos,
		commentRepo:  deps.Comments,
		playlistRepo: deps.Playlists,
		historyRepo:  deps.History,
		reactions:    deps.Reactions,
		tx:           deps.Tx,
		media:        deps.Media,
		search:       deps.Search,
		cache:        deps.Cache,
	}
}

// normalizePage clamps page to >= 1 and limit to [1, MaxPageLimit]
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// List returns published videos. Owners listing their own channel also see drafts.
func (s *videoService) List(ctx context.Context, q domain.VideoListQuery, viewerID uint64) (*domain.VideoListResult, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	filter := domain.VideoFilter{
		Query:          strings.TrimSpace(q.Query),
		OwnerID:        q.UserID,
		IncludePrivate: q.UserID != 0 && q.UserID == viewerID,
		SortColumn:     domain.VideoSortColumn(q.SortBy),
		Desc:           !strings.EqualFold(q.SortType, "asc"),
		Offset:         (page - 1) * limit,
		Limit:          limit,
	}

	cacheKey := ""
	if s.cache != nil && !filter.IncludePrivate {
		cacheKey = cache.VideoListKey(page, limit, filter.Query, filter.SortColumn, filter.Desc, filter.OwnerID)
		var cached domain.VideoListResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	videos, total, err := s.listVideos(ctx, filter, q.SortBy != "")
	if err != nil {
		return nil, err
	}

	result := &domain.VideoListResult{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: common.TotalPages(total, limit),
		Videos:     domain.ToVideoResponses(videos),
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, result, cache.TTLShort); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("failed to cache video list")
		}
	}
	return result, nil
}

// listVideos uses the search index for text queries when one is configured
func (s *videoService) listVideos(ctx context.Context, filter domain.VideoFilter, explicitSort bool) ([]*domain.Video, int64, error) {
	if filter.Query == "" || s.search == nil {
		return s.videoRepo.List(ctx, filter)
	}

	searchFilter := filter
	if !explicitSort {
		searchFilter.SortColumn = ""
	}
	ids, total, err := s.search.Search(ctx, searchFilter)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("video search failed, falling back to database")
		return s.videoRepo.List(ctx, filter)
	}
	videos, err := s.videoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (s *videoService) Publish(ctx context.Context, ownerID uint64, req *domain.PublishVideoRequest) (*domain.VideoResponse, error) {
	if req.VideoFile == nil || req.Thumbnail == nil {
		return nil, fmt.Errorf("%w: video file and thumbnail are required", common.ErrInvalidInput)
	}

	videoURL, err := s.media.Upload(ctx, FolderVideos, req.VideoFile)
	if err != nil {
		return nil, err
	}
	thumbURL, err := s.media.Upload(ctx, FolderThumbnails, req.Thumbnail)
	if err != nil {
		s.deleteMedia(ctx, videoURL)
		return nil, err
	}

	video := &domain.Video{
		OwnerID:     ownerID,
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		IsPublished: true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.deleteMedia(ctx, videoURL, thumbURL)
		return nil, err
	}

	s.afterChange(ctx, video)
	pkglogger.GetLogger().Info().Uint64("video_id", video.ID).Uint64("owner_id", ownerID).Msg("video published")

	created, err := s.videoRepo.FindByID(ctx, video.ID)
	if err != nil || created == nil {
		return video.ToResponse(), nil
	}
	return created.ToResponse(), nil
}

// Get returns a video and counts a view. Drafts are visible to their owner only.
func (s *videoService) Get(ctx context.Context, videoID, viewerID uint64) (*domain.VideoResponse, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || !video.VisibleTo(viewerID) {
		return nil, common.ErrVideoNotFound
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}
	video.Views++

	if viewerID != 0 {
		if err := s.historyRepo.Record(ctx, viewerID, videoID); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("video_id", videoID).Msg("failed to record watch history")
		}
	}
	return video.ToResponse(), nil
}

func (s *videoService) Update(ctx context.Context, videoID, userID uint64, req *domain.UpdateVideoRequest) (*domain.VideoResponse, error) {
	video, err := s.ownedVideo(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"title":       strings.TrimSpace(req.Title),
		"description": strings.TrimSpace(req.Description),
	}
	var oldThumb string
	if req.Thumbnail != nil {
		thumbURL, err := s.media.Upload(ctx, FolderThumbnails, req.Thumbnail)
		if err != nil {
			return nil, err
		}
		fields["thumbnail"] = thumbURL
		oldThumb = video.Thumbnail
	}

	if err := s.videoRepo.UpdateFields(ctx, videoID, fields); err != nil {
		return nil, err
	}
	if oldThumb != "" {
		s.deleteMedia(ctx, oldThumb)
	}

	updated, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.afterChange(ctx, updated)
	return updated.ToResponse(), nil
}

// Delete removes a video together with its comments, reactions, playlist
// entries and history. The SQL rows go in one transaction; reactions kept
// outside the database are purged after it commits.
func (s *videoService) Delete(ctx context.Context, videoID, userID uint64) error {
	video, err := s.ownedVideo(ctx, videoID, userID)
	if err != nil {
		return err
	}

	sqlReactions, inTx := s.reactions.(repository.TxReactionStore)
	var commentIDs []uint64
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)
		ids, err := comments.IDsByVideo(ctx, videoID)
		if err != nil {
			return err
		}
		commentIDs = ids

		if inTx {
			if err := deleteReactions(ctx, sqlReactions.WithTx(tx), videoID, commentIDs); err != nil {
				return err
			}
		}
		if err := comments.DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		if err := s.playlistRepo.WithTx(tx).RemoveVideoEverywhere(ctx, videoID); err != nil {
			return err
		}
		if err := s.historyRepo.WithTx(tx).DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		return s.videoRepo.WithTx(tx).Delete(ctx, videoID)
	})
	if err != nil {
		return fmt.Errorf("delete video %d: %w", videoID, err)
	}

	if !inTx {
		if err := deleteReactions(ctx, s.reactions, videoID, commentIDs); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("video_id", videoID).Msg("failed to purge reactions of deleted video")
		}
	}

	if s.search != nil {
		if err := s.search.Remove(ctx, videoID); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("video_id", videoID).Msg("failed to remove video from index")
		}
	}
	s.invalidateListings(ctx)
	s.deleteMedia(ctx, video.VideoFile, video.Thumbnail)

	pkglogger.GetLogger().Info().Uint64("video_id", videoID).Uint64("owner_id", userID).Msg("video deleted")
	return nil
}

// deleteReactions drops the reactions on a video and on its comments
func deleteReactions(ctx context.Context, store repository.ReactionStore, videoID uint64, commentIDs []uint64) error {
	if err := store.DeleteTargetReactions(ctx, domain.TargetComment, commentIDs); err != nil {
		return err
	}
	return store.DeleteTargetReactions(ctx, domain.TargetVideo, []uint64{videoID})
}

func (s *videoService) TogglePublish(ctx context.Context, videoID, userID uint64) (*domain.VideoResponse, error) {
	video, err := s.ownedVideo(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videoRepo.UpdateFields(ctx, videoID, map[string]interface{}{"is_published": video.IsPublished}); err != nil {
		return nil, err
	}
	s.afterChange(ctx, video)
	return video.ToResponse(), nil
}

// LikedVideos lists the videos userID has liked, most recent first
func (s *videoService) LikedVideos(ctx context.Context, userID uint64, page, limit int) ([]*domain.VideoResponse, *common.Meta, error) {
	page, limit = normalizePage(page, limit)

	reactions, total, err := s.reactions.ListActorReactions(ctx, userID, domain.TargetVideo, domain.ReactionLike, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint64, 0, len(reactions))
	for _, r := range reactions {
		ids = append(ids, r.TargetID)
	}

	videos, err := s.videoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	// a liked video may since have been unpublished
	visible := videos[:0]
	for _, v := range videos {
		if v.VisibleTo(userID) {
			visible = append(visible, v)
		}
	}
	return domain.ToVideoResponses(visible), common.NewMeta(page, limit, total), nil
}

func (s *videoService) ownedVideo(ctx context.Context, videoID, userID uint64) (*domain.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, common.ErrVideoNotFound
	}
	if video.OwnerID != userID {
		return nil, common.ErrForbidden
	}
	return video, nil
}

// afterChange reindexes v and drops cached listings
func (s *videoService) afterChange(ctx context.Context, v *domain.Video) {
	if s.search != nil {
		if err := s.search.Index(ctx, v); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("video_id", v.ID).Msg("failed to index video")
		}
	}
	s.invalidateListings(ctx)
}

func (s *videoService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, cache.GroupVideos); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to invalidate video listings")
	}
}

func (s *videoService) deleteMedia(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if err := s.media.Delete(ctx, u); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("url", u).Msg("failed to delete media")
		}
	}
}

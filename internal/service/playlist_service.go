package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
)

// PlaylistService playlist business logic
type PlaylistService interface {
	Create(ctx context.Context, userID uint64, req *domain.PlaylistRequest) (*domain.PlaylistResponse, error)
	ListByUser(ctx context.Context, userID, viewerID uint64) (*domain.PlaylistList, error)
	Get(ctx context.Context, playlistID, viewerID uint64) (*domain.PlaylistResponse, error)
	Update(ctx context.Context, playlistID, userID uint64, req *domain.PlaylistRequest) (*domain.PlaylistResponse, error)
	Delete(ctx context.Context, playlistID, userID uint64) error
	AddVideos(ctx context.Context, playlistID, userID uint64, videoIDs []uint64) (*domain.PlaylistResponse, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, userID uint64) (*domain.PlaylistResponse, error)
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
}

// NewPlaylistService creates a new PlaylistService
func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) PlaylistService {
	return &playlistService{playlistRepo: playlistRepo, videoRepo: videoRepo, userRepo: userRepo}
}

func (s *playlistService) Create(ctx context.Context, userID uint64, req *domain.PlaylistRequest) (*domain.PlaylistResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", common.ErrInvalidInput)
	}
	playlist := &domain.Playlist{OwnerID: userID, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return domain.NewPlaylistResponse(playlist, nil), nil
}

func (s *playlistService) ListByUser(ctx context.Context, userID, viewerID uint64) (*domain.PlaylistList, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	playlists, err := s.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PlaylistResponse, 0, len(playlists))
	for _, p := range playlists {
		resp, err := s.build(ctx, p, viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return &domain.PlaylistList{Total: int64(len(out)), Playlists: out}, nil
}

func (s *playlistService) Get(ctx context.Context, playlistID, viewerID uint64) (*domain.PlaylistResponse, error) {
	playlist, err := s.find(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, playlist, viewerID)
}

func (s *playlistService) Update(ctx context.Context, playlistID, userID uint64, req *domain.PlaylistRequest) (*domain.PlaylistResponse, error) {
	playlist, err := s.owned(ctx, playlistID, userID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", common.ErrInvalidInput)
	}

	playlist.Name = name
	playlist.Description = strings.TrimSpace(req.Description)
	fields := map[string]interface{}{"name": playlist.Name, "description": playlist.Description}
	if err := s.playlistRepo.UpdateFields(ctx, playlistID, fields); err != nil {
		return nil, err
	}
	return s.build(ctx, playlist, userID)
}

func (s *playlistService) Delete(ctx context.Context, playlistID, userID uint64) error {
	if _, err := s.owned(ctx, playlistID, userID); err != nil {
		return err
	}
	return s.playlistRepo.Delete(ctx, playlistID)
}

// AddVideos adds every listed video; videos already present are kept once
func (s *playlistService) AddVideos(ctx context.Context, playlistID, userID uint64, videoIDs []uint64) (*domain.PlaylistResponse, error) {
	playlist, err := s.owned(ctx, playlistID, userID)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("%w: videoIds must not be empty", common.ErrInvalidInput)
	}

	found, err := s.videoRepo.FindByIDs(ctx, videoIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[uint64]bool, len(found))
	for _, v := range found {
		known[v.ID] = true
	}
	for _, id := range videoIDs {
		if !known[id] {
			return nil, fmt.Errorf("%w: %d", common.ErrVideoNotFound, id)
		}
	}

	if err := s.playlistRepo.AddVideos(ctx, playlistID, videoIDs); err != nil {
		return nil, err
	}
	return s.build(ctx, playlist, userID)
}

func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID uint64) (*domain.PlaylistResponse, error) {
	playlist, err := s.owned(ctx, playlistID, userID)
	if err != nil {
		return nil, err
	}
	removed, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, fmt.Errorf("%w: video %d is not in this playlist", common.ErrVideoNotFound, videoID)
	}
	return s.build(ctx, playlist, userID)
}

func (s *playlistService) find(ctx context.Context, playlistID uint64) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, common.ErrPlaylistNotFound
	}
	return playlist, nil
}

func (s *playlistService) owned(ctx context.Context, playlistID, userID uint64) (*domain.Playlist, error) {
	playlist, err := s.find(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != userID {
		return nil, common.ErrForbidden
	}
	return playlist, nil
}

// build loads the playlist's videos, hiding drafts the viewer does not own
func (s *playlistService) build(ctx context.Context, p *domain.Playlist, viewerID uint64) (*domain.PlaylistResponse, error) {
	videos, err := s.playlistRepo.ListVideos(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	visible := videos[:0]
	for _, v := range videos {
		if v.VisibleTo(viewerID) {
			visible = append(visible, v)
		}
	}
	return domain.NewPlaylistResponse(p, visible), nil
}

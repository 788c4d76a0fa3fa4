package service

import (
	"context"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
)

// CommentService video comment business logic
type CommentService interface {
	List(ctx context.Context, videoID, viewerID uint64, page, limit int) ([]*domain.CommentResponse, *common.Meta, error)
	Add(ctx context.Context, videoID, userID uint64, req *domain.CommentRequest) (*domain.CommentResponse, error)
	Update(ctx context.Context, commentID, userID uint64, req *domain.CommentRequest) (*domain.CommentResponse, error)
	Delete(ctx context.Context, commentID, userID uint64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	reactions   repository.ReactionStore
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, reactions repository.ReactionStore) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		reactions:   reactions,
	}
}

// List returns a page of comments, each with its like/dislike totals and the viewer's own reaction
func (s *commentService) List(ctx context.Context, videoID, viewerID uint64, page, limit int) ([]*domain.CommentResponse, *common.Meta, error) {
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, nil, err
	}
	page, limit = normalizePage(page, limit)

	comments, total, err := s.commentRepo.ListByVideo(ctx, videoID, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	counts, err := s.reactions.CountReactionsByTargets(ctx, domain.TargetComment, ids)
	if err != nil {
		return nil, nil, err
	}
	var mine map[uint64]domain.ReactionKind
	if viewerID != 0 {
		mine, err = s.reactions.FindActorReactions(ctx, viewerID, domain.TargetComment, ids)
		if err != nil {
			return nil, nil, err
		}
	}

	out := make([]*domain.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp := c.ToResponse()
		resp.LikeCount = counts[c.ID].Likes
		resp.DislikeCount = counts[c.ID].Dislikes
		if kind, ok := mine[c.ID]; ok {
			k := kind
			resp.UserReaction = &k
		}
		out = append(out, resp)
	}
	return out, common.NewMeta(page, limit, total), nil
}

func (s *commentService) Add(ctx context.Context, videoID, userID uint64, req *domain.CommentRequest) (*domain.CommentResponse, error) {
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrInvalidInput
	}

	comment := &domain.Comment{VideoID: videoID, OwnerID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.load(ctx, comment.ID)
}

func (s *commentService) Update(ctx context.Context, commentID, userID uint64, req *domain.CommentRequest) (*domain.CommentResponse, error) {
	if _, err := s.owned(ctx, commentID, userID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrInvalidInput
	}
	if err := s.commentRepo.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.load(ctx, commentID)
}

// Delete removes the comment and every reaction on it
func (s *commentService) Delete(ctx context.Context, commentID, userID uint64) error {
	if _, err := s.owned(ctx, commentID, userID); err != nil {
		return err
	}
	if err := s.reactions.DeleteTargetReactions(ctx, domain.TargetComment, []uint64{commentID}); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *commentService) requireVideo(ctx context.Context, videoID uint64) error {
	ok, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrVideoNotFound
	}
	return nil
}

func (s *commentService) owned(ctx context.Context, commentID, userID uint64) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, common.ErrCommentNotFound
	}
	if comment.OwnerID != userID {
		return nil, common.ErrForbidden
	}
	return comment, nil
}

func (s *commentService) load(ctx context.Context, commentID uint64) (*domain.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, common.ErrCommentNotFound
	}
	return comment.ToResponse(), nil
}

package service

import (
	"context"
	"fmt"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
)

// TargetChecker resolves whether a reaction target exists and is visible
// to actorID (0 for anonymous)
type TargetChecker interface {
	CheckTarget(ctx context.Context, target domain.Target, actorID uint64) error
}

type repoTargetChecker struct {
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

// NewTargetChecker checks targets against the video, comment and tweet tables
func NewTargetChecker(videoRepo repository.VideoRepository, commentRepo repository.CommentRepository, tweetRepo repository.TweetRepository) TargetChecker {
	return &repoTargetChecker{videoRepo: videoRepo, commentRepo: commentRepo, tweetRepo: tweetRepo}
}

// CheckTarget returns the type-specific not-found error for a missing target.
// Unpublished videos are missing to everyone but their owner.
func (c *repoTargetChecker) CheckTarget(ctx context.Context, target domain.Target, actorID uint64) error {
	if target.Type == domain.TargetVideo {
		return c.checkVideo(ctx, target.ID, actorID)
	}

	var (
		exists   bool
		err      error
		notFound error
	)
	switch target.Type {
	case domain.TargetComment:
		exists, err = c.commentRepo.Exists(ctx, target.ID)
		notFound = common.ErrCommentNotFound
	case domain.TargetPost:
		exists, err = c.tweetRepo.Exists(ctx, target.ID)
		notFound = common.ErrTweetNotFound
	default:
		return fmt.Errorf("%w: unknown target type %q", common.ErrInvalidInput, target.Type)
	}
	if err != nil {
		return fmt.Errorf("check %s %d: %w", target.Type, target.ID, err)
	}
	if !exists {
		return notFound
	}
	return nil
}

func (c *repoTargetChecker) checkVideo(ctx context.Context, id, actorID uint64) error {
	video, err := c.videoRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check video %d: %w", id, err)
	}
	if video == nil || !video.VisibleTo(actorID) {
		return common.ErrVideoNotFound
	}
	return nil
}

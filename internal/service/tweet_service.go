package service

import (
	"context"
	"strings"

	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
)

// TweetService channel post business logic
type TweetService interface {
	Create(ctx context.Context, userID uint64, req *domain.TweetRequest) (*domain.TweetResponse, error)
	ListByUsername(ctx context.Context, username string) ([]*domain.TweetResponse, error)
	Update(ctx context.Context, tweetID, userID uint64, req *domain.TweetRequest) (*domain.TweetResponse, error)
	Delete(ctx context.Context, tweetID, userID uint64) error
}

type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	reactions repository.ReactionStore
}

// NewTweetService creates a new TweetService
func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository, reactions repository.ReactionStore) TweetService {
	return &tweetService{tweetRepo: tweetRepo, userRepo: userRepo, reactions: reactions}
}

func (s *tweetService) Create(ctx context.Context, userID uint64, req *domain.TweetRequest) (*domain.TweetResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrInvalidInput
	}
	tweet := &domain.Tweet{OwnerID: userID, Content: content}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return s.load(ctx, tweet.ID)
}

// ListByUsername returns a channel's tweets, newest first, with reaction totals
func (s *tweetService) ListByUsername(ctx context.Context, username string) ([]*domain.TweetResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrChannelNotFound
	}

	tweets, err := s.tweetRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(tweets))
	for _, t := range tweets {
		ids = append(ids, t.ID)
	}
	counts, err := s.reactions.CountReactionsByTargets(ctx, domain.TargetPost, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.TweetResponse, 0, len(tweets))
	for _, t := range tweets {
		resp := t.ToResponse()
		resp.LikeCount = counts[t.ID].Likes
		resp.DislikeCount = counts[t.ID].Dislikes
		out = append(out, resp)
	}
	return out, nil
}

func (s *tweetService) Update(ctx context.Context, tweetID, userID uint64, req *domain.TweetRequest) (*domain.TweetResponse, error) {
	if err := s.checkOwner(ctx, tweetID, userID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrInvalidInput
	}
	if err := s.tweetRepo.UpdateContent(ctx, tweetID, content); err != nil {
		return nil, err
	}
	return s.load(ctx, tweetID)
}

// Delete removes the tweet and its reactions
func (s *tweetService) Delete(ctx context.Context, tweetID, userID uint64) error {
	if err := s.checkOwner(ctx, tweetID, userID); err != nil {
		return err
	}
	if err := s.reactions.DeleteTargetReactions(ctx, domain.TargetPost, []uint64{tweetID}); err != nil {
		return err
	}
	return s.tweetRepo.Delete(ctx, tweetID)
}

func (s *tweetService) checkOwner(ctx context.Context, tweetID, userID uint64) error {
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet == nil {
		return common.ErrTweetNotFound
	}
	if tweet.OwnerID != userID {
		return common.ErrForbidden
	}
	return nil
}

func (s *tweetService) load(ctx context.Context, tweetID uint64) (*domain.TweetResponse, error) {
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet == nil {
		return nil, common.ErrTweetNotFound
	}
	return tweet.ToResponse(), nil
}

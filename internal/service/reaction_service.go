package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

// maxToggleAttempts bounds how often a toggle re-reads after losing a race
const maxToggleAttempts = 3

var reactionTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "vidora",
		Name:      "reaction_transitions_total",
		Help:      "Reaction toggles by target type and applied mutation",
	},
	[]string{"target_type", "action"},
)

// ReactionService toggles likes/dislikes and recounts them
type ReactionService interface {
	// Toggle applies one like/dislike transition for actorID on target
	Toggle(ctx context.Context, actorID uint64, target domain.Target, kind domain.ReactionKind) (*domain.ToggleResult, error)
	// Recount reads fresh totals; actorID 0 yields a nil ActorReaction
	Recount(ctx context.Context, target domain.Target, actorID uint64) (*domain.ReactionSummary, error)
}

type reactionService struct {
	store   repository.ReactionStore
	targets TargetChecker
}

// NewReactionService creates a ReactionService. targets may be nil to skip existence checks.
func NewReactionService(store repository.ReactionStore, targets TargetChecker) ReactionService {
	return &reactionService{store: store, targets: targets}
}

// decideTransition is the toggle table:
//
//	none    + k       -> create k
//	k       + k       -> delete
//	like    + dislike -> update to dislike
//	dislike + like    -> update to like
func decideTransition(existing *domain.ReactionKind, desired domain.ReactionKind) (domain.ToggleAction, *domain.ReactionKind) {
	switch {
	case existing == nil:
		return domain.ActionCreated, &desired
	case *existing == desired:
		return domain.ActionDeleted, nil
	default:
		return domain.ActionUpdated, &desired
	}
}

func (s *reactionService) Toggle(ctx context.Context, actorID uint64, target domain.Target, kind domain.ReactionKind) (*domain.ToggleResult, error) {
	if actorID == 0 {
		return nil, common.ErrUnauthorized
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: reaction kind must be like or dislike", common.ErrInvalidInput)
	}
	if err := s.checkTarget(ctx, target, actorID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		result, applied, err := s.applyOnce(ctx, actorID, target, kind)
		if err != nil {
			return nil, err
		}
		if applied {
			reactionTransitions.WithLabelValues(string(target.Type), string(result.Action)).Inc()
			return result, nil
		}
		log := pkglogger.WithUserID(actorID)
		log.Debug().
			Str("target_type", string(target.Type)).
			Uint64("target_id", target.ID).
			Int("attempt", attempt).
			Msg("reaction toggle lost a race, re-reading")
	}

	reactionTransitions.WithLabelValues(string(target.Type), "conflict").Inc()
	return nil, common.ErrReactionConflict
}

// applyOnce reads the current reaction and performs one conditional write.
// applied is false when the write lost a race and nothing was changed.
func (s *reactionService) applyOnce(ctx context.Context, actorID uint64, target domain.Target, kind domain.ReactionKind) (*domain.ToggleResult, bool, error) {
	existing, err := s.store.FindReaction(ctx, actorID, target)
	if err != nil {
		return nil, false, fmt.Errorf("find reaction: %w", err)
	}

	var current *domain.ReactionKind
	if existing != nil {
		current = &existing.Kind
	}
	action, final := decideTransition(current, kind)
	result := &domain.ToggleResult{FinalKind: final, Action: action}

	switch action {
	case domain.ActionCreated:
		err := s.store.CreateReaction(ctx, &domain.Reaction{
			ActorID:    actorID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Kind:       kind,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("create reaction: %w", err)
		}
		return result, true, nil

	case domain.ActionDeleted:
		ok, err := s.store.DeleteReaction(ctx, existing)
		if err != nil {
			return nil, false, fmt.Errorf("delete reaction: %w", err)
		}
		return result, ok, nil

	default:
		ok, err := s.store.SwapReactionKind(ctx, existing, kind)
		if err != nil {
			return nil, false, fmt.Errorf("update reaction: %w", err)
		}
		return result, ok, nil
	}
}

func (s *reactionService) Recount(ctx context.Context, target domain.Target, actorID uint64) (*domain.ReactionSummary, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, target, actorID); err != nil {
		return nil, err
	}

	likes, err := s.store.CountReactions(ctx, target, domain.ReactionLike)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	dislikes, err := s.store.CountReactions(ctx, target, domain.ReactionDislike)
	if err != nil {
		return nil, fmt.Errorf("count dislikes: %w", err)
	}

	summary := &domain.ReactionSummary{LikeCount: likes, DislikeCount: dislikes}
	if actorID == 0 {
		return summary, nil
	}

	mine, err := s.store.FindReaction(ctx, actorID, target)
	if err != nil {
		return nil, fmt.Errorf("find reaction: %w", err)
	}
	if mine != nil {
		kind := mine.Kind
		summary.ActorReaction = &kind
	}
	return summary, nil
}

func (s *reactionService) checkTarget(ctx context.Context, target domain.Target, actorID uint64) error {
	if s.targets == nil {
		return nil
	}
	return s.targets.CheckTarget(ctx, target, actorID)
}

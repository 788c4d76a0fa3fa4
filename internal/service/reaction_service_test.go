package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/migration"
	"github.com/vidora/vidora-backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	video42   = domain.Target{Type: domain.TargetVideo, ID: 42}
	comment42 = domain.Target{Type: domain.TargetComment, ID: 42}
	like      = domain.ReactionLike
	dislike   = domain.ReactionDislike
)

func kindPtr(k domain.ReactionKind) *domain.ReactionKind { return &k }

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Run(db))
	return db
}

func TestDecideTransition(t *testing.T) {
	tests := []struct {
		name     string
		existing *domain.ReactionKind
		desired  domain.ReactionKind
		action   domain.ToggleAction
		final    *domain.ReactionKind
	}{
		{"none to like", nil, like, domain.ActionCreated, kindPtr(like)},
		{"none to dislike", nil, dislike, domain.ActionCreated, kindPtr(dislike)},
		{"like again clears", kindPtr(like), like, domain.ActionDeleted, nil},
		{"dislike again clears", kindPtr(dislike), dislike, domain.ActionDeleted, nil},
		{"like to dislike", kindPtr(like), dislike, domain.ActionUpdated, kindPtr(dislike)},
		{"dislike to like", kindPtr(dislike), like, domain.ActionUpdated, kindPtr(like)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, final := decideTransition(tt.existing, tt.desired)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.final, final)
		})
	}
}

func TestToggle_CreatesWhenNeutral(t *testing.T) {
	store := new(mockReactionStore)
	svc := NewReactionService(store, nil)

	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(nil, nil).Once()
	store.On("CreateReaction", mock.Anything, mock.MatchedBy(func(r *domain.Reaction) bool {
		return r.ActorID == 1 && r.Target() == video42 && r.Kind == like
	})).Return(nil).Once()

	result, err := svc.Toggle(context.Background(), 1, video42, like)

	require.NoError(t, err)
	assert.Equal(t, domain.ActionCreated, result.Action)
	assert.Equal(t, kindPtr(like), result.FinalKind)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "SwapReactionKind", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteReaction", mock.Anything, mock.Anything)
}

func TestToggle_SameKindDeletes(t *testing.T) {
	store := new(mockReactionStore)
	svc := NewReactionService(store, nil)
	existing := &domain.Reaction{ID: 9, ActorID: 1, TargetType: domain.TargetVideo, TargetID: 42, Kind: dislike}

	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(existing, nil).Once()
	store.On("DeleteReaction", mock.Anything, existing).Return(true, nil).Once()

	result, err := svc.Toggle(context.Background(), 1, video42, dislike)

	require.NoError(t, err)
	assert.Equal(t, domain.ActionDeleted, result.Action)
	assert.Nil(t, result.FinalKind)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateReaction", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SwapReactionKind", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_OppositeKindUpdates(t *testing.T) {
	store := new(mockReactionStore)
	svc := NewReactionService(store, nil)
	existing := &domain.Reaction{ID: 9, ActorID: 1, TargetType: domain.TargetVideo, TargetID: 42, Kind: like}

	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(existing, nil).Once()
	store.On("SwapReactionKind", mock.Anything, existing, dislike).Return(true, nil).Once()

	result, err := svc.Toggle(context.Background(), 1, video42, dislike)

	require.NoError(t, err)
	assert.Equal(t, domain.ActionUpdated, result.Action)
	assert.Equal(t, kindPtr(dislike), result.FinalKind)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateReaction", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteReaction", mock.Anything, mock.Anything)
}

func TestToggle_InvalidInputTouchesNoStore(t *testing.T) {
	store := new(mockReactionStore)
	targets := new(mockTargetChecker)
	svc := NewReactionService(store, targets)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, video42, domain.ReactionKind("love"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Toggle(ctx, 1, domain.Target{Type: "playlist", ID: 1}, like)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Toggle(ctx, 1, domain.Target{Type: domain.TargetVideo}, like)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Toggle(ctx, 0, video42, like)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	store.AssertNotCalled(t, "FindReaction", mock.Anything, mock.Anything, mock.Anything)
	targets.AssertNotCalled(t, "CheckTarget", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_MissingTarget(t *testing.T) {
	store := new(mockReactionStore)
	targets := new(mockTargetChecker)
	svc := NewReactionService(store, targets)

	targets.On("CheckTarget", mock.Anything, comment42, uint64(1)).Return(common.ErrCommentNotFound)

	_, err := svc.Toggle(context.Background(), 1, comment42, like)

	assert.ErrorIs(t, err, common.ErrCommentNotFound)
	assert.Equal(t, 404, common.StatusFor(err))
	store.AssertNotCalled(t, "FindReaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_RetriesAfterLosingInsertRace(t *testing.T) {
	store := new(mockReactionStore)
	svc := NewReactionService(store, nil)
	winner := &domain.Reaction{ID: 3, ActorID: 1, TargetType: domain.TargetVideo, TargetID: 42, Kind: like}

	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(nil, nil).Once()
	store.On("CreateReaction", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(winner, nil).Once()
	store.On("DeleteReaction", mock.Anything, winner).Return(true, nil).Once()

	result, err := svc.Toggle(context.Background(), 1, video42, like)

	require.NoError(t, err)
	assert.Equal(t, domain.ActionDeleted, result.Action)
	assert.Nil(t, result.FinalKind)
	store.AssertExpectations(t)
}

func TestToggle_ConflictAfterRepeatedLostRaces(t *testing.T) {
	store := new(mockReactionStore)
	svc := NewReactionService(store, nil)
	existing := &domain.Reaction{ID: 3, ActorID: 1, TargetType: domain.TargetVideo, TargetID: 42, Kind: like}

	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(existing, nil).Times(maxToggleAttempts)
	store.On("SwapReactionKind", mock.Anything, existing, dislike).Return(false, nil).Times(maxToggleAttempts)

	_, err := svc.Toggle(context.Background(), 1, video42, dislike)

	assert.ErrorIs(t, err, common.ErrReactionConflict)
	assert.Equal(t, 409, common.StatusFor(err))
	store.AssertExpectations(t)
}

func TestToggle_StoreErrorPropagates(t *testing.T) {
	store := new(mockReactionStore)
	svc := NewReactionService(store, nil)
	boom := errors.New("connection reset")

	store.On("FindReaction", mock.Anything, uint64(1), video42).Return(nil, boom)

	_, err := svc.Toggle(context.Background(), 1, video42, like)

	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "CreateReaction", mock.Anything, mock.Anything)
}

func TestToggle_SequenceProperties(t *testing.T) {
	ctx := context.Background()
	store := newMemReactionStore()
	svc := NewReactionService(store, nil)

	// like, like returns to neutral
	_, err := svc.Toggle(ctx, 1, video42, like)
	require.NoError(t, err)
	res, err := svc.Toggle(ctx, 1, video42, like)
	require.NoError(t, err)
	assert.Nil(t, res.FinalKind)

	// like, dislike leaves exactly one dislike
	_, err = svc.Toggle(ctx, 1, video42, like)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, video42, dislike)
	require.NoError(t, err)

	sum, err := svc.Recount(ctx, video42, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.LikeCount)
	assert.Equal(t, int64(1), sum.DislikeCount)
	assert.Equal(t, kindPtr(dislike), sum.ActorReaction)

	// other actors and target types are independent
	_, err = svc.Toggle(ctx, 2, video42, like)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, comment42, like)
	require.NoError(t, err)

	sum, err = svc.Recount(ctx, video42, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.LikeCount)
	assert.Equal(t, int64(1), sum.DislikeCount)
	assert.Equal(t, kindPtr(like), sum.ActorReaction)

	sum, err = svc.Recount(ctx, comment42, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.LikeCount)
	assert.Nil(t, sum.ActorReaction)
}

func TestToggle_EachCallWritesOnce(t *testing.T) {
	ctx := context.Background()
	store := newMemReactionStore()
	svc := NewReactionService(store, nil)

	sequence := []domain.ReactionKind{like, dislike, dislike, like, like, dislike}
	for i, k := range sequence {
		_, err := svc.Toggle(ctx, 5, video42, k)
		require.NoError(t, err)
		assert.Equal(t, i+1, store.writes)
	}

	// Totals never exceed the number of distinct actors
	sum, err := svc.Recount(ctx, video42, 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, sum.LikeCount+sum.DislikeCount, int64(1))
	assert.Equal(t, kindPtr(dislike), sum.ActorReaction)
}

func TestRecount_RejectsInvalidTarget(t *testing.T) {
	svc := NewReactionService(new(mockReactionStore), nil)

	_, err := svc.Recount(context.Background(), domain.Target{Type: "video", ID: 0}, 1)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestToggle_ConcurrentActorsOnSQLStore(t *testing.T) {
	ctx := context.Background()
	svc := NewReactionService(repository.NewReactionRepository(newServiceTestDB(t)), nil)

	const actors = 20
	var wg sync.WaitGroup
	errs := make(chan error, actors)
	for i := 1; i <= actors; i++ {
		wg.Add(1)
		go func(actor uint64) {
			defer wg.Done()
			_, err := svc.Toggle(ctx, actor, video42, like)
			errs <- err
		}(uint64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sum, err := svc.Recount(ctx, video42, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(actors), sum.LikeCount)
	assert.Equal(t, int64(0), sum.DislikeCount)
}

func TestToggle_ConcurrentSameActorKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	svc := NewReactionService(repository.NewReactionRepository(newServiceTestDB(t)), nil)

	const calls = 9
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, 1, video42, like)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, common.ErrReactionConflict)
		}()
	}
	wg.Wait()

	sum, err := svc.Recount(ctx, video42, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, sum.LikeCount, int64(1))
	if successes%2 == 1 {
		assert.Equal(t, int64(1), sum.LikeCount)
		assert.Equal(t, kindPtr(like), sum.ActorReaction)
	} else {
		assert.Equal(t, int64(0), sum.LikeCount)
		assert.Nil(t, sum.ActorReaction)
	}
}

func TestToggle_DraftVideoIsMissingToOthers(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	v := c.publish(t, alice.ID, "Work in progress")
	_, err := c.videos.TogglePublish(ctx, v.ID, alice.ID)
	require.NoError(t, err)
	draft := domain.Target{Type: domain.TargetVideo, ID: v.ID}

	_, err = c.reactionSvc.Toggle(ctx, 999, draft, like)
	assert.ErrorIs(t, err, common.ErrVideoNotFound)
	_, err = c.reactionSvc.Recount(ctx, draft, 0)
	assert.ErrorIs(t, err, common.ErrVideoNotFound)
	_, err = c.reactionSvc.Recount(ctx, draft, 999)
	assert.ErrorIs(t, err, common.ErrVideoNotFound)

	result, err := c.reactionSvc.Toggle(ctx, alice.ID, draft, like)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCreated, result.Action)

	sum, err := c.reactionSvc.Recount(ctx, draft, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.LikeCount)
}

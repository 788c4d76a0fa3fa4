package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"gorm.io/gorm"
)

// catalogue wires every service over one sqlite database
type catalogue struct {
	db        *gorm.DB
	users     repository.UserRepository
	reactions repository.ReactionStore
	media     *fakeMedia

	videos        VideoService
	comments      CommentService
	tweets        TweetService
	reactionSvc   ReactionService
	subscriptions SubscriptionService
	playlists     PlaylistService
	dashboard     DashboardService
	userSvc       UserService
}

func newCatalogue(t *testing.T) *catalogue {
	t.Helper()
	db := newServiceTestDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	playlists := repository.NewPlaylistRepository(db)
	history := repository.NewHistoryRepository(db)
	reactions := repository.NewReactionRepository(db)
	media := &fakeMedia{}

	return &catalogue{
		db:        db,
		users:     users,
		reactions: reactions,
		media:     media,
		videos: NewVideoService(VideoServiceDeps{
			Videos:    videos,
			Comments:  comments,
			Playlists: playlists,
			History:   history,
			Reactions: reactions,
			Tx:        repository.NewTransactor(db),
			Media:     media,
		}),
		comments:      NewCommentService(comments, videos, reactions),
		tweets:        NewTweetService(tweets, users, reactions),
		reactionSvc:   NewReactionService(reactions, NewTargetChecker(videos, comments, tweets)),
		subscriptions: NewSubscriptionService(subs, users, nil),
		playlists:     NewPlaylistService(playlists, videos, users),
		dashboard:     NewDashboardService(videos, subs, reactions),
		userSvc:       NewUserService(users, subs, history, media, nil),
	}
}

func (c *catalogue) user(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", FullName: username, Password: "x"}
	require.NoError(t, c.users.Create(context.Background(), u))
	return u
}

func (c *catalogue) publish(t *testing.T, ownerID uint64, title string) *domain.VideoResponse {
	t.Helper()
	v, err := c.videos.Publish(context.Background(), ownerID, &domain.PublishVideoRequest{
		Title:       title,
		Description: title + " description",
		Duration:    60,
		VideoFile:   &multipart.FileHeader{Filename: "clip.mp4"},
		Thumbnail:   &multipart.FileHeader{Filename: "thumb.png"},
	})
	require.NoError(t, err)
	return v
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageLimit, limit)

	page, limit = normalizePage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageLimit, limit)
}

func TestVideoService_PublishAndList(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")

	v := c.publish(t, alice.ID, "Learning Go")
	c.publish(t, alice.ID, "Baking bread")

	assert.True(t, v.IsPublished)
	require.NotNil(t, v.Owner)
	assert.Equal(t, "alice", v.Owner.Username)
	assert.Equal(t, 4, c.media.uploads)

	res, err := c.videos.List(ctx, domain.VideoListQuery{Query: "go"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPageLimit, res.Limit)
	assert.Equal(t, 1, res.TotalPages)
}

func TestVideoService_PublishRequiresFiles(t *testing.T) {
	c := newCatalogue(t)
	alice := c.user(t, "alice")

	_, err := c.videos.Publish(context.Background(), alice.ID, &domain.PublishVideoRequest{Title: "x", Description: "y"})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestVideoService_DraftsVisibleToOwnerOnly(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	bob := c.user(t, "bob")
	v := c.publish(t, alice.ID, "Secret")

	toggled, err := c.videos.TogglePublish(ctx, v.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	_, err = c.videos.Get(ctx, v.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrVideoNotFound)

	got, err := c.videos.Get(ctx, v.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	res, err := c.videos.List(ctx, domain.VideoListQuery{UserID: alice.ID}, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	res, err = c.videos.List(ctx, domain.VideoListQuery{UserID: alice.ID}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	_, err = c.videos.TogglePublish(ctx, v.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestVideoService_GetCountsViewAndHistory(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	bob := c.user(t, "bob")
	v := c.publish(t, alice.ID, "Popular")

	got, err := c.videos.Get(ctx, v.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = c.videos.Get(ctx, v.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)

	history, err := c.userSvc.GetWatchHistory(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, v.ID, history[0].ID)
}

func TestVideoService_UpdateReplacesThumbnail(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	v := c.publish(t, alice.ID, "Old title")

	updated, err := c.videos.Update(ctx, v.ID, alice.ID, &domain.UpdateVideoRequest{
		Title:       "New title",
		Description: "New description",
		Thumbnail:   &multipart.FileHeader{Filename: "new.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.NotEqual(t, v.Thumbnail, updated.Thumbnail)
	assert.Contains(t, c.media.deleted, v.Thumbnail)
}

func TestVideoService_DeleteCascades(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	bob := c.user(t, "bob")
	v := c.publish(t, alice.ID, "Doomed")
	videoTarget := domain.Target{Type: domain.TargetVideo, ID: v.ID}

	comment, err := c.comments.Add(ctx, v.ID, bob.ID, &domain.CommentRequest{Content: "nice"})
	require.NoError(t, err)
	commentTarget := domain.Target{Type: domain.TargetComment, ID: comment.ID}

	_, err = c.reactionSvc.Toggle(ctx, bob.ID, videoTarget, domain.ReactionLike)
	require.NoError(t, err)
	_, err = c.reactionSvc.Toggle(ctx, alice.ID, commentTarget, domain.ReactionDislike)
	require.NoError(t, err)

	pl, err := c.playlists.Create(ctx, bob.ID, &domain.PlaylistRequest{Name: "Later"})
	require.NoError(t, err)
	_, err = c.playlists.AddVideos(ctx, pl.ID, bob.ID, []uint64{v.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, c.videos.Delete(ctx, v.ID, bob.ID), common.ErrForbidden)
	require.NoError(t, c.videos.Delete(ctx, v.ID, alice.ID))

	_, err = c.videos.Get(ctx, v.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrVideoNotFound)

	n, err := c.reactions.CountReactions(ctx, videoTarget, domain.ReactionLike)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = c.reactions.CountReactions(ctx, commentTarget, domain.ReactionDislike)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := c.playlists.Get(ctx, pl.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalVideos)

	// Reacting to the deleted video is now a 404
	_, err = c.reactionSvc.Toggle(ctx, bob.ID, videoTarget, domain.ReactionLike)
	assert.ErrorIs(t, err, common.ErrVideoNotFound)
}

func TestVideoService_LikedVideos(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	bob := c.user(t, "bob")
	a := c.publish(t, alice.ID, "A")
	b := c.publish(t, alice.ID, "B")

	_, err := c.reactionSvc.Toggle(ctx, bob.ID, domain.Target{Type: domain.TargetVideo, ID: a.ID}, domain.ReactionLike)
	require.NoError(t, err)
	_, err = c.reactionSvc.Toggle(ctx, bob.ID, domain.Target{Type: domain.TargetVideo, ID: b.ID}, domain.ReactionDislike)
	require.NoError(t, err)

	videos, meta, err := c.videos.LikedVideos(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, a.ID, videos[0].ID)
	assert.Equal(t, int64(1), meta.Total)
}

func TestVideoService_LikedVideosHidesUnpublished(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	bob := c.user(t, "bob")
	kept := c.publish(t, alice.ID, "Kept")
	pulled := c.publish(t, alice.ID, "Pulled")

	for _, v := range []*domain.VideoResponse{kept, pulled} {
		_, err := c.reactionSvc.Toggle(ctx, bob.ID, domain.Target{Type: domain.TargetVideo, ID: v.ID}, domain.ReactionLike)
		require.NoError(t, err)
	}
	_, err := c.reactionSvc.Toggle(ctx, alice.ID, domain.Target{Type: domain.TargetVideo, ID: pulled.ID}, domain.ReactionLike)
	require.NoError(t, err)
	_, err = c.videos.TogglePublish(ctx, pulled.ID, alice.ID)
	require.NoError(t, err)

	videos, _, err := c.videos.LikedVideos(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, kept.ID, videos[0].ID)

	// the owner still sees their own draft
	videos, _, err = c.videos.LikedVideos(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, pulled.ID, videos[0].ID)
}

func TestVideoService_DeleteRollsBackOnFailure(t *testing.T) {
	c := newCatalogue(t)
	ctx := context.Background()
	alice := c.user(t, "alice")
	bob := c.user(t, "bob")
	v := c.publish(t, alice.ID, "Survivor")
	videoTarget := domain.Target{Type: domain.TargetVideo, ID: v.ID}

	comment, err := c.comments.Add(ctx, v.ID, bob.ID, &domain.CommentRequest{Content: "still here"})
	require.NoError(t, err)
	_, err = c.reactionSvc.Toggle(ctx, bob.ID, videoTarget, domain.ReactionLike)
	require.NoError(t, err)

	// history is the last dependent table cleared before the video row
	require.NoError(t, c.db.Migrator().DropTable(&domain.WatchHistory{}))

	require.Error(t, c.videos.Delete(ctx, v.ID, alice.ID))

	_, err = c.videos.Get(ctx, v.ID, alice.ID)
	require.NoError(t, err)
	n, err := c.reactions.CountReactions(ctx, videoTarget, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	comments, _, err := c.comments.List(ctx, v.ID, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
	assert.Empty(t, c.media.deleted)
}

func TestVideoService_DeletePurgesExternalReactionsAfterCommit(t *testing.T) {
	db := newServiceTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	owner := &domain.User{Username: "alice", Email: "alice@example.com", FullName: "alice", Password: "x"}
	require.NoError(t, users.Create(ctx, owner))
	v := &domain.Video{OwnerID: owner.ID, Title: "Gone", VideoFile: "v.mp4", Thumbnail: "t.png", IsPublished: true}
	require.NoError(t, videos.Create(ctx, v))

	store := new(mockReactionStore)
	store.On("DeleteTargetReactions", mock.Anything, domain.TargetComment, mock.Anything).Return(nil).Once()
	store.On("DeleteTargetReactions", mock.Anything, domain.TargetVideo, []uint64{v.ID}).Return(errors.New("mongo unreachable")).Once()

	svc := NewVideoService(VideoServiceDeps{
		Videos:    videos,
		Comments:  repository.NewCommentRepository(db),
		Playlists: repository.NewPlaylistRepository(db),
		History:   repository.NewHistoryRepository(db),
		Reactions: store,
		Tx:        repository.NewTransactor(db),
		Media:     &fakeMedia{},
	})

	require.NoError(t, svc.Delete(ctx, v.ID, owner.ID))

	gone, err := videos.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	store.AssertExpectations(t)
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", FullName: username, Password: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedVideo(t *testing.T, db *gorm.DB, ownerID uint64, title string, views int64, published bool) *domain.Video {
	t.Helper()
	v := &domain.Video{OwnerID: ownerID, Title: title, Description: title + " description", VideoFile: "v.mp4", Thumbnail: "t.png", Views: views, IsPublished: published}
	require.NoError(t, NewVideoRepository(db).Create(context.Background(), v))
	return v
}

func TestVideoRepo_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewVideoRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedVideo(t, db, alice.ID, "Go concurrency", 50, true)
	seedVideo(t, db, alice.ID, "Cooking pasta", 10, true)
	seedVideo(t, db, alice.ID, "Draft", 0, false)
	seedVideo(t, db, bob.ID, "Go generics", 99, true)

	videos, total, err := repo.List(ctx, domain.VideoFilter{SortColumn: "views", Desc: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, videos, 3)
	assert.Equal(t, "Go generics", videos[0].Title)
	require.NotNil(t, videos[0].Owner)
	assert.Equal(t, "bob", videos[0].Owner.Username)

	videos, total, err = repo.List(ctx, domain.VideoFilter{Query: "GO", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, videos, 2)

	_, total, err = repo.List(ctx, domain.VideoFilter{OwnerID: alice.ID, IncludePrivate: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	videos, total, err = repo.List(ctx, domain.VideoFilter{OwnerID: alice.ID, SortColumn: "title", Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, videos, 1)
	assert.Equal(t, "Go concurrency", videos[0].Title)
}

func TestVideoRepo_IncrementViewsAndStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewVideoRepository(db)
	alice := seedUser(t, db, "alice")

	v := seedVideo(t, db, alice.ID, "One", 5, true)
	seedVideo(t, db, alice.ID, "Two", 7, false)

	require.NoError(t, repo.IncrementViews(ctx, v.ID))

	found, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), found.Views)

	count, views, err := repo.OwnerStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(13), views)
}

func TestVideoRepo_FindByIDsKeepsOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewVideoRepository(db)
	alice := seedUser(t, db, "alice")

	a := seedVideo(t, db, alice.ID, "A", 0, true)
	b := seedVideo(t, db, alice.ID, "B", 0, true)

	videos, err := repo.FindByIDs(ctx, []uint64{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, b.ID, videos[0].ID)
	assert.Equal(t, a.ID, videos[1].ID)
}

func TestVideoRepo_FindByIDMissing(t *testing.T) {
	repo := NewVideoRepository(newTestDB(t))

	v, err := repo.FindByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, v)
}

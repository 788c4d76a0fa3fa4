package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidora/vidora-backend/internal/domain"
)

func TestSubscriptionRepo_UniquePair(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &domain.Subscription{SubscriberID: alice.ID, ChannelID: bob.ID}))
	err := repo.Create(ctx, &domain.Subscription{SubscriberID: alice.ID, ChannelID: bob.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := repo.CountSubscribers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSubscriptionRepo_ListBothDirections(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &domain.Subscription{SubscriberID: alice.ID, ChannelID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &domain.Subscription{SubscriberID: bob.ID, ChannelID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &domain.Subscription{SubscriberID: alice.ID, ChannelID: bob.ID}))

	subs, err := repo.ListSubscribers(ctx, carol.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	channels, err := repo.ListChannels(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	names := []string{channels[0].Username, channels[1].Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)

	n, err := repo.CountSubscriptions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSubscriptionRepo_FindAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	sub, err := repo.Find(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, sub)

	require.NoError(t, repo.Create(ctx, &domain.Subscription{SubscriberID: 1, ChannelID: 2}))
	sub, err = repo.Find(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, sub)

	ok, err := repo.Delete(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

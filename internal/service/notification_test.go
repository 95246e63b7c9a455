package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/testutil"
)

func TestNotificationDispatcher_DeliversAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedAccount(t, f.db, "owner")
	other := testutil.SeedAccount(t, f.db, "other")
	r := testutil.SeedReview(t, f.db, owner.ID, "r", time.Time{})

	hub := NewNotificationHub(4)
	ch, cancel := hub.Subscribe(owner.ID)
	defer cancel()

	_, err := newCommentService(f).Create(ctx, other.ID, r.ID, dto.CommentInput{Content: "hello"})
	require.NoError(t, err)

	d := NewNotificationDispatcher(f.notifs, f.accounts, hub, 10, time.Second)
	n, err := d.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case got := <-ch:
		assert.Equal(t, model.NotificationTypeComment, got.Type)
		assert.Equal(t, other.ID, got.Sender.Idx)
		assert.Equal(t, "other", got.Sender.Nickname)
	default:
		t.Fatal("expected a pushed notification")
	}

	// 已处理的事件不会被再次投递
	n, err = d.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var done int64
	require.NoError(t, f.db.Model(&model.NotificationOutbox{}).Where("status = ?", model.OutboxDone).Count(&done).Error)
	assert.Equal(t, int64(1), done)

	relations := NewRelationshipService(f.accounts, f.follows, f.blocks)
	require.NoError(t, relations.Follow(ctx, owner.ID, other.ID))
	page, err := NewNotificationService(f.notifs, relations).List(ctx, owner.ID, PageQuery{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	require.NotNil(t, page.Notifications[0].Sender.IsMyFollowing)
	assert.True(t, *page.Notifications[0].Sender.IsMyFollowing)
}

func TestNotificationHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewNotificationHub(1)
	ch, cancel := hub.Subscribe("u1")
	assert.Equal(t, 1, hub.Publish("u1", dto.NotificationResponse{Idx: 1}))
	// 缓冲区满时丢弃
	assert.Equal(t, 0, hub.Publish("u1", dto.NotificationResponse{Idx: 2}))
	assert.Equal(t, 0, hub.Publish("u2", dto.NotificationResponse{Idx: 3}))

	cancel()
	cancel()
	got, ok := <-ch
	assert.True(t, ok)
	assert.Equal(t, uint(1), got.Idx)
	_, ok = <-ch
	assert.False(t, ok)
}

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
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

func newCommentService(f *fixture) CommentService {
	return NewCommentService(f.comments, f.reviews, f.accounts, NewNotificationPublisher(f.db, f.notifs))
}

func pendingOutbox(t *testing.T, f *fixture) []model.NotificationOutbox {
	t.Helper()
	var rows []model.NotificationOutbox
	require.NoError(t, f.db.Where("status = ?", model.OutboxPending).Find(&rows).Error)
	return rows
}

func TestCommentService_CreateEmitsNotificationForOthersOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedAccount(t, f.db, "owner")
	other := testutil.SeedAccount(t, f.db, "other")
	tagged := testutil.SeedAccount(t, f.db, "tagged")
	r := testutil.SeedReview(t, f.db, owner.ID, "r", time.Time{})
	svc := newCommentService(f)

	// 评论自己的评测：无事件
	_, err := svc.Create(ctx, owner.ID, r.ID, dto.CommentInput{Content: "mine"})
	require.NoError(t, err)
	assert.Empty(t, pendingOutbox(t, f))

	c, err := svc.Create(ctx, other.ID, r.ID, dto.CommentInput{Content: "nice", UserIdxs: []string{tagged.ID, tagged.ID}})
	require.NoError(t, err)
	assert.Equal(t, "other", c.User.Nickname)
	require.Len(t, c.TaggedUsers, 1)
	assert.Equal(t, tagged.ID, c.TaggedUsers[0].Idx)

	events := pendingOutbox(t, f)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, other.ID, ev.SenderID)
	assert.Equal(t, owner.ID, ev.RecipientID)
	assert.Equal(t, model.NotificationTypeComment, ev.Type)
	require.NotNil(t, ev.ReviewID)
	assert.Equal(t, r.ID, *ev.ReviewID)
	require.NotNil(t, ev.CommentID)
	assert.Equal(t, c.Idx, *ev.CommentID)
}

func TestCommentService_CreateValidatesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedAccount(t, f.db, "owner")
	r1 := testutil.SeedReview(t, f.db, owner.ID, "r1", time.Time{})
	r2 := testutil.SeedReview(t, f.db, owner.ID, "r2", time.Time{})
	svc := newCommentService(f)

	_, err := svc.Create(ctx, owner.ID, 9999, dto.CommentInput{Content: "x"})
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	parent, err := svc.Create(ctx, owner.ID, r1.ID, dto.CommentInput{Content: "parent"})
	require.NoError(t, err)

	// 父评论必须属于同一条评测
	_, err = svc.Create(ctx, owner.ID, r2.ID, dto.CommentInput{Content: "reply", CommentIdx: &parent.Idx})
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	reply, err := svc.Create(ctx, owner.ID, r1.ID, dto.CommentInput{Content: "reply", CommentIdx: &parent.Idx})
	require.NoError(t, err)
	require.NotNil(t, reply.CommentIdx)
	assert.Equal(t, parent.Idx, *reply.CommentIdx)

	_, err = svc.Create(ctx, owner.ID, r1.ID, dto.CommentInput{Content: "x", UserIdxs: []string{"missing"}})
	assert.True(t, errcode.Is(err, errcode.KindNotFound))
}

func TestCommentService_OwnershipAndSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedAccount(t, f.db, "owner")
	other := testutil.SeedAccount(t, f.db, "other")
	r := testutil.SeedReview(t, f.db, owner.ID, "r", time.Time{})
	svc := newCommentService(f)

	c, err := svc.Create(ctx, other.ID, r.ID, dto.CommentInput{Content: "v1"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner.ID, c.Idx, "hijack")
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized))
	err = svc.Delete(ctx, owner.ID, c.Idx)
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized))
	_, err = svc.Update(ctx, other.ID, 9999, "x")
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	updated, err := svc.Update(ctx, other.ID, c.Idx, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	require.NoError(t, svc.Delete(ctx, other.ID, c.Idx))

	page, err := svc.List(ctx, r.ID, PageQuery{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPage)
	assert.Empty(t, page.Comments)

	_, err = svc.Get(ctx, r.ID, c.Idx)
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	// 行仍在，只是标记为已删除
	var raw model.Comment
	require.NoError(t, f.db.Unscoped().First(&raw, c.Idx).Error)
	_, deleted := raw.State().Deleted()
	assert.True(t, deleted)
}

func TestCommentService_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedAccount(t, f.db, "owner")
	r := testutil.SeedReview(t, f.db, owner.ID, "r", time.Time{})
	svc := newCommentService(f)

	var want []uint
	for i := 0; i < 3; i++ {
		c, err := svc.Create(ctx, owner.ID, r.ID, dto.CommentInput{Content: "c"})
		require.NoError(t, err)
		want = append([]uint{c.Idx}, want...)
	}

	page, err := svc.List(ctx, r.ID, PageQuery{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPage)
	require.Len(t, page.Comments, 2)
	assert.Equal(t, want[0], page.Comments[0].Idx)
	assert.Equal(t, want[1], page.Comments[1].Idx)
}

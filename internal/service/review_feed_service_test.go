package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/testutil"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

type FeedSuite struct {
	suite.Suite
	f      *fixture
	ctx    context.Context
	alice  *model.Account
	bob    *model.Account
	viewer *model.Account
}

func (s *FeedSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.ctx = context.Background()
	s.alice = testutil.SeedAccount(s.T(), s.f.db, "alice")
	s.bob = testutil.SeedAccount(s.T(), s.f.db, "bob")
	s.viewer = testutil.SeedAccount(s.T(), s.f.db, "viewer")
}

func TestFeedSuite(t *testing.T) {
	suite.Run(t, new(FeedSuite))
}

func reviewIDs(items []dto.ReviewResponse) []uint {
	out := make([]uint, len(items))
	for i, r := range items {
		out[i] = r.Idx
	}
	return out
}

func (s *FeedSuite) TestPaginationCoversFilteredSetExactlyOnce() {
	var all []uint
	for i := 0; i < 7; i++ {
		r := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "r", time.Time{})
		all = append([]uint{r.ID}, all...)
	}
	gone := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "deleted", time.Time{})
	s.Require().NoError(s.f.reviews.SoftDelete(s.ctx, gone.ID))

	for _, size := range []int{1, 2, 3, 7, 10} {
		var got []uint
		first, err := s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: size}})
		s.Require().NoError(err)
		s.Equal((7+size-1)/size, first.TotalPage, "size %d", size)
		for page := 1; page <= first.TotalPage; page++ {
			res, err := s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: page, Size: size}})
			s.Require().NoError(err)
			s.LessOrEqual(len(res.Reviews), size)
			got = append(got, reviewIDs(res.Reviews)...)
		}
		s.Equal(all, got, "size %d", size)
	}
}

func (s *FeedSuite) TestInvalidPagination() {
	for _, p := range []PageQuery{{Page: 0, Size: 10}, {Page: 1, Size: 0}, {Page: -1, Size: -1}} {
		_, err := s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: p})
		s.True(errcode.Is(err, errcode.KindValidation), "%+v", p)
	}
	_, err := s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 1}, Timeframe: "2D"})
	s.True(errcode.Is(err, errcode.KindValidation))
}

func (s *FeedSuite) TestTimeframeAndAuthorFilters() {
	now := time.Now()
	old := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "old", now.AddDate(0, 0, -10))
	recent := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "recent", now)
	byBob := testutil.SeedReview(s.T(), s.f.db, s.bob.ID, "bob", now)

	res, err := s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 10}, Timeframe: "7D"})
	s.Require().NoError(err)
	s.Equal([]uint{byBob.ID, recent.ID}, reviewIDs(res.Reviews))

	res, err = s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 10}, UserID: s.alice.ID})
	s.Require().NoError(err)
	s.Equal([]uint{recent.ID, old.ID}, reviewIDs(res.Reviews))

	res, err = s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 10}, UserIDs: []string{s.bob.ID}})
	s.Require().NoError(err)
	s.Equal([]uint{byBob.ID}, reviewIDs(res.Reviews))

	_, err = s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 10}, UserID: "missing"})
	s.True(errcode.Is(err, errcode.KindNotFound))
}

func (s *FeedSuite) TestFollowingFeed() {
	base := time.Now().Add(-time.Hour)
	a1 := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "a1", base)
	testutil.SeedReview(s.T(), s.f.db, s.bob.ID, "b1", base.Add(time.Minute))
	a2 := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "a2", base.Add(2*time.Minute))
	s.Require().NoError(s.f.follows.Create(s.ctx, s.viewer.ID, s.alice.ID))

	res, err := s.f.feed.ListFollowing(s.ctx, s.viewer.ID, PageQuery{Page: 1, Size: 10})
	s.Require().NoError(err)
	s.Equal(1, res.TotalPage)
	s.Equal([]uint{a2.ID, a1.ID}, reviewIDs(res.Reviews))

	_, err = s.f.feed.ListFollowing(s.ctx, "", PageQuery{Page: 1, Size: 10})
	s.True(errcode.Is(err, errcode.KindUnauthorized))
}

func (s *FeedSuite) TestSearch() {
	match := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "Ramen Shop", time.Time{})
	tagged := testutil.SeedReview(s.T(), s.f.db, s.bob.ID, "noodles", time.Time{}, "ramen")
	testutil.SeedReview(s.T(), s.f.db, s.bob.ID, "pizza", time.Time{})

	res, err := s.f.feed.Search(s.ctx, "", "RAMEN", PageQuery{Page: 1, Size: 10})
	s.Require().NoError(err)
	s.Equal([]uint{tagged.ID, match.ID}, reviewIDs(res.Reviews))

	_, err = s.f.feed.Search(s.ctx, "", "  ", PageQuery{Page: 1, Size: 10})
	s.True(errcode.Is(err, errcode.KindValidation))
}

func (s *FeedSuite) TestCommentedExcludesDeletedComments() {
	r1 := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "r1", time.Time{})
	r2 := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "r2", time.Time{})
	s.Require().NoError(s.f.db.Create(&model.Comment{ReviewID: r1.ID, AccountID: s.viewer.ID, Content: "x"}).Error)
	c := &model.Comment{ReviewID: r2.ID, AccountID: s.viewer.ID, Content: "y"}
	s.Require().NoError(s.f.db.Create(c).Error)
	s.Require().NoError(s.f.comments.SoftDelete(s.ctx, c.ID))

	res, err := s.f.feed.ListCommented(s.ctx, "", s.viewer.ID, PageQuery{Page: 1, Size: 10})
	s.Require().NoError(err)
	s.Equal([]uint{r1.ID}, reviewIDs(res.Reviews))
	s.Equal(int64(1), res.Reviews[0].CommentCount)
}

func (s *FeedSuite) TestLikedUsesLikeEdges() {
	r1 := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "r1", time.Time{})
	r2 := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "r2", time.Time{})
	// viewer 自己写的评测不应出现在点赞列表里
	testutil.SeedReview(s.T(), s.f.db, s.viewer.ID, "own", time.Time{})
	s.Require().NoError(s.f.reactions.Add(s.ctx, repository.ReactionLike, r2.ID, s.viewer.ID))
	s.Require().NoError(s.f.reactions.Add(s.ctx, repository.ReactionBookmark, r1.ID, s.viewer.ID))

	res, err := s.f.feed.ListLiked(s.ctx, s.viewer.ID, s.viewer.ID, PageQuery{Page: 1, Size: 10})
	s.Require().NoError(err)
	s.Equal([]uint{r2.ID}, reviewIDs(res.Reviews))
	s.True(res.Reviews[0].IsMyLike)

	res, err = s.f.feed.ListBookmarked(s.ctx, "", s.viewer.ID, PageQuery{Page: 1, Size: 10})
	s.Require().NoError(err)
	s.Equal([]uint{r1.ID}, reviewIDs(res.Reviews))
	s.False(res.Reviews[0].IsMyBookmark, "anonymous viewer gets no overlay")

	_, err = s.f.feed.ListLiked(s.ctx, "", "missing", PageQuery{Page: 1, Size: 10})
	s.True(errcode.Is(err, errcode.KindNotFound))
}

func (s *FeedSuite) TestLatestByUsers() {
	base := time.Now().Add(-time.Hour)
	a := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "a", base.Add(time.Minute))
	b := testutil.SeedReview(s.T(), s.f.db, s.bob.ID, "b", base)
	testutil.SeedReview(s.T(), s.f.db, s.viewer.ID, "v", base.Add(2*time.Minute))

	res, err := s.f.feed.ListLatestByUsers(s.ctx, "", []string{s.alice.ID, s.bob.ID}, PageQuery{Page: 1, Size: 10})
	s.Require().NoError(err)
	s.Equal([]uint{a.ID, b.ID}, reviewIDs(res.Reviews))
}

func (s *FeedSuite) TestOverlay() {
	ra := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "A", time.Time{})
	rb := testutil.SeedReview(s.T(), s.f.db, s.bob.ID, "B", time.Time{})
	s.Require().NoError(s.f.reactions.Add(s.ctx, repository.ReactionLike, ra.ID, s.viewer.ID))
	s.Require().NoError(s.f.reactions.Add(s.ctx, repository.ReactionDislike, rb.ID, s.viewer.ID))
	s.Require().NoError(s.f.blocks.Create(s.ctx, s.viewer.ID, s.bob.ID))

	st, err := s.f.status.GetUserStatus(s.ctx, s.viewer.ID, []uint{ra.ID, rb.ID})
	s.Require().NoError(err)
	s.Equal(UserStatus{IsMyLike: true}, st[ra.ID])
	s.Equal(UserStatus{IsMyDislike: true, IsMyBlock: true}, st[rb.ID])

	res, err := s.f.feed.ListAll(s.ctx, s.viewer.ID, AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 10}})
	s.Require().NoError(err)
	s.Equal([]uint{rb.ID, ra.ID}, reviewIDs(res.Reviews))
	s.True(res.Reviews[1].IsMyLike)
	s.False(res.Reviews[0].IsMyLike)
	s.True(res.Reviews[0].IsMyBlock)

	anon, err := s.f.feed.ListAll(s.ctx, "", AllReviewsQuery{PageQuery: PageQuery{Page: 1, Size: 10}})
	s.Require().NoError(err)
	s.Equal(res.TotalPage, anon.TotalPage)
	s.Equal(reviewIDs(res.Reviews), reviewIDs(anon.Reviews))
}

func (s *FeedSuite) TestDetailCountsViews() {
	r := testutil.SeedReview(s.T(), s.f.db, s.alice.ID, "A", time.Time{})
	s.Require().NoError(s.f.reviews.SetViewCount(s.ctx, r.ID, 5))

	first, err := s.f.feed.GetDetail(s.ctx, "", r.ID)
	s.Require().NoError(err)
	second, err := s.f.feed.GetDetail(s.ctx, s.viewer.ID, r.ID)
	s.Require().NoError(err)
	s.Equal(int64(6), first.ViewCount)
	s.Equal(first.ViewCount+1, second.ViewCount)

	s.Require().NoError(s.f.reviews.SoftDelete(s.ctx, r.ID))
	_, err = s.f.feed.GetDetail(s.ctx, "", r.ID)
	s.True(errcode.Is(err, errcode.KindNotFound))
}

func TestResolveTimeframe(t *testing.T) {
	now := time.Date(2024, 3, 31, 15, 0, 0, 0, time.Local)
	cases := map[string]time.Time{
		"1D": time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local),
		"7D": time.Date(2024, 3, 25, 0, 0, 0, 0, time.Local),
		"1M": time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local), // AddDate 对 2 月 31 日做了规范化
		"1Y": time.Date(2023, 3, 31, 0, 0, 0, 0, time.Local),
	}
	for tf, want := range cases {
		got, ok, err := ResolveTimeframe(tf, now)
		require.NoError(t, err, tf)
		assert.True(t, ok, tf)
		assert.Equal(t, want, got, tf)
	}
	_, ok, err := ResolveTimeframe("all", now)
	require.NoError(t, err)
	assert.False(t, ok)

	days, err := ResolveWindow("")
	require.NoError(t, err)
	assert.Equal(t, 7, days)
}

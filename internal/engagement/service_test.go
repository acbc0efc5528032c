package engagement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func testConfig() config.EngagementConfig {
	return config.EngagementConfig{
		EnableLikes:         true,
		EnableComments:      true,
		EnableSubscriptions: true,
		EnableWatchHistory:  true,
		CountCacheTTL:       time.Hour,
		CacheKeyPrefix:      "mmtest",
		CommentsPerPage:     20,
	}
}

// brokenCache fails every operation
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string) (string, bool, error) { return "", false, errCacheDown }
func (brokenCache) Set(context.Context, string, string, time.Duration) error {
	return errCacheDown
}
func (brokenCache) Delete(context.Context, ...string) error { return errCacheDown }

type EngagementTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.Store
	cache   *cache.MemoryCache
	service *engagement.Service
	now     time.Time
}

func (suite *EngagementTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = testutil.NewStore(suite.T())
	suite.cache = cache.NewMemoryCache()
	suite.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.service = engagement.NewService(suite.store, suite.cache, testConfig()).
		WithClock(func() time.Time { return suite.now })
}

func TestEngagementSuite(t *testing.T) {
	suite.Run(t, new(EngagementTestSuite))
}

func (suite *EngagementTestSuite) advance(d time.Duration) {
	suite.now = suite.now.Add(d)
}

func (suite *EngagementTestSuite) TestToggleLikeScenario() {
	t := suite.T()

	first, err := suite.service.ToggleLike(suite.ctx, 42, 7)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.Count)

	// an anonymous reader between the two toggles sees the like
	count, err := suite.service.GetLikeCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := suite.service.UserHasLiked(suite.ctx, 0, 7)
	require.NoError(t, err)
	assert.False(t, liked)

	second, err := suite.service.ToggleLike(suite.ctx, 42, 7)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, int64(0), second.Count)
}

func (suite *EngagementTestSuite) TestToggleLikeParity() {
	t := suite.T()

	// another user's like sets a non-zero baseline
	_, err := suite.service.ToggleLike(suite.ctx, 1, 7)
	require.NoError(t, err)
	before, err := suite.service.GetLikeCount(suite.ctx, 7)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err := suite.service.ToggleLike(suite.ctx, 42, 7)
		require.NoError(t, err)
	}

	after, err := suite.service.GetLikeCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	liked, err := suite.service.UserHasLiked(suite.ctx, 42, 7)
	require.NoError(t, err)
	assert.False(t, liked)
}

func (suite *EngagementTestSuite) TestLikeCountIsReadThrough() {
	t := suite.T()

	count, err := suite.service.GetLikeCount(suite.ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// a write that bypasses the service is hidden by the cached count
	require.NoError(t, suite.store.InsertLike(suite.ctx, &models.Like{UserID: 5, PostID: 9}))
	count, err = suite.service.GetLikeCount(suite.ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// a toggle invalidates and the count matches the rows again
	result, err := suite.service.ToggleLike(suite.ctx, 6, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Count)
}

func (suite *EngagementTestSuite) TestCacheFailureFallsBackToStore() {
	t := suite.T()
	svc := engagement.NewService(suite.store, brokenCache{}, testConfig())

	result, err := svc.ToggleLike(suite.ctx, 42, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	count, err := svc.GetLikeCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func (suite *EngagementTestSuite) TestToggleLikeRejectsAnonymous() {
	_, err := suite.service.ToggleLike(suite.ctx, 0, 7)
	assert.ErrorIs(suite.T(), err, engagement.ErrValidation)
}

func (suite *EngagementTestSuite) TestPendingCommentsAreHiddenUntilApproved() {
	t := suite.T()
	testutil.CreateUser(t, suite.store, "ana", "Ana")

	id, err := suite.service.AddComment(suite.ctx, 1, 7, "  lovely talk  ", 0, models.CommentStatusPending)
	require.NoError(t, err)
	require.NotZero(t, id)

	views, err := suite.service.GetComments(suite.ctx, 7, 20, 0, models.CommentStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, views)

	count, err := suite.service.GetCommentCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, suite.service.SetCommentStatus(suite.ctx, id, models.CommentStatusApproved))

	suite.advance(5 * time.Minute)
	views, err = suite.service.GetComments(suite.ctx, 7, 20, 0, models.CommentStatusApproved)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, id, views[0].ID)
	assert.Equal(t, "lovely talk", views[0].Content)
	assert.Equal(t, "Ana", views[0].AuthorName)
	assert.Equal(t, "5 minutes ago", views[0].TimeAgo)
	assert.Contains(t, views[0].AvatarURL, "https://www.gravatar.com/avatar/")

	count, err = suite.service.GetCommentCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func (suite *EngagementTestSuite) TestAddCommentValidation() {
	t := suite.T()

	tests := []struct {
		name    string
		userID  uint64
		postID  uint64
		content string
		status  models.CommentStatus
	}{
		{"empty content", 1, 7, "   ", models.CommentStatusApproved},
		{"anonymous", 0, 7, "hi", models.CommentStatusApproved},
		{"missing post", 1, 0, "hi", models.CommentStatusApproved},
		{"unknown status", 1, 7, "hi", models.CommentStatus("spam")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := suite.service.AddComment(suite.ctx, tt.userID, tt.postID, tt.content, 0, tt.status)
			assert.ErrorIs(t, err, engagement.ErrValidation)
		})
	}
}

func (suite *EngagementTestSuite) TestReplyNeedsParentOnSamePost() {
	t := suite.T()

	parent, err := suite.service.AddComment(suite.ctx, 1, 7, "root", 0, models.CommentStatusApproved)
	require.NoError(t, err)

	_, err = suite.service.AddComment(suite.ctx, 2, 8, "wrong post", parent, models.CommentStatusApproved)
	assert.ErrorIs(t, err, engagement.ErrValidation)

	_, err = suite.service.AddComment(suite.ctx, 2, 7, "missing parent", 9999, models.CommentStatusApproved)
	assert.ErrorIs(t, err, engagement.ErrValidation)

	_, err = suite.service.AddComment(suite.ctx, 2, 7, "reply", parent, models.CommentStatusApproved)
	assert.NoError(t, err)
}

func (suite *EngagementTestSuite) TestDeleteCommentPermissions() {
	t := suite.T()

	id, err := suite.service.AddComment(suite.ctx, 1, 7, "mine", 0, models.CommentStatusApproved)
	require.NoError(t, err)

	err = suite.service.DeleteComment(suite.ctx, id, engagement.Actor{UserID: 2})
	assert.ErrorIs(t, err, engagement.ErrForbidden)

	err = suite.service.DeleteComment(suite.ctx, 9999, engagement.Actor{UserID: 1})
	assert.ErrorIs(t, err, engagement.ErrNotFound)

	count, err := suite.service.GetCommentCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, suite.service.DeleteComment(suite.ctx, id, engagement.Actor{UserID: 2, IsAdmin: true}))

	count, err = suite.service.GetCommentCount(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func (suite *EngagementTestSuite) TestAuthorCanDeleteOwnComment() {
	t := suite.T()

	id, err := suite.service.AddComment(suite.ctx, 1, 7, "mine", 0, models.CommentStatusApproved)
	require.NoError(t, err)
	reply, err := suite.service.AddComment(suite.ctx, 2, 7, "reply", id, models.CommentStatusApproved)
	require.NoError(t, err)

	require.NoError(t, suite.service.DeleteComment(suite.ctx, id, engagement.Actor{UserID: 1}))

	// replies are not cascaded
	views, err := suite.service.GetComments(suite.ctx, 7, 20, 0, models.CommentStatusApproved)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, reply, views[0].ID)
	assert.Equal(t, id, views[0].ParentID)
}

func (suite *EngagementTestSuite) TestSubscriptionToggleIsScopedByType() {
	t := suite.T()

	res, err := suite.service.ToggleSubscription(suite.ctx, 42, 5, models.ObjectMediaTeacher, true)
	require.NoError(t, err)
	assert.True(t, res.Subscribed)

	topic, err := suite.service.IsSubscribed(suite.ctx, 42, 5, models.ObjectMediaTopic)
	require.NoError(t, err)
	assert.False(t, topic)

	res, err = suite.service.ToggleSubscription(suite.ctx, 42, 5, models.ObjectMediaTopic, false)
	require.NoError(t, err)
	assert.True(t, res.Subscribed)

	res, err = suite.service.ToggleSubscription(suite.ctx, 42, 5, models.ObjectMediaTeacher, true)
	require.NoError(t, err)
	assert.False(t, res.Subscribed)

	teacher, err := suite.service.IsSubscribed(suite.ctx, 42, 5, models.ObjectMediaTeacher)
	require.NoError(t, err)
	assert.False(t, teacher)

	topic, err = suite.service.IsSubscribed(suite.ctx, 42, 5, models.ObjectMediaTopic)
	require.NoError(t, err)
	assert.True(t, topic)
}

func (suite *EngagementTestSuite) TestToggleSubscriptionRejectsUnknownType() {
	_, err := suite.service.ToggleSubscription(suite.ctx, 42, 5, models.SubscriptionObjectType("post_tag"), true)
	assert.ErrorIs(suite.T(), err, engagement.ErrInvalidObjectType)
}

func (suite *EngagementTestSuite) TestContinueWatchingWindow() {
	t := suite.T()

	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 1, 5, 100))
	suite.advance(time.Second)
	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 2, 95, 100))
	suite.advance(time.Second)
	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 3, 50, 100))

	items, err := suite.service.GetContinueWatching(suite.ctx, 42, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(3), items[0].PostID)
	assert.InDelta(t, 50.0, items[0].Percent, 0.001)
}

func (suite *EngagementTestSuite) TestSaveProgressLastWriteWins() {
	t := suite.T()

	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 7, 400, 600))
	suite.advance(time.Minute)
	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 7, 30, 600))

	p, err := suite.service.GetProgress(suite.ctx, 42, 7)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(30), p.ProgressSeconds)

	none, err := suite.service.GetProgress(suite.ctx, 42, 8)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func (suite *EngagementTestSuite) TestLibrarySections() {
	t := suite.T()

	require.NoError(t, suite.service.RecordWatch(suite.ctx, 42, 7))
	require.NoError(t, suite.service.RecordWatch(suite.ctx, 42, 7))
	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 7, 120, 600))
	_, err := suite.service.ToggleLike(suite.ctx, 42, 8)
	require.NoError(t, err)
	_, err = suite.service.ToggleSubscription(suite.ctx, 42, 3, models.ObjectPlaylist, true)
	require.NoError(t, err)

	history, err := suite.service.GetLibrary(suite.ctx, 42, engagement.SectionHistory, 10)
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, int64(2), history.Items[0].WatchCount)

	cont, err := suite.service.GetLibrary(suite.ctx, 42, engagement.SectionContinue, 10)
	require.NoError(t, err)
	require.Len(t, cont.Items, 1)
	assert.Equal(t, uint64(7), cont.Items[0].PostID)

	liked, err := suite.service.GetLibrary(suite.ctx, 42, engagement.SectionLiked, 10)
	require.NoError(t, err)
	require.Len(t, liked.Items, 1)
	assert.Equal(t, uint64(8), liked.Items[0].PostID)

	subs, err := suite.service.GetLibrary(suite.ctx, 42, engagement.SectionSubscriptions, 10)
	require.NoError(t, err)
	require.Len(t, subs.Items, 1)
	assert.Equal(t, models.ObjectPlaylist, subs.Items[0].ObjectType)

	_, err = suite.service.GetLibrary(suite.ctx, 42, "downloads", 10)
	assert.ErrorIs(t, err, engagement.ErrInvalidSection)
}

func (suite *EngagementTestSuite) TestPostEngagementSnapshot() {
	t := suite.T()

	_, err := suite.service.ToggleLike(suite.ctx, 42, 7)
	require.NoError(t, err)
	_, err = suite.service.AddComment(suite.ctx, 42, 7, "great", 0, models.CommentStatusApproved)
	require.NoError(t, err)
	require.NoError(t, suite.service.SaveProgress(suite.ctx, 42, 7, 60, 600))
	require.NoError(t, suite.service.RecordWatch(suite.ctx, 42, 7))
	require.NoError(t, suite.service.RecordWatch(suite.ctx, 42, 7))

	snap, err := suite.service.GetPostEngagement(suite.ctx, 7, 42)
	require.NoError(t, err)
	assert.True(t, snap.Enabled.Likes)
	assert.Equal(t, int64(1), snap.LikeCount)
	assert.Equal(t, int64(1), snap.CommentCount)
	assert.True(t, snap.UserLiked)
	require.NotNil(t, snap.Progress)
	assert.Equal(t, int64(60), snap.Progress.ProgressSeconds)
	assert.Equal(t, int64(2), snap.WatchCount)

	anon, err := suite.service.GetPostEngagement(suite.ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), anon.LikeCount)
	assert.False(t, anon.UserLiked)
	assert.Nil(t, anon.Progress)
	assert.Zero(t, anon.WatchCount)

	other, err := suite.service.GetPostEngagement(suite.ctx, 7, 43)
	require.NoError(t, err)
	assert.Zero(t, other.WatchCount)
}

func (suite *EngagementTestSuite) TestSnapshotSkipsDisabledFeatures() {
	t := suite.T()
	cfg := testConfig()
	cfg.EnableLikes = false
	cfg.EnableComments = false
	svc := engagement.NewService(suite.store, suite.cache, cfg)

	_, err := suite.service.ToggleLike(suite.ctx, 42, 7)
	require.NoError(t, err)

	snap, err := svc.GetPostEngagement(suite.ctx, 7, 42)
	require.NoError(t, err)
	assert.False(t, snap.Enabled.Likes)
	assert.Zero(t, snap.LikeCount)
	assert.False(t, snap.UserLiked)
}

func TestDefaultCommentStatus(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, models.CommentStatusPending, engagement.NewService(nil, nil, cfg).DefaultCommentStatus())

	cfg.AutoApproveComments = true
	assert.Equal(t, models.CommentStatusApproved, engagement.NewService(nil, nil, cfg).DefaultCommentStatus())
}

func TestAvatarURLNormalizesEmail(t *testing.T) {
	assert.Equal(t,
		engagement.AvatarURL("someone@example.com", 48),
		engagement.AvatarURL("  SomeOne@Example.com ", 48),
	)
}

// insertAfterDelete makes the next delete on table that removes nothing run
// insert once it has committed, as a concurrent toggle from another request
// would.
func (suite *EngagementTestSuite) insertAfterDelete(table string, insert func() error) {
	t := suite.T()
	fired := false
	err := suite.store.DB().Callback().Delete().After("gorm:commit_or_rollback_transaction").
		Register("test:concurrent_insert", func(tx *gorm.DB) {
			if fired || tx.Statement.Table != suite.store.Table(table) || tx.RowsAffected != 0 {
				return
			}
			fired = true
			require.NoError(t, insert())
		})
	require.NoError(t, err)
}

func (suite *EngagementTestSuite) TestToggleLikeLosesInsertRace() {
	t := suite.T()
	suite.insertAfterDelete(models.TableLikes, func() error {
		return suite.store.InsertLike(context.Background(), &models.Like{UserID: 42, PostID: 7, CreatedAt: suite.now})
	})

	result, err := suite.service.ToggleLike(suite.ctx, 42, 7)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.Count)

	count, err := suite.store.CountLikes(suite.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func (suite *EngagementTestSuite) TestToggleSubscriptionLosesInsertRace() {
	t := suite.T()
	suite.insertAfterDelete(models.TableSubscriptions, func() error {
		return suite.store.InsertSubscription(context.Background(), &models.Subscription{
			UserID: 42, ObjectID: 5, ObjectType: models.ObjectPlaylist, CreatedAt: suite.now,
		})
	})

	result, err := suite.service.ToggleSubscription(suite.ctx, 42, 5, models.ObjectPlaylist, true)
	require.NoError(t, err)
	assert.True(t, result.Subscribed)

	ids, err := suite.store.ListSubscriberIDs(suite.ctx, 5, models.ObjectPlaylist, false)
	require.NoError(t, err)
	assert.Equal(t, []uint64{42}, ids)
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/access"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/auth"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/catalog"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/handlers"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/membership"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/middleware"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/subscriptions"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/testutil"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// HandlersTestSuite drives the full router against in-memory sqlite
type HandlersTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *store.Store
	catalog   *catalog.Repository
	members   *membership.Provider
	auth      *auth.Service
	router    *gin.Engine
	engCfg    config.EngagementConfig
	accessCfg config.AccessConfig
	limiter   *middleware.RateLimiter

	viewer *models.User
	other  *models.User
	admin  *models.User
	post   *models.MediaItem
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) SetupTest() {
	t := suite.T()
	gin.SetMode(gin.TestMode)

	suite.ctx = context.Background()
	suite.store = testutil.NewStore(t)
	db := suite.store.DB()
	suite.catalog = catalog.NewRepository(db, testutil.TablePrefix)
	suite.members = membership.NewProvider(db, testutil.TablePrefix)
	suite.auth = auth.NewService([]byte("handler-test-secret"), time.Hour, suite.store)
	suite.limiter = nil

	suite.engCfg = config.EngagementConfig{
		EnableLikes:         true,
		EnableComments:      true,
		EnableSubscriptions: true,
		EnableWatchHistory:  true,
		CountCacheTTL:       time.Hour,
		CacheKeyPrefix:      "mmtest",
		CommentsPerPage:     2,
	}
	suite.accessCfg = config.AccessConfig{
		MembershipGating:   true,
		PasswordMessage:    "Enter the password",
		MembershipMessage:  "Members only",
		UnpublishedMessage: "Not available",
		UnlockCookieSalt:   "handler_salt",
		UnlockCookieTTL:    24 * time.Hour,
	}

	suite.viewer = testutil.CreateUser(t, suite.store, "viewer", "Viewer")
	suite.other = testutil.CreateUser(t, suite.store, "other", "Other")
	suite.admin = &models.User{Login: "admin", DisplayName: "Admin", Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, suite.store.CreateUser(suite.ctx, suite.admin))

	suite.post = &models.MediaItem{Title: "Morning Sit", Status: models.MediaStatusPublish, DurationSeconds: 600}
	require.NoError(t, suite.catalog.CreateMedia(suite.ctx, suite.post))

	suite.buildRouter()
}

func (suite *HandlersTestSuite) buildRouter() {
	db := suite.store.DB()
	signer := access.NewSigner(suite.accessCfg.UnlockCookieSalt)
	h := handlers.NewHandlers(handlers.Deps{
		DB:         db,
		Engagement: engagement.NewService(suite.store, cache.NewMemoryCache(), suite.engCfg),
		Fanout:     subscriptions.NewFanout(suite.store),
		Catalog:    suite.catalog,
		Gate:       access.NewGate(suite.accessCfg, signer, suite.members),
		Unlocker:   access.NewUnlocker(signer, suite.accessCfg),
	})

	suite.router = gin.New()
	h.RegisterRoutes(suite.router, suite.auth, suite.limiter)
}

func (suite *HandlersTestSuite) token(u *models.User) string {
	tok, _, err := suite.auth.GenerateToken(u)
	require.NoError(suite.T(), err)
	return tok
}

// do sends a request as u (nil for anonymous) and returns the recorder
func (suite *HandlersTestSuite) do(method, path string, u *models.User, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+suite.token(u))
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (suite *HandlersTestSuite) postPath(suffix string) string {
	return fmt.Sprintf("/api/v1/posts/%d%s", suite.post.ID, suffix)
}

func (suite *HandlersTestSuite) TestToggleLikeRequiresLogin() {
	t := suite.T()

	w := suite.do(http.MethodPost, suite.postPath("/like"), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode[util.ErrorResponse](t, w)
	assert.Equal(t, "You must be logged in to like content.", resp.Message)
}

func (suite *HandlersTestSuite) TestInvalidTokenIsAnonymous() {
	t := suite.T()

	req := httptest.NewRequest(http.MethodPost, suite.postPath("/like"), nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestToggleLikeRoundTrip() {
	t := suite.T()

	w := suite.do(http.MethodPost, suite.postPath("/like"), suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[engagement.LikeResult](t, w)
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.Count)

	w = suite.do(http.MethodGet, suite.postPath("/likes"), suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	likes := decode[map[string]interface{}](t, w)
	assert.Equal(t, float64(1), likes["count"])
	assert.Equal(t, true, likes["liked"])

	// anonymous readers see the count but never a personal liked state
	w = suite.do(http.MethodGet, suite.postPath("/likes"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	likes = decode[map[string]interface{}](t, w)
	assert.Equal(t, float64(1), likes["count"])
	assert.Equal(t, false, likes["liked"])

	w = suite.do(http.MethodPost, suite.postPath("/like"), suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[engagement.LikeResult](t, w)
	assert.False(t, second.Liked)
	assert.Equal(t, int64(0), second.Count)
}

func (suite *HandlersTestSuite) TestLikeUnknownPost() {
	t := suite.T()

	w := suite.do(http.MethodPost, "/api/v1/posts/9999/like", suite.viewer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/posts/abc/like", suite.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDisabledFeatureIsRejected() {
	t := suite.T()
	suite.engCfg.EnableLikes = false
	suite.buildRouter()

	w := suite.do(http.MethodPost, suite.postPath("/like"), suite.viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Likes are disabled.", decode[util.ErrorResponse](t, w).Message)

	w = suite.do(http.MethodGet, suite.postPath("/engagement"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[engagement.Snapshot](t, w)
	assert.False(t, snap.Enabled.Likes)
	assert.True(t, snap.Enabled.Comments)
}

func (suite *HandlersTestSuite) TestCommentModerationFlow() {
	t := suite.T()

	w := suite.do(http.MethodPost, suite.postPath("/comments"), suite.viewer, map[string]interface{}{"content": "  Lovely practice  "})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[map[string]interface{}](t, w)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "Your comment is awaiting moderation.", created["message"])
	id := uint64(created["id"].(float64))

	w = suite.do(http.MethodGet, suite.postPath("/comments"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode[map[string]interface{}](t, w)
	assert.Empty(t, listing["comments"])
	assert.Equal(t, float64(0), listing["total"])

	// only admins moderate
	path := fmt.Sprintf("/api/v1/comments/%d/status", id)
	w = suite.do(http.MethodPut, path, suite.viewer, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = suite.do(http.MethodPut, path, suite.admin, map[string]string{"status": "spam"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = suite.do(http.MethodPut, path, suite.admin, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, suite.postPath("/comments"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Comments []engagement.CommentView `json:"comments"`
		Total    int64                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "Lovely practice", page.Comments[0].Content)
	assert.Equal(t, "Viewer", page.Comments[0].AuthorName)
	assert.Equal(t, int64(1), page.Total)
}

func (suite *HandlersTestSuite) TestCommentPagination() {
	t := suite.T()
	suite.engCfg.AutoApproveComments = true
	suite.buildRouter()

	for i := 0; i < 3; i++ {
		w := suite.do(http.MethodPost, suite.postPath("/comments"), suite.viewer, map[string]interface{}{"content": fmt.Sprintf("comment %d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := suite.do(http.MethodGet, suite.postPath("/comments?page=1"), nil, nil)
	first := decode[map[string]interface{}](t, w)
	assert.Len(t, first["comments"], 2)
	assert.Equal(t, true, first["has_more"])

	w = suite.do(http.MethodGet, suite.postPath("/comments?page=2"), nil, nil)
	second := decode[map[string]interface{}](t, w)
	assert.Len(t, second["comments"], 1)
	assert.Equal(t, false, second["has_more"])
}

func (suite *HandlersTestSuite) TestCreateCommentValidation() {
	t := suite.T()

	w := suite.do(http.MethodPost, suite.postPath("/comments"), nil, map[string]interface{}{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You must be logged in to comment.", decode[util.ErrorResponse](t, w).Message)

	w = suite.do(http.MethodPost, suite.postPath("/comments"), suite.viewer, map[string]interface{}{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Comment cannot be empty.", decode[util.ErrorResponse](t, w).Message)

	w = suite.do(http.MethodPost, suite.postPath("/comments"), suite.viewer, map[string]interface{}{"content": "reply", "parent_id": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Parent comment not found.", decode[util.ErrorResponse](t, w).Message)
}

func (suite *HandlersTestSuite) TestDeleteCommentPermissions() {
	t := suite.T()

	w := suite.do(http.MethodPost, suite.postPath("/comments"), suite.viewer, map[string]interface{}{"content": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint64(decode[map[string]interface{}](t, w)["id"].(float64))
	path := fmt.Sprintf("/api/v1/comments/%d", id)

	assert.Equal(t, http.StatusUnauthorized, suite.do(http.MethodDelete, path, nil, nil).Code)
	assert.Equal(t, http.StatusForbidden, suite.do(http.MethodDelete, path, suite.other, nil).Code)
	assert.Equal(t, http.StatusOK, suite.do(http.MethodDelete, path, suite.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodDelete, path, suite.viewer, nil).Code)
}

func (suite *HandlersTestSuite) TestSubscriptionToggleAndFanout() {
	t := suite.T()
	body := map[string]interface{}{"object_id": 5, "object_type": "media_teacher"}

	w := suite.do(http.MethodPost, "/api/v1/subscriptions", suite.viewer, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[engagement.SubscriptionResult](t, w).Subscribed)

	quiet := map[string]interface{}{"object_id": 5, "object_type": "media_teacher", "notify_email": false}
	w = suite.do(http.MethodPost, "/api/v1/subscriptions", suite.other, quiet)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/subscriptions/status?object_id=5&object_type=media_topic", suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]interface{}](t, w)["subscribed"])

	w = suite.do(http.MethodGet, "/api/v1/subscriptions/status?object_id=5&object_type=media_teacher", suite.viewer, nil)
	assert.Equal(t, true, decode[map[string]interface{}](t, w)["subscribed"])

	w = suite.do(http.MethodGet, "/api/v1/admin/subscribers?object_id=5&object_type=media_teacher", suite.viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var listing struct {
		Subscribers []uint64 `json:"subscribers"`
	}
	w = suite.do(http.MethodGet, "/api/v1/admin/subscribers?object_id=5&object_type=media_teacher", suite.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, []uint64{suite.viewer.ID, suite.other.ID}, listing.Subscribers)

	w = suite.do(http.MethodGet, "/api/v1/admin/subscribers?object_id=5&object_type=media_teacher&email_only=true", suite.admin, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, []uint64{suite.viewer.ID}, listing.Subscribers)
}

func (suite *HandlersTestSuite) TestSubscriptionRejectsUnknownType() {
	t := suite.T()

	w := suite.do(http.MethodPost, "/api/v1/subscriptions", suite.viewer, map[string]interface{}{"object_id": 5, "object_type": "media_year"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "object_type", decode[util.ErrorResponse](t, w).Field)
}

func (suite *HandlersTestSuite) TestProgressAndLibrary() {
	t := suite.T()

	w := suite.do(http.MethodPut, suite.postPath("/progress"), suite.viewer, map[string]interface{}{"progress_seconds": 120, "duration_seconds": 600})
	require.Equal(t, http.StatusOK, w.Code)
	w = suite.do(http.MethodPost, suite.postPath("/watch"), suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, suite.postPath("/progress"), suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Progress *engagement.Progress `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Progress)
	assert.Equal(t, int64(120), got.Progress.ProgressSeconds)

	w = suite.do(http.MethodGet, "/api/v1/library/continue", suite.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lib := decode[engagement.Library](t, w)
	require.Len(t, lib.Items, 1)
	assert.Equal(t, suite.post.ID, lib.Items[0].PostID)

	w = suite.do(http.MethodGet, "/api/v1/library/history", suite.viewer, nil)
	lib = decode[engagement.Library](t, w)
	require.Len(t, lib.Items, 1)
	assert.Equal(t, int64(1), lib.Items[0].WatchCount)

	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/library/favorites", suite.viewer, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, suite.do(http.MethodGet, "/api/v1/library/liked", nil, nil).Code)
}

func (suite *HandlersTestSuite) TestSaveProgressValidation() {
	t := suite.T()

	w := suite.do(http.MethodPut, suite.postPath("/progress"), suite.viewer, map[string]interface{}{"duration_seconds": 600})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodPut, suite.postPath("/progress"), suite.viewer, map[string]interface{}{"progress_seconds": -1, "duration_seconds": 600})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodPut, suite.postPath("/progress"), nil, map[string]interface{}{"progress_seconds": 1})
	assert.Equal(t, "You must be logged in to save progress.", decode[util.ErrorResponse](t, w).Message)
}

func (suite *HandlersTestSuite) TestPasswordUnlockFlow() {
	t := suite.T()

	hash, err := access.HashPassword("open sesame")
	require.NoError(t, err)
	item := &models.MediaItem{Title: "Retreat Talk", Status: models.MediaStatusPublish, PasswordHash: hash}
	require.NoError(t, suite.catalog.CreateMedia(suite.ctx, item))
	base := fmt.Sprintf("/api/v1/media/%d", item.ID)

	w := suite.do(http.MethodGet, base+"/access", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decision := decode[access.Decision](t, w)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.ReasonPassword, decision.Reason)
	assert.Equal(t, "Enter the password", decision.Message)

	w = suite.do(http.MethodPost, base+"/unlock", nil, map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, base+"/unlock", nil, map[string]string{"password": "open sesame"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, fmt.Sprintf("mindful_media_unlock_%d", item.ID), cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w = suite.do(http.MethodGet, base+"/access", nil, nil, cookies[0])
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[access.Decision](t, w).Allowed)

	w = suite.do(http.MethodPost, fmt.Sprintf("/api/v1/media/%d/unlock", suite.post.ID), nil, map[string]string{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestMembershipGatedTerm() {
	t := suite.T()

	term := &models.Term{Taxonomy: models.TaxonomySeries, Name: "Deep Rest", Slug: "deep-rest", MembershipLevels: models.StringArray{"gold"}}
	require.NoError(t, suite.catalog.CreateTerm(suite.ctx, term))
	path := fmt.Sprintf("/api/v1/terms/%d/access", term.ID)

	w := suite.do(http.MethodGet, path, nil, nil)
	decision := decode[access.Decision](t, w)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.ReasonMembership, decision.Reason)
	assert.Equal(t, []string{"gold"}, decision.RequiredLevels)

	w = suite.do(http.MethodGet, path, suite.viewer, nil)
	assert.False(t, decode[access.Decision](t, w).Allowed)

	require.NoError(t, suite.members.Grant(suite.ctx, &models.Membership{UserID: suite.viewer.ID, Level: "gold"}))
	w = suite.do(http.MethodGet, path, suite.viewer, nil)
	assert.True(t, decode[access.Decision](t, w).Allowed)

	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/terms/9999/access", nil, nil).Code)
}

func (suite *HandlersTestSuite) TestLockedPostRejectsEngagement() {
	t := suite.T()

	hash, err := access.HashPassword("open sesame")
	require.NoError(t, err)
	item := &models.MediaItem{Title: "Retreat Talk", Status: models.MediaStatusPublish, PasswordHash: hash}
	require.NoError(t, suite.catalog.CreateMedia(suite.ctx, item))
	base := fmt.Sprintf("/api/v1/posts/%d", item.ID)

	locked := []*httptest.ResponseRecorder{
		suite.do(http.MethodGet, base+"/comments", nil, nil),
		suite.do(http.MethodGet, base+"/likes", suite.viewer, nil),
		suite.do(http.MethodPost, base+"/like", suite.viewer, nil),
		suite.do(http.MethodPost, base+"/comments", suite.viewer, map[string]string{"content": "hello"}),
		suite.do(http.MethodPut, base+"/progress", suite.viewer, map[string]interface{}{"progress_seconds": 10, "duration_seconds": 600}),
		suite.do(http.MethodGet, base+"/engagement", suite.viewer, nil),
	}
	for _, w := range locked {
		require.Equal(t, http.StatusForbidden, w.Code)
		resp := decode[util.ErrorResponse](t, w)
		assert.Equal(t, "CONTENT_LOCKED", resp.Code)
		assert.Equal(t, string(access.ReasonPassword), resp.Reason)
		assert.Equal(t, "Enter the password", resp.Message)
	}

	count, err := suite.store.CountLikes(suite.ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/media/%d/unlock", item.ID), nil, map[string]string{"password": "open sesame"})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Result().Cookies()[0]

	assert.Equal(t, http.StatusOK, suite.do(http.MethodPost, base+"/like", suite.viewer, nil, cookie).Code)
	assert.Equal(t, http.StatusOK, suite.do(http.MethodGet, base+"/comments", nil, nil, cookie).Code)
}

func (suite *HandlersTestSuite) TestMembersOnlyPostListsLevels() {
	t := suite.T()

	item := &models.MediaItem{Title: "Gold Sit", Status: models.MediaStatusPublish, MembershipLevels: models.StringArray{"gold", "silver"}}
	require.NoError(t, suite.catalog.CreateMedia(suite.ctx, item))
	path := fmt.Sprintf("/api/v1/posts/%d/like", item.ID)

	w := suite.do(http.MethodPost, path, suite.viewer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	resp := decode[util.ErrorResponse](t, w)
	assert.Equal(t, string(access.ReasonMembership), resp.Reason)
	assert.Equal(t, "Members only", resp.Message)
	assert.ElementsMatch(t, []string{"gold", "silver"}, resp.RequiredLevels)

	require.NoError(t, suite.members.Grant(suite.ctx, &models.Membership{UserID: suite.viewer.ID, Level: "silver"}))
	assert.Equal(t, http.StatusOK, suite.do(http.MethodPost, path, suite.viewer, nil).Code)
}

func (suite *HandlersTestSuite) TestDraftPostIsHidden() {
	t := suite.T()

	item := &models.MediaItem{Title: "Unreleased", Status: models.MediaStatusDraft}
	require.NoError(t, suite.catalog.CreateMedia(suite.ctx, item))
	post := fmt.Sprintf("/api/v1/posts/%d", item.ID)
	media := fmt.Sprintf("/api/v1/media/%d", item.ID)

	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodPost, post+"/like", suite.viewer, nil).Code)
	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodGet, post+"/comments", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodGet, media+"/access", suite.viewer, nil).Code)
	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodPost, media+"/unlock", nil, map[string]string{"password": "x"}).Code)

	assert.Equal(t, http.StatusOK, suite.do(http.MethodGet, post+"/comments", suite.admin, nil).Code)
	w := suite.do(http.MethodGet, media+"/access", suite.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[access.Decision](t, w).Allowed)
}

func (suite *HandlersTestSuite) TestWriteRateLimit() {
	t := suite.T()
	suite.limiter = middleware.NewRateLimiter(middleware.WriteRateLimitConfig(2))
	suite.buildRouter()

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, suite.do(http.MethodPost, suite.postPath("/like"), suite.viewer, nil).Code)
	}
	w := suite.do(http.MethodPost, suite.postPath("/like"), suite.viewer, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// reads are not limited
	assert.Equal(t, http.StatusOK, suite.do(http.MethodGet, suite.postPath("/likes"), suite.viewer, nil).Code)
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

package handlers

import (
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

const watchHistoryDisabled = "Watch history is disabled."

// RecordWatch counts a view of a post
// POST /api/v1/posts/:id/watch
func (h *Handlers) RecordWatch(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().WatchHistory, watchHistoryDisabled) {
		return
	}
	userID, ok := util.RequireUserID(c, "You must be logged in to track watch history.")
	if !ok {
		return
	}
	postID, ok := h.postParam(c)
	if !ok || !h.requireAccess(c, postID) {
		return
	}

	if err := h.engagement.RecordWatch(c.Request.Context(), userID, postID); err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	util.RespondSuccess(c, gin.H{"recorded": true})
}

// SaveProgress stores the viewer's playback position
// PUT /api/v1/posts/:id/progress
func (h *Handlers) SaveProgress(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().WatchHistory, watchHistoryDisabled) {
		return
	}
	userID, ok := util.RequireUserID(c, "You must be logged in to save progress.")
	if !ok {
		return
	}
	postID, ok := h.postParam(c)
	if !ok {
		return
	}

	var req struct {
		ProgressSeconds *int64 `json:"progress_seconds"`
		DurationSeconds int64  `json:"duration_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body.")
		return
	}
	if req.ProgressSeconds == nil || *req.ProgressSeconds < 0 {
		util.RespondValidationError(c, "progress_seconds", "Invalid progress.")
		return
	}
	if req.DurationSeconds < 0 {
		util.RespondValidationError(c, "duration_seconds", "Invalid duration.")
		return
	}
	if !h.requireAccess(c, postID) {
		return
	}

	if err := h.engagement.SaveProgress(c.Request.Context(), userID, postID, *req.ProgressSeconds, req.DurationSeconds); err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	util.RespondSuccess(c, gin.H{"saved": true})
}

// GetProgress returns the viewer's playback position, or null
// GET /api/v1/posts/:id/progress
func (h *Handlers) GetProgress(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().WatchHistory, watchHistoryDisabled) {
		return
	}
	userID, ok := util.RequireUserID(c, "You must be logged in to view progress.")
	if !ok {
		return
	}
	postID, ok := h.postParam(c)
	if !ok || !h.requireAccess(c, postID) {
		return
	}

	progress, err := h.engagement.GetProgress(c.Request.Context(), userID, postID)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	util.RespondSuccess(c, gin.H{"progress": progress})
}

// GetLibrary returns one section of the viewer's library
// GET /api/v1/library/:section?limit=
func (h *Handlers) GetLibrary(c *gin.Context) {
	userID, ok := util.RequireUserID(c, "You must be logged in to view your library.")
	if !ok {
		return
	}

	section := c.Param("section")
	flags := h.engagement.Flags()
	switch section {
	case engagement.SectionContinue, engagement.SectionHistory:
		ok = featureEnabled(c, flags.WatchHistory, watchHistoryDisabled)
	case engagement.SectionLiked:
		ok = featureEnabled(c, flags.Likes, likesDisabled)
	case engagement.SectionSubscriptions:
		ok = featureEnabled(c, flags.Subscriptions, subscriptionsDisabled)
	}
	if !ok {
		return
	}

	library, err := h.engagement.GetLibrary(c.Request.Context(), userID, section, util.ParseInt(c.Query("limit"), 0))
	if err != nil {
		respondServiceError(c, err, "Library section")
		return
	}
	util.RespondSuccess(c, library)
}

// GetPostEngagement returns counts and the viewer's own state for a post
// GET /api/v1/posts/:id/engagement
func (h *Handlers) GetPostEngagement(c *gin.Context) {
	postID, ok := h.postParam(c)
	if !ok || !h.requireAccess(c, postID) {
		return
	}

	snapshot, err := h.engagement.GetPostEngagement(c.Request.Context(), postID, util.OptionalUserID(c))
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	util.RespondSuccess(c, snapshot)
}

package handlers

import (
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

const likesDisabled = "Likes are disabled."

// ToggleLike likes or unlikes a post for the viewer
// POST /api/v1/posts/:id/like
func (h *Handlers) ToggleLike(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().Likes, likesDisabled) {
		return
	}
	userID, ok := util.RequireUserID(c, "You must be logged in to like content.")
	if !ok {
		return
	}
	postID, ok := h.postParam(c)
	if !ok || !h.requireAccess(c, postID) {
		return
	}

	result, err := h.engagement.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	util.RespondSuccess(c, result)
}

// GetLikes returns the like count and whether the viewer liked the post.
// Anonymous viewers always get liked=false.
// GET /api/v1/posts/:id/likes
func (h *Handlers) GetLikes(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().Likes, likesDisabled) {
		return
	}
	postID, ok := h.postParam(c)
	if !ok || !h.requireAccess(c, postID) {
		return
	}

	ctx := c.Request.Context()
	count, err := h.engagement.GetLikeCount(ctx, postID)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	liked, err := h.engagement.UserHasLiked(ctx, util.OptionalUserID(c), postID)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}

	util.RespondSuccess(c, gin.H{
		"post_id": postID,
		"count":   count,
		"liked":   liked,
	})
}

package handlers

import (
	"net/http"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

const commentsDisabled = "Comments are disabled."

// CreateComment adds a comment or reply to a post. New comments are held for
// moderation unless auto-approval is on.
// POST /api/v1/posts/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().Comments, commentsDisabled) {
		return
	}
	userID, ok := util.RequireUserID(c, "You must be logged in to comment.")
	if !ok {
		return
	}
	postID, ok := h.postParam(c)
	if !ok {
		return
	}

	var req struct {
		Content  string `json:"content"`
		ParentID uint64 `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body.")
		return
	}
	if !h.requireAccess(c, postID) {
		return
	}

	status := h.engagement.DefaultCommentStatus()
	id, err := h.engagement.AddComment(c.Request.Context(), userID, postID, req.Content, req.ParentID, status)
	if err != nil {
		respondServiceError(c, err, "Comment")
		return
	}

	message := "Comment posted."
	if status == models.CommentStatusPending {
		message = "Your comment is awaiting moderation."
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"status":  status,
		"message": message,
	})
}

// GetComments lists approved comments on a post, newest first
// GET /api/v1/posts/:id/comments?page=
func (h *Handlers) GetComments(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().Comments, commentsDisabled) {
		return
	}
	postID, ok := h.postParam(c)
	if !ok || !h.requireAccess(c, postID) {
		return
	}

	page := util.ParseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage := h.engagement.Config().CommentsPerPage

	ctx := c.Request.Context()
	comments, err := h.engagement.GetComments(ctx, postID, perPage, (page-1)*perPage, models.CommentStatusApproved)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	total, err := h.engagement.GetCommentCount(ctx, postID)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}

	util.RespondSuccess(c, gin.H{
		"comments": comments,
		"page":     page,
		"per_page": perPage,
		"total":    total,
		"has_more": int64(page*perPage) < total,
	})
}

// DeleteComment removes a comment. Only the author or an admin may.
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.RequireUserID(c, "You must be logged in to delete comments.")
	if !ok {
		return
	}
	commentID, ok := util.IDParam(c, "id")
	if !ok {
		return
	}

	actor := engagement.Actor{UserID: userID, IsAdmin: util.IsAdmin(c)}
	if err := h.engagement.DeleteComment(c.Request.Context(), commentID, actor); err != nil {
		respondServiceError(c, err, "Comment")
		return
	}
	util.RespondSuccess(c, gin.H{"deleted": true})
}

// SetCommentStatus approves or unapproves a comment
// PUT /api/v1/comments/:id/status
func (h *Handlers) SetCommentStatus(c *gin.Context) {
	commentID, ok := util.IDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.CommentStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body.")
		return
	}
	if !req.Status.IsValid() {
		util.RespondValidationError(c, "status", "Status must be pending or approved.")
		return
	}

	if err := h.engagement.SetCommentStatus(c.Request.Context(), commentID, req.Status); err != nil {
		respondServiceError(c, err, "Comment")
		return
	}
	util.RespondSuccess(c, gin.H{"id": commentID, "status": req.Status})
}

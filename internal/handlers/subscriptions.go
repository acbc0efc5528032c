package handlers

import (
	"strconv"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

const subscriptionsDisabled = "Subscriptions are disabled."

// ToggleSubscription follows or unfollows a playlist, teacher, topic, or
// category. notify_email defaults to true.
// POST /api/v1/subscriptions
func (h *Handlers) ToggleSubscription(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().Subscriptions, subscriptionsDisabled) {
		return
	}
	userID, ok := util.RequireUserID(c, "You must be logged in to subscribe.")
	if !ok {
		return
	}

	var req struct {
		ObjectID    uint64                        `json:"object_id"`
		ObjectType  models.SubscriptionObjectType `json:"object_type"`
		NotifyEmail *bool                         `json:"notify_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body.")
		return
	}
	if req.ObjectID == 0 {
		util.RespondValidationError(c, "object_id", "Invalid object.")
		return
	}
	notify := true
	if req.NotifyEmail != nil {
		notify = *req.NotifyEmail
	}

	result, err := h.engagement.ToggleSubscription(c.Request.Context(), userID, req.ObjectID, req.ObjectType, notify)
	if err != nil {
		respondServiceError(c, err, "Object")
		return
	}
	util.RespondSuccess(c, result)
}

// objectQuery reads object_id and object_type from the query string
func objectQuery(c *gin.Context) (uint64, models.SubscriptionObjectType, bool) {
	objectID, ok := util.ParseID(c.Query("object_id"))
	if !ok {
		util.RespondValidationError(c, "object_id", "Invalid object.")
		return 0, "", false
	}
	objectType := models.SubscriptionObjectType(c.Query("object_type"))
	if !objectType.IsValid() {
		util.RespondValidationError(c, "object_type", "Invalid object type.")
		return 0, "", false
	}
	return objectID, objectType, true
}

// SubscriptionStatus reports whether the viewer follows an object
// GET /api/v1/subscriptions/status?object_id=&object_type=
func (h *Handlers) SubscriptionStatus(c *gin.Context) {
	if !featureEnabled(c, h.engagement.Flags().Subscriptions, subscriptionsDisabled) {
		return
	}
	objectID, objectType, ok := objectQuery(c)
	if !ok {
		return
	}

	subscribed, err := h.engagement.IsSubscribed(c.Request.Context(), util.OptionalUserID(c), objectID, objectType)
	if err != nil {
		respondServiceError(c, err, "Object")
		return
	}
	util.RespondSuccess(c, gin.H{"subscribed": subscribed})
}

// ListSubscribers returns the ids of users following an object
// GET /api/v1/admin/subscribers?object_id=&object_type=&email_only=
func (h *Handlers) ListSubscribers(c *gin.Context) {
	objectID, objectType, ok := objectQuery(c)
	if !ok {
		return
	}
	emailOnly, _ := strconv.ParseBool(c.Query("email_only"))

	ids, err := h.fanout.GetSubscribers(c.Request.Context(), objectID, objectType, emailOnly)
	if err != nil {
		respondServiceError(c, err, "Object")
		return
	}
	util.RespondSuccess(c, gin.H{
		"object_id":   objectID,
		"object_type": objectType,
		"email_only":  emailOnly,
		"subscribers": ids,
	})
}

package util

import (
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	ContextUserKey    = "user"
	ContextUserIDKey  = "user_id"
	ContextIsAdminKey = "is_admin"
)

// SetUser stores the authenticated user on the context
func SetUser(c *gin.Context, user *models.User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID)
	c.Set(ContextIsAdminKey, user.IsAdmin)
}

// OptionalUserID returns the viewer's ID, or 0 for anonymous viewers
func OptionalUserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// IsAdmin reports whether the viewer is an administrator
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextIsAdminKey)
}

// RequireUserID returns the viewer's ID. Anonymous viewers get a 401 with
// message and ok is false.
func RequireUserID(c *gin.Context, message string) (uint64, bool) {
	id := OptionalUserID(c)
	if id == 0 {
		RespondUnauthorized(c, message)
		return 0, false
	}
	return id, true
}

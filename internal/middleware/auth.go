package middleware

import (
	"strings"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/auth"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OptionalAuth identifies the viewer from a bearer token when one is sent.
// A missing or invalid token leaves the viewer anonymous; handlers that
// need a user reject anonymous viewers with their own message.
func OptionalAuth(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			logger.Log.Debug("Ignoring invalid bearer token",
				logger.WithIP(c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		util.SetUser(c, user)
		c.Next()
	}
}

// RequireAdmin rejects anonymous viewers and non-admins. It must run after
// OptionalAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.OptionalUserID(c) == 0 {
			util.RespondUnauthorized(c, "You must be logged in.")
			return
		}
		if !util.IsAdmin(c) {
			util.RespondForbidden(c, "Administrator access required.")
			return
		}
		c.Next()
	}
}

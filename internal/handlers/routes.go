package handlers

import (
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/auth"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API on r. Every /api/v1 route identifies the
// viewer when a token is sent; handlers decide whether one is required.
// A nil limiter leaves writes unthrottled.
func (h *Handlers) RegisterRoutes(r *gin.Engine, validator auth.TokenValidator, limiter *middleware.RateLimiter) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(validator))

	writes := []gin.HandlerFunc{}
	if limiter != nil {
		writes = append(writes, limiter.Middleware())
	}
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), handler)
	}

	posts := api.Group("/posts/:id")
	{
		posts.POST("/like", write(h.ToggleLike)...)
		posts.GET("/likes", h.GetLikes)
		posts.POST("/comments", write(h.CreateComment)...)
		posts.GET("/comments", h.GetComments)
		posts.POST("/watch", write(h.RecordWatch)...)
		posts.PUT("/progress", write(h.SaveProgress)...)
		posts.GET("/progress", h.GetProgress)
		posts.GET("/engagement", h.GetPostEngagement)
	}

	api.DELETE("/comments/:id", write(h.DeleteComment)...)
	api.POST("/subscriptions", write(h.ToggleSubscription)...)
	api.GET("/subscriptions/status", h.SubscriptionStatus)
	api.GET("/library/:section", h.GetLibrary)

	api.GET("/media/:id/access", h.MediaAccess)
	api.POST("/media/:id/unlock", write(h.UnlockMedia)...)
	api.GET("/terms/:id/access", h.TermAccess)
	api.POST("/terms/:id/unlock", write(h.UnlockTerm)...)

	admin := api.Group("", middleware.RequireAdmin())
	{
		admin.PUT("/comments/:id/status", h.SetCommentStatus)
		admin.GET("/admin/subscribers", h.ListSubscribers)
	}
}

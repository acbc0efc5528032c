// Package handlers is the HTTP surface of the engagement service
package handlers

import (
	"context"
	"errors"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/access"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/catalog"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/subscriptions"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	db         *gorm.DB
	engagement *engagement.Service
	fanout     *subscriptions.Fanout
	catalog    *catalog.Repository
	gate       *access.Gate
	unlocker   *access.Unlocker
}

// Deps are the components the handlers delegate to
type Deps struct {
	DB         *gorm.DB
	Engagement *engagement.Service
	Fanout     *subscriptions.Fanout
	Catalog    *catalog.Repository
	Gate       *access.Gate
	Unlocker   *access.Unlocker
}

// NewHandlers creates a new handlers instance
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		db:         deps.DB,
		engagement: deps.Engagement,
		fanout:     deps.Fanout,
		catalog:    deps.Catalog,
		gate:       deps.Gate,
		unlocker:   deps.Unlocker,
	}
}

// featureEnabled answers 403 with message when a feature is switched off
func featureEnabled(c *gin.Context, enabled bool, message string) bool {
	if !enabled {
		util.RespondForbidden(c, message)
		return false
	}
	return true
}

// viewerOf describes the requester to the gate
func viewerOf(c *gin.Context) access.Viewer {
	return access.Viewer{
		UserID:  util.OptionalUserID(c),
		IsAdmin: util.IsAdmin(c),
		Cookies: c.Request,
	}
}

// requireAccess lets the request through only when the gate allows the viewer
// to see post postID. Unknown and unpublished posts are 404s; password and
// membership locks are 403s carrying the gate's message and levels.
func (h *Handlers) requireAccess(c *gin.Context, postID uint64) bool {
	ctx := c.Request.Context()
	target, err := h.catalog.MediaTarget(ctx, postID)
	if errors.Is(err, catalog.ErrNotFound) {
		util.RespondNotFound(c, "Post")
		return false
	}
	if err != nil {
		util.RespondInternalError(c, err)
		return false
	}

	decision, err := h.gate.Evaluate(ctx, target, viewerOf(c))
	if err != nil {
		util.RespondInternalError(c, err)
		return false
	}
	switch {
	case decision.Allowed:
		return true
	case decision.Reason == access.ReasonUnpublished:
		util.RespondNotFound(c, "Post")
	default:
		util.RespondLocked(c, string(decision.Reason), decision.Message, decision.RequiredLevels)
	}
	return false
}

func (h *Handlers) postParam(c *gin.Context) (uint64, bool) {
	postID, ok := util.IDParam(c, "id")
	if !ok {
		return 0, false
	}
	return postID, true
}

// loadTarget resolves a gate target, answering 404 for unknown ids
func loadTarget(c *gin.Context, resource string, load func(context.Context, uint64) (access.Target, error)) (access.Target, bool) {
	id, ok := util.IDParam(c, "id")
	if !ok {
		return access.Target{}, false
	}
	target, err := load(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		util.RespondNotFound(c, resource)
		return access.Target{}, false
	}
	if err != nil {
		util.RespondInternalError(c, err)
		return access.Target{}, false
	}
	return target, true
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/access"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

type targetLoader func(context.Context, uint64) (access.Target, error)

// MediaAccess reports whether the viewer may see a media item
// GET /api/v1/media/:id/access
func (h *Handlers) MediaAccess(c *gin.Context) {
	h.evaluate(c, "Media item", h.catalog.MediaTarget)
}

// TermAccess reports whether the viewer may see a term such as a playlist
// GET /api/v1/terms/:id/access
func (h *Handlers) TermAccess(c *gin.Context) {
	h.evaluate(c, "Term", h.catalog.TermTarget)
}

// UnlockMedia trades a media item's password for an unlock cookie
// POST /api/v1/media/:id/unlock
func (h *Handlers) UnlockMedia(c *gin.Context) {
	h.unlock(c, "Media item", h.catalog.MediaTarget)
}

// UnlockTerm trades a playlist's password for an unlock cookie
// POST /api/v1/terms/:id/unlock
func (h *Handlers) UnlockTerm(c *gin.Context) {
	h.unlock(c, "Term", h.catalog.TermTarget)
}

// evaluate answers 200 with the decision whether or not access is allowed;
// a locked target is a normal outcome the client renders, not an error.
// Unpublished targets are reported as missing.
func (h *Handlers) evaluate(c *gin.Context, resource string, load targetLoader) {
	target, ok := loadTarget(c, resource, load)
	if !ok {
		return
	}

	decision, err := h.gate.Evaluate(c.Request.Context(), target, viewerOf(c))
	if err != nil {
		util.RespondInternalError(c, err)
		return
	}
	if decision.Reason == access.ReasonUnpublished {
		util.RespondNotFound(c, resource)
		return
	}
	util.RespondSuccess(c, decision)
}

func (h *Handlers) unlock(c *gin.Context, resource string, load targetLoader) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "password", "Please enter the password.")
		return
	}

	target, ok := loadTarget(c, resource, load)
	if !ok {
		return
	}
	if !target.Published() && !util.IsAdmin(c) {
		util.RespondNotFound(c, resource)
		return
	}

	cookie, err := h.unlocker.Unlock(target, req.Password)
	switch {
	case errors.Is(err, access.ErrNotProtected):
		util.RespondBadRequest(c, "This content is not password protected.")
		return
	case errors.Is(err, access.ErrWrongPassword):
		util.RespondForbidden(c, "Incorrect password. Please try again.")
		return
	case err != nil:
		util.RespondInternalError(c, err)
		return
	}

	http.SetCookie(c.Writer, cookie)
	util.RespondSuccess(c, gin.H{"unlocked": true})
}

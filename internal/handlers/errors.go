package handlers

import (
	"errors"
	"strings"
	"unicode"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/subscriptions"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinels onto API errors. resource names
// the thing a not-found error refers to. Anything unrecognised is a store
// failure and gets the generic message.
func respondServiceError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, engagement.ErrInvalidObjectType), errors.Is(err, subscriptions.ErrInvalidObjectType):
		util.RespondValidationError(c, "object_type", "Invalid object type.")
	case errors.Is(err, engagement.ErrInvalidSection):
		util.RespondNotFound(c, "Library section")
	case errors.Is(err, engagement.ErrValidation):
		util.RespondBadRequest(c, validationMessage(err))
	case errors.Is(err, engagement.ErrNotFound):
		util.RespondNotFound(c, resource)
	case errors.Is(err, engagement.ErrForbidden):
		util.RespondForbidden(c)
	default:
		util.RespondInternalError(c, err)
	}
}

// validationMessage turns "engagement: invalid input: comment cannot be
// empty" into "Comment cannot be empty."
func validationMessage(err error) string {
	detail, ok := strings.CutPrefix(err.Error(), engagement.ErrValidation.Error()+": ")
	if !ok || detail == "" {
		return "Invalid request."
	}
	runes := []rune(detail)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes) + "."
}

package util

import (
	"net/http"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/errors"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// GenericFailureMessage is shown when the viewer cannot act on the cause.
	GenericFailureMessage = "Something went wrong. Please try again."

	loginMessage     = "You must be logged in."
	forbiddenMessage = "You do not have permission to do that."
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code           string   `json:"code"`
	Message        string   `json:"message,omitempty"`
	Field          string   `json:"field,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	RequiredLevels []string `json:"required_levels,omitempty"`
}

// RespondWithAPIError aborts the request with apiErr. Client errors are
// logged at warn, server errors at error.
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	route := c.FullPath()
	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("route", route),
		logger.WithStatus(apiErr.Status),
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, logger.WithRequestID(requestID))
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error(apiErr.Message, fields...)
	} else {
		logger.Log.Warn(apiErr.Message, fields...)
	}
	metrics.RecordError(string(apiErr.Code), route)

	c.AbortWithStatusJSON(apiErr.Status, ErrorResponse{
		Code:           string(apiErr.Code),
		Message:        apiErr.Message,
		Field:          apiErr.Field,
		Reason:         apiErr.Reason,
		RequiredLevels: apiErr.RequiredLevels,
	})
}

func firstOr(messages []string, fallback string) string {
	if len(messages) > 0 && messages[0] != "" {
		return messages[0]
	}
	return fallback
}

// RespondUnauthorized sends a 401. Routes pass their own login prompt.
func RespondUnauthorized(c *gin.Context, message ...string) {
	RespondWithAPIError(c, errors.Unauthorized(firstOr(message, loginMessage)))
}

func RespondForbidden(c *gin.Context, message ...string) {
	RespondWithAPIError(c, errors.Forbidden(firstOr(message, forbiddenMessage)))
}

func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}

// RespondLocked sends a 403 naming why the content is locked.
func RespondLocked(c *gin.Context, reason, message string, levels []string) {
	RespondWithAPIError(c, errors.Locked(reason, message, levels))
}

// RespondRateLimited sends a 429; the caller sets Retry-After.
func RespondRateLimited(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.RateLimited(message))
}

// RespondInternalError logs err and sends the generic failure message.
func RespondInternalError(c *gin.Context, err error) {
	if err != nil {
		logger.Log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
	}
	RespondWithAPIError(c, errors.InternalError(GenericFailureMessage))
}

func RespondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

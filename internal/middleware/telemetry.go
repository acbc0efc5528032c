package middleware

import (
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware traces HTTP requests with otelgin and tags each span
// with the viewer and any handler errors
func TracingMiddleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), spanAttributes}
}

// spanAttributes must run inside the otelgin span: otelgin ends the span and
// restores the request context once its own c.Next returns
func spanAttributes(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}

	if userID := util.OptionalUserID(c); userID != 0 {
		span.SetAttributes(attribute.Int64("user.id", int64(userID)))
	}
	if page := c.Query("page"); page != "" {
		span.SetAttributes(attribute.String("query.page", page))
	}
	if limit := c.Query("limit"); limit != "" {
		span.SetAttributes(attribute.String("query.limit", limit))
	}

	for _, ginErr := range c.Errors {
		if ginErr.Err != nil {
			span.RecordError(ginErr.Err, trace.WithStackTrace(true))
			span.SetStatus(codes.Error, ginErr.Error())
		}
	}
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mindfulmedia/engagement"

// StartEngagementSpan starts a span for an engagement action such as
// "like.toggle" on a post or object
func StartEngagementSpan(ctx context.Context, action string, userID, targetID uint64, targetType string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "engagement."+action,
		trace.WithAttributes(
			attribute.String("engagement.action", action),
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("target.id", int64(targetID)),
			attribute.String("target.type", targetType),
		),
	)
}

// StartAccessSpan starts a span for an access gate evaluation
func StartAccessSpan(ctx context.Context, kind string, targetID, userID uint64) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "access.evaluate",
		trace.WithAttributes(
			attribute.String("target.kind", kind),
			attribute.Int64("target.id", int64(targetID)),
			attribute.Int64("user.id", int64(userID)),
		),
	)
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package telemetry

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	spanKey  = "mindfulmedia:span"
	startKey = "mindfulmedia:start"

	statementLimit = 500
)

// registerFunc matches the Register method of gorm's before and after hooks.
type registerFunc func(name string, fn func(*gorm.DB)) error

// storePlugin traces every statement the engagement store issues.
type storePlugin struct {
	tracer trace.Tracer
}

// GORMTracingPlugin returns a plugin that wraps create, query, update, delete
// and raw statements in a span named after the verb and table.
func GORMTracingPlugin() gorm.Plugin {
	return &storePlugin{tracer: otel.Tracer("mindfulmedia/store")}
}

func (p *storePlugin) Name() string { return "mindfulmedia:tracing" }

func (p *storePlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		verb          string
		before, after registerFunc
	}{
		{"insert", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"select", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		verb := h.verb
		if err := h.before("mindfulmedia:start_"+verb, func(tx *gorm.DB) { p.open(tx, verb) }); err != nil {
			return fmt.Errorf("register %s start hook: %w", verb, err)
		}
		if err := h.after("mindfulmedia:finish_"+verb, p.close); err != nil {
			return fmt.Errorf("register %s finish hook: %w", verb, err)
		}
	}
	return nil
}

func (p *storePlugin) open(tx *gorm.DB, verb string) {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return
	}
	table := tx.Statement.Table
	name := "store." + verb
	if table != "" {
		name += " " + table
	}

	_, span := p.tracer.Start(tx.Statement.Context, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", tx.Dialector.Name()),
			attribute.String("db.operation", verb),
			attribute.String("db.table", table),
		),
	)
	tx.InstanceSet(spanKey, span)
	tx.InstanceSet(startKey, time.Now())
}

func (p *storePlugin) close(tx *gorm.DB) {
	v, ok := tx.InstanceGet(spanKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", tx.RowsAffected)}
	if started, ok := tx.InstanceGet(startKey); ok {
		if at, ok := started.(time.Time); ok {
			attrs = append(attrs, attribute.Float64("db.duration_ms", float64(time.Since(at).Microseconds())/1000))
		}
	}
	// Placeholders only; bound values may carry emails or password hashes.
	if sql := tx.Statement.SQL.String(); sql != "" {
		if len(sql) > statementLimit {
			sql = sql[:statementLimit]
		}
		attrs = append(attrs, attribute.String("db.statement", sql))
	}
	span.SetAttributes(attrs...)

	switch {
	case tx.Error == nil, errors.Is(tx.Error, gorm.ErrRecordNotFound):
	case errors.Is(tx.Error, gorm.ErrDuplicatedKey):
		// toggles race into unique constraints and treat that as a no-op
		span.SetAttributes(attribute.Bool("db.duplicate", true))
	default:
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}
}

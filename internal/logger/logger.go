// Package logger holds the process-wide zap logger and the field helpers
// shared by handlers and services.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log discards everything until Initialize runs, so tests need no setup.
var Log = zap.NewNop()

// Initialize replaces Log with a stdout core and, when cfg.File is set, a
// rotated JSON file core.
func Initialize(cfg config.LogConfig) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder(cfg.Format), zapcore.Lock(stdoutSink{os.Stdout}), level),
	}
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotated), level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	Log.Debug("logger ready",
		zap.Stringer("level", level),
		zap.String("format", cfg.Format),
		zap.String("file", cfg.File),
	)
	return nil
}

// stdoutSink never fsyncs: stdout is usually a pipe or terminal, where
// fsync fails with EINVAL.
type stdoutSink struct{ io.Writer }

func (stdoutSink) Sync() error { return nil }

func jsonEncoder() zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(enc)
}

func stdoutEncoder(format string) zapcore.Encoder {
	if format == "json" {
		return jsonEncoder()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(enc)
}

// Close flushes buffered entries.
func Close() error {
	return Log.Sync()
}

// WarnWithFields logs msg at warn, attaching err when present.
func WarnWithFields(msg string, err error) {
	Log.Warn(msg, errorFields(err)...)
}

// ErrorWithFields logs msg at error, attaching err when present.
func ErrorWithFields(msg string, err error) {
	Log.Error(msg, errorFields(err)...)
}

// FatalWithFields logs msg and exits the process.
func FatalWithFields(msg string, err error) {
	Log.Fatal(msg, errorFields(err)...)
}

func errorFields(err error) []zap.Field {
	if err == nil {
		return nil
	}
	return []zap.Field{zap.Error(err)}
}

func WithRequestID(requestID string) zap.Field { return zap.String("request_id", requestID) }

func WithUserID(userID uint64) zap.Field { return zap.Uint64("user_id", userID) }

func WithPostID(postID uint64) zap.Field { return zap.Uint64("post_id", postID) }

// WithObject nests a subscription target as {"id", "type"}.
func WithObject(objectID uint64, objectType string) zap.Field {
	return zap.Dict("object",
		zap.Uint64("id", objectID),
		zap.String("type", objectType),
	)
}

func WithIP(ip string) zap.Field { return zap.String("ip", ip) }

func WithStatus(status int) zap.Field { return zap.Int("status", status) }

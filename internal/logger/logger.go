// Package logger wraps zap with a context-carried logger so request handlers
// can log with request-scoped fields without threading a logger through
// every call.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DevelopmentEnvironment = "development"
	ProductionEnvironment  = "production"
)

var base = zap.NewNop() //nolint: gochecknoglobals

// Setup replaces the process logger. Production gets the JSON encoder at
// info level, everything else the console encoder at debug level.
func Setup(environment string) error {
	var (
		l   *zap.Logger
		err error
	)
	if environment == ProductionEnvironment {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	base = l

	return nil
}

type ctxKey struct{}

// Get returns the logger stored in ctx, or the process logger.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(ctxKey{}).(*zap.Logger); l != nil {
		return l
	}

	return base
}

// WithLogger stores l in the returned context.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithFields returns a context whose logger carries fields.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}

// Sync flushes the process logger. Errors from syncing stderr are ignored.
func Sync() {
	_ = base.Sync()
}

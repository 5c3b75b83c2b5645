package http

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	userIDContextKey contextKey = "user_id"
	loggerContextKey contextKey = "logger"
)

// ContextWithUserID returns a derived context carrying the authenticated user.
func ContextWithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDContextKey, uid)
}

// UserIDFromContext extracts the authenticated user from context if available.
func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDContextKey).(string)
	return uid, ok
}

// ContextWithLogger returns a derived context carrying a request-scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext extracts the request-scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerContextKey).(*slog.Logger)
	return logger
}

package auth

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDContextKey is the context key for the authenticated user id.
	userIDContextKey contextKey = "user_id"
)

// ContextWithUserID adds the authenticated user id to the context.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext retrieves the authenticated user id.
// The second return value is false if auth middleware has not run.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}

// MustUserIDFromContext retrieves the authenticated user id.
// Panics if not present (use only when auth middleware has run).
func MustUserIDFromContext(ctx context.Context) int64 {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		panic("user id not found in context - ensure auth middleware is applied")
	}
	return id
}

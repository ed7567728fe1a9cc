package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyIsAdmin   contextKey = "is_admin"
)

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func UserEmailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyUserEmail).(string)
	return v, ok
}

func IsAdminFromContext(ctx context.Context) bool {
	v, ok := ctx.Value(ContextKeyIsAdmin).(bool)
	return ok && v
}

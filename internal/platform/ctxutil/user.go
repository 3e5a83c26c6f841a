package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type userIDKey struct{}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserID returns the authenticated caller's id, or uuid.Nil when absent.
func UserID(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(userIDKey{}).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

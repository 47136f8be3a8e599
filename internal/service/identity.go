package service

import (
	"context"

	"readingquest/internal/models"
)

type identityKey struct{}

// WithIdentity returns a context carrying the current player's identity
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity set by WithIdentity, or a guest
func IdentityFromContext(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(identityKey{}).(models.Identity); ok {
		return id
	}
	return models.Guest
}

// Package domain provides core business types and context helpers for Skald.
//
// Context helpers centralize request-scoped identity access so authorization
// checks read the same value everywhere.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// identityContextKey stores the authenticated caller in context.
	identityContextKey contextKey = iota
)

// Identity represents the authenticated caller as verified by the HTTP layer.
// The core trusts it; token verification happens upstream.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// NewContextWithIdentity returns a new context with the identity attached.
func NewContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity from context.
// Returns nil if the request is unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityContextKey).(*Identity)
	return identity
}

// UserIDFromContext retrieves the caller's user ID from context.
// Returns uuid.Nil if the request is unauthenticated.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.UserID
	}
	return uuid.Nil
}

// RoleFromContext retrieves the caller's role from context.
// Returns the empty role if the request is unauthenticated.
func RoleFromContext(ctx context.Context) Role {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.Role
	}
	return ""
}

// IsAuthenticated returns true if there is an identity in context.
func IsAuthenticated(ctx context.Context) bool {
	return IdentityFromContext(ctx) != nil
}

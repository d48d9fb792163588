package shared

import "context"

// Identity is the authenticated caller attached to a request context.
// It mirrors the users table row the auth layer resolved from the bearer
// token; handlers and guards read it, nothing mutates it.
type Identity struct {
	ID             string
	Email          string
	DisplayName    string
	Role           string
	OrganizationID string
	IsActive       bool
}

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}

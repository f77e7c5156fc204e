package auth

import (
	"context"
	"strings"

	domain "github.com/shopease/api/internal/domain"
)

// Role constants used throughout the API when checking authorisation boundaries.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity captures the authenticated principal details extracted from a
// verified access token.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// HasRole reports whether the identity carries the requested role (case-insensitive).
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	return strings.EqualFold(i.Role, role)
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

// ToDomain converts the transport identity into the domain representation
// consumed by services.
func (i *Identity) ToDomain() domain.Identity {
	if i == nil {
		return domain.Identity{}
	}
	return domain.Identity{
		UserID: i.UserID,
		Email:  i.Email,
		Name:   i.Name,
		Role:   domain.Role(strings.ToLower(strings.TrimSpace(i.Role))),
	}
}

type contextKey string

const identityContextKey contextKey = "github.com/shopease/api/internal/platform/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

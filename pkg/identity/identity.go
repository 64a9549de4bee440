// Package identity verifies bearer tokens against the external identity
// provider and carries the resulting caller identity through request
// contexts.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated means no credential was presented.
	ErrUnauthenticated = errors.New("identity: no credential presented")
	// ErrInvalidToken means the provider rejected the credential.
	ErrInvalidToken = errors.New("identity: invalid or expired token")
	// ErrProviderUnavailable means the provider could not be reached or
	// answered with something unusable.
	ErrProviderUnavailable = errors.New("identity: provider unavailable")
)

// DefaultRole is assigned when the provider omits a role.
const DefaultRole = "authenticated"

// Identity is the caller as vouched for by the identity provider. It is
// derived per request and never persisted.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Role     string         `json:"role"`
	Metadata map[string]any `json:"user_metadata"`
}

// DisplayName is the metadata full_name when present, the email otherwise.
func (i *Identity) DisplayName() string {
	if name, ok := i.Metadata["full_name"].(string); ok && name != "" {
		return name
	}
	return i.Email
}

// Verifier turns a raw bearer token into an Identity. An empty token must
// fail with ErrUnauthenticated without contacting anything.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type ctxKey string

const identityCtxKey ctxKey = "identity"

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// FromContext retrieves the verified identity (nil if anonymous).
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityCtxKey).(*Identity)
	return id
}

package ports

// Package ports defines interfaces (hexagonal ports) for the collaborators
// this service consumes. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
)

// Credentials carries what outbound calls need to act on behalf of the
// browser that issued the current request.
type Credentials struct {
	// Cookie is the raw Cookie header to forward to cookie-authenticated
	// backends.
	Cookie string
	// SessionID is this service's own browser-session identifier, used by
	// adapters that keep per-browser records locally.
	SessionID string
}

// AuthStatus is the outcome of an authentication status check.
type AuthStatus struct {
	Authenticated bool
	Identity      *domainauth.Identity
}

// AuthBackend is the identity-provider collaborator: it answers whether the
// active credentials are authenticated, assigns roles, and ends sessions.
type AuthBackend interface {
	// Status queries the provider with the active credentials.
	Status(ctx context.Context, creds Credentials) (AuthStatus, error)

	// SetRole assigns the chosen role and returns the updated identity.
	SetRole(ctx context.Context, creds Credentials, role domainauth.Role) (domainauth.Identity, error)

	// Logout ends the provider-side session.
	Logout(ctx context.Context, creds Credentials) error

	// LoginURL returns where to send an unauthenticated browser to start
	// the provider login flow.
	LoginURL(redirectURI string) string
}

// IdentityMirror is the durable last-known-identity cache, keyed per
// browser session. It exists so a reload has something to paint before the
// status check resolves; a resolved check always overwrites it.
type IdentityMirror interface {
	Save(ctx context.Context, key string, identity domainauth.Identity) error
	// Load returns ErrMirrorMiss when no identity is cached for key.
	Load(ctx context.Context, key string) (domainauth.Identity, error)
	Clear(ctx context.Context, key string) error
}

// AuthProvider initiates and completes a direct OIDC flow when this service
// talks to the identity provider itself instead of delegating to the
// external auth backend.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, redirectURL string) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity with its role unset.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// mirrorMissError is returned by IdentityMirror.Load on a cache miss.
type mirrorMissError struct{}

func (mirrorMissError) Error() string { return "identity mirror miss" }

// ErrMirrorMiss is returned when no identity is cached for a session.
var ErrMirrorMiss error = mirrorMissError{}

package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthBackend    = (*MockAuthBackend)(nil)
	_ ports.IdentityMirror = (*MemoryIdentityMirror)(nil)
	_ ports.AuthProvider   = (*MockAuthProvider)(nil)
)

// MockAuthBackend simulates the external auth service with overridable
// behavior per method and a default signed-in identity.
type MockAuthBackend struct {
	StatusFunc  func(ctx context.Context, creds ports.Credentials) (ports.AuthStatus, error)
	SetRoleFunc func(ctx context.Context, creds ports.Credentials, role domainauth.Role) (domainauth.Identity, error)
	LogoutFunc  func(ctx context.Context, creds ports.Credentials) error

	// DefaultIdentity is returned by Status when StatusFunc is nil.
	// Leave nil to simulate an unauthenticated session.
	DefaultIdentity *domainauth.Identity

	// Call counters for asserting interaction counts.
	StatusCalls  int
	SetRoleCalls int
	LogoutCalls  int
}

// NewMockAuthBackend creates a backend that reports the given identity as
// signed in; pass nil for an unauthenticated backend.
func NewMockAuthBackend(identity *domainauth.Identity) *MockAuthBackend {
	return &MockAuthBackend{DefaultIdentity: identity}
}

func (m *MockAuthBackend) Status(ctx context.Context, creds ports.Credentials) (ports.AuthStatus, error) {
	m.StatusCalls++
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, creds)
	}
	if m.DefaultIdentity == nil {
		return ports.AuthStatus{Authenticated: false}, nil
	}
	identity := *m.DefaultIdentity
	return ports.AuthStatus{Authenticated: true, Identity: &identity}, nil
}

func (m *MockAuthBackend) SetRole(ctx context.Context, creds ports.Credentials, role domainauth.Role) (domainauth.Identity, error) {
	m.SetRoleCalls++
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, creds, role)
	}
	if m.DefaultIdentity == nil {
		return domainauth.Identity{}, fmt.Errorf("no identity to assign role %q to", role)
	}
	m.DefaultIdentity = ptr(m.DefaultIdentity.WithRole(role))
	return *m.DefaultIdentity, nil
}

func (m *MockAuthBackend) Logout(ctx context.Context, creds ports.Credentials) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, creds)
	}
	m.DefaultIdentity = nil
	return nil
}

func (m *MockAuthBackend) LoginURL(redirectURI string) string {
	if redirectURI == "" {
		return "https://auth.example.test/auth/google"
	}
	return "https://auth.example.test/auth/google?redirect_uri=" + redirectURI
}

// MemoryIdentityMirror is an in-memory identity mirror for unit tests.
type MemoryIdentityMirror struct {
	mu         sync.Mutex
	identities map[string]domainauth.Identity

	// FailSave/FailLoad/FailClear force errors to exercise degraded paths.
	FailSave  error
	FailLoad  error
	FailClear error
}

// NewMemoryIdentityMirror creates an empty in-memory mirror.
func NewMemoryIdentityMirror() *MemoryIdentityMirror {
	return &MemoryIdentityMirror{identities: make(map[string]domainauth.Identity)}
}

func (m *MemoryIdentityMirror) Save(_ context.Context, key string, identity domainauth.Identity) error {
	if m.FailSave != nil {
		return m.FailSave
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[key] = identity
	return nil
}

func (m *MemoryIdentityMirror) Load(_ context.Context, key string) (domainauth.Identity, error) {
	if m.FailLoad != nil {
		return domainauth.Identity{}, m.FailLoad
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.identities[key]
	if !ok {
		return domainauth.Identity{}, ports.ErrMirrorMiss
	}
	return identity, nil
}

func (m *MemoryIdentityMirror) Clear(_ context.Context, key string) error {
	if m.FailClear != nil {
		return m.FailClear
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.identities, key)
	return nil
}

// Has reports whether an identity is mirrored for key.
func (m *MemoryIdentityMirror) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.identities[key]
	return ok
}

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, redirectURL string) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			ID:         "mock-user-1",
			Email:      "mock.user@example.com",
			GivenName:  "Mock",
			FamilyName: "User",
			FullName:   "Mock User",
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, redirectURL string) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, redirectURL)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	state := fmt.Sprintf("state-%d", m.callCount)
	nonce := fmt.Sprintf("nonce-%d", m.callCount)
	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultUser, nil
}

func ptr[T any](v T) *T { return &v }

package localauth

// Package localauth is the AuthBackend used in direct-OIDC mode: instead of
// asking an external auth service about the session, the gateway keeps its
// own per-browser identity record in Redis. The record is written when the
// OIDC callback completes and consulted by status checks afterwards.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// record is what we persist per browser session.
type record struct {
	Identity  domainauth.Identity `json:"identity"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// Client is the subset of redis.UniversalClient the backend uses, narrowed
// so tests can substitute an in-memory fake.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Backend implements ports.AuthBackend against a local Redis record.
type Backend struct {
	client Client
	prefix string
	ttl    time.Duration
}

// BackendOptions groups construction parameters for Backend.
type BackendOptions struct {
	Client Client
	// Prefix defaults to "localauth:".
	Prefix string
	// TTL is the lifetime of an established login; defaults to 12h.
	TTL time.Duration
}

// NewBackend creates a local auth backend.
func NewBackend(opts BackendOptions) *Backend {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "localauth:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Backend{client: opts.Client, prefix: prefix, ttl: ttl}
}

var _ ports.AuthBackend = (*Backend)(nil)

// Establish records a completed OIDC login for the given browser session.
func (b *Backend) Establish(ctx context.Context, sessionID string, identity domainauth.Identity) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	rec := record{Identity: identity, ExpiresAt: time.Now().Add(b.ttl)}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal login record: %w", err)
	}
	return b.client.Set(ctx, b.prefix+sessionID, data, b.ttl).Err()
}

// Status reports whether the browser session has an unexpired local login.
func (b *Backend) Status(ctx context.Context, creds ports.Credentials) (ports.AuthStatus, error) {
	rec, err := b.load(ctx, creds.SessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ports.AuthStatus{Authenticated: false}, nil
		}
		return ports.AuthStatus{}, err
	}
	identity := rec.Identity
	return ports.AuthStatus{Authenticated: true, Identity: &identity}, nil
}

// SetRole merges the chosen role into the local record.
func (b *Backend) SetRole(ctx context.Context, creds ports.Credentials, role domainauth.Role) (domainauth.Identity, error) {
	rec, err := b.load(ctx, creds.SessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.Identity{}, apperrors.Unauthorized("no active login")
		}
		return domainauth.Identity{}, err
	}

	rec.Identity = rec.Identity.WithRole(role)
	data, err := json.Marshal(rec)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("marshal login record: %w", err)
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return domainauth.Identity{}, apperrors.Unauthorized("login expired")
	}
	if setErr := b.client.Set(ctx, b.prefix+creds.SessionID, data, ttl).Err(); setErr != nil {
		return domainauth.Identity{}, setErr
	}
	return rec.Identity, nil
}

// Logout deletes the local record.
func (b *Backend) Logout(ctx context.Context, creds ports.Credentials) error {
	if creds.SessionID == "" {
		return nil // Nothing to log out
	}
	return b.client.Del(ctx, b.prefix+creds.SessionID).Err()
}

// LoginURL points at the gateway's own login route, which starts the OIDC
// flow in this mode.
func (b *Backend) LoginURL(redirectURI string) string {
	if redirectURI == "" {
		return "/auth/login"
	}
	return "/auth/login?redirect_uri=" + redirectURI
}

func (b *Backend) load(ctx context.Context, sessionID string) (record, error) {
	if sessionID == "" {
		return record{}, apperrors.NotFound("no login record")
	}
	data, err := b.client.Get(ctx, b.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return record{}, apperrors.NotFound("no login record")
		}
		return record{}, fmt.Errorf("redis get: %w", err)
	}
	var rec record
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return record{}, fmt.Errorf("unmarshal login record: %w", unmarshalErr)
	}
	if time.Now().After(rec.ExpiresAt) {
		if delErr := b.client.Del(ctx, b.prefix+sessionID).Err(); delErr != nil {
			return record{}, fmt.Errorf("cleanup expired login: %w", delErr)
		}
		return record{}, apperrors.NotFound("login expired")
	}
	return rec, nil
}

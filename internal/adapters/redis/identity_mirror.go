package redis

// Package redis provides Redis-based adapters for the approvals gateway.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// IdentityMirror is a Redis-backed last-known-identity cache, keyed per
// browser session. It is never a source of truth: a resolved status check
// always overwrites whatever is cached here.
type IdentityMirror struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// IdentityMirrorOptions groups construction parameters for IdentityMirror.
type IdentityMirrorOptions struct {
	Client redis.UniversalClient
	// Prefix defaults to "identity:".
	Prefix string
	// TTL bounds how long a mirrored identity survives unrefreshed.
	TTL time.Duration
}

// NewIdentityMirror creates a Redis-based identity mirror.
func NewIdentityMirror(opts IdentityMirrorOptions) *IdentityMirror {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "identity:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &IdentityMirror{client: opts.Client, prefix: prefix, ttl: ttl}
}

var _ ports.IdentityMirror = (*IdentityMirror)(nil)

func (m *IdentityMirror) Save(ctx context.Context, key string, identity domainauth.Identity) error {
	if key == "" {
		return errors.New("mirror key cannot be empty")
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return m.client.Set(ctx, m.prefix+key, data, m.ttl).Err()
}

func (m *IdentityMirror) Load(ctx context.Context, key string) (domainauth.Identity, error) {
	if key == "" {
		return domainauth.Identity{}, ports.ErrMirrorMiss
	}

	data, err := m.client.Get(ctx, m.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, ports.ErrMirrorMiss
		}
		return domainauth.Identity{}, fmt.Errorf("redis get: %w", err)
	}

	var identity domainauth.Identity
	if unmarshalErr := json.Unmarshal([]byte(data), &identity); unmarshalErr != nil {
		return domainauth.Identity{}, fmt.Errorf("unmarshal identity: %w", unmarshalErr)
	}

	return identity, nil
}

func (m *IdentityMirror) Clear(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to clear
	}
	return m.client.Del(ctx, m.prefix+key).Err()
}

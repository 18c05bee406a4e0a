package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeBackend, cfg.Auth.Mode)
	assert.Equal(t, "id || _id", cfg.Auth.Payload.IDExpr)
	assert.Equal(t, "http://localhost:4000", cfg.Backends.AuthBaseURL)
	assert.Equal(t, "http://localhost:5000", cfg.Backends.PurchaseBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backends.Timeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.False(t, cfg.Redis.UseSentinel)
	assert.Equal(t, 720*time.Hour, cfg.Mirror.TTL)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "oidc")
	t.Setenv("OIDC_CLIENT_ID", "client-1")
	t.Setenv("AUTH_BACKEND_URL", "https://auth.internal/")
	t.Setenv("PURCHASE_BACKEND_URL", "https://purchases.internal")
	t.Setenv("REDIS_URI", "redis.internal:6380")
	t.Setenv("AUTH_PAYLOAD_ROLE_EXPR", "claims.role")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeOIDC, cfg.Auth.Mode)
	assert.Equal(t, "client-1", cfg.Auth.OIDC.ClientID)
	assert.Equal(t, "https://auth.internal", cfg.Backends.AuthBaseURL, "trailing slash is trimmed")
	assert.Equal(t, "redis.internal:6380", cfg.Redis.URI)
	assert.Equal(t, "claims.role", cfg.Auth.Payload.RoleExpr)
}

func TestParse_InvalidAuthMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "saml")

	var cfg AppConfig
	require.Error(t, env.Parse(&cfg))
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("OIDC")))
	assert.Equal(t, AuthModeOIDC, m)

	require.NoError(t, m.UnmarshalText([]byte("backend")))
	assert.Equal(t, AuthModeBackend, m)

	assert.Error(t, m.UnmarshalText([]byte("ldap")))
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{
		Backends: BackendsConfig{
			AuthBaseURL:     "  http://auth/  ",
			PurchaseBaseURL: "http://purchases///",
			Timeout:         -1 * time.Second,
		},
	}
	cfg.Sanitize()

	assert.Equal(t, "http://auth", cfg.Backends.AuthBaseURL)
	assert.Equal(t, "http://purchases", cfg.Backends.PurchaseBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backends.Timeout)
	assert.Equal(t, 720*time.Hour, cfg.Mirror.TTL)
}

func TestDetectDevMode_NodeEnvFallback(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}

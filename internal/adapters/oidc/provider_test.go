package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// discoveryDoc is the subset of the discovery document the tests serve.
type discoveryDoc struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// newIssuerServer serves a minimal OIDC discovery document whose issuer is
// the server itself, plus a token endpoint that rejects every exchange.
func newIssuerServer(t *testing.T) *httptest.Server {
	t.Helper()

	issuer := ""
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(discoveryDoc{
			Issuer:                issuer,
			AuthorizationEndpoint: issuer + "/auth",
			TokenEndpoint:         issuer + "/token",
			UserinfoEndpoint:      issuer + "/userinfo",
			JwksURI:               issuer + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	issuer = srv.URL
	return srv
}

func newTestProvider(t *testing.T, discoveryURL string) *Provider {
	t.Helper()

	provider, err := NewProvider(ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email",
		DiscoveryURL: discoveryURL,
	})
	require.NoError(t, err)
	return provider
}

func TestNewProvider_Success(t *testing.T) {
	srv := newIssuerServer(t)
	provider := newTestProvider(t, srv.URL)

	assert.Equal(t, srv.URL+"/auth", provider.config.Endpoint.AuthURL)
	assert.Equal(t, srv.URL+"/token", provider.config.Endpoint.TokenURL)
	assert.Equal(t, []string{"openid", "profile", "email"}, provider.config.Scopes)
}

func TestNewProvider_AcceptsFullDiscoveryURL(t *testing.T) {
	srv := newIssuerServer(t)
	provider := newTestProvider(t, srv.URL+"/.well-known/openid-configuration")

	assert.Equal(t, srv.URL+"/auth", provider.config.Endpoint.AuthURL)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name: "missing client ID",
			config: ProviderConfig{
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client ID is required",
		},
		{
			name: "missing client secret",
			config: ProviderConfig{
				ClientID:     "client",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "client", ClientSecret: "secret", DiscoveryURL: "http://example.com"},
			errMsg: "redirect URL is required",
		},
		{
			name: "missing discovery URL",
			config: ProviderConfig{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
			},
			errMsg: "discovery URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	provider := newTestProvider(t, newIssuerServer(t).URL)

	authURL, state, nonce, err := provider.Begin(context.Background(), "/dashboard")
	require.NoError(t, err)

	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.NotEqual(t, state, nonce)
	assert.Contains(t, authURL, "client_id=test-client")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)
	assert.Contains(t, authURL, "prompt=select_account")
}

func TestProvider_Begin_FreshValuesEachCall(t *testing.T) {
	provider := newTestProvider(t, newIssuerServer(t).URL)

	_, state1, nonce1, err := provider.Begin(context.Background(), "/dashboard")
	require.NoError(t, err)
	_, state2, nonce2, err := provider.Begin(context.Background(), "/dashboard")
	require.NoError(t, err)

	assert.NotEqual(t, state1, state2)
	assert.NotEqual(t, nonce1, nonce2)
}

func TestProvider_Begin_EmptyRedirectURL(t *testing.T) {
	provider := newTestProvider(t, newIssuerServer(t).URL)

	_, _, _, err := provider.Begin(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	provider := newTestProvider(t, newIssuerServer(t).URL)

	tests := []struct {
		name   string
		input  ports.ExchangeInput
		errMsg string
	}{
		{
			name:   "missing code",
			input:  ports.ExchangeInput{State: "state", Nonce: "nonce"},
			errMsg: "authorization code is required",
		},
		{
			name:   "missing state",
			input:  ports.ExchangeInput{Code: "code", Nonce: "nonce"},
			errMsg: "state is required",
		},
		{
			name:   "missing nonce",
			input:  ports.ExchangeInput{Code: "code", State: "state"},
			errMsg: "nonce is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Exchange(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Exchange_TokenEndpointRejects(t *testing.T) {
	provider := newTestProvider(t, newIssuerServer(t).URL)

	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "bad-code",
		State: "state",
		Nonce: "nonce",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestRandomToken(t *testing.T) {
	tok16, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, tok16, 16)

	tok32, err := randomToken(32)
	require.NoError(t, err)
	assert.Len(t, tok32, 32)

	again, err := randomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok32, again)

	empty, err := randomToken(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFullNameFromClaims(t *testing.T) {
	assert.Equal(t, "Jo Smith", fullNameFromClaims(standardClaims{GivenName: "Jo", FamilyName: "Smith"}))
	assert.Equal(t, "Jo", fullNameFromClaims(standardClaims{GivenName: "Jo"}))
	assert.Equal(t, "Display Name", fullNameFromClaims(standardClaims{Name: "Display Name"}))
	assert.Equal(t, "", fullNameFromClaims(standardClaims{}))
}

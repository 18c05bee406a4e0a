package config

import (
	"fmt"
	"strings"
)

// AuthMode selects how this service authenticates users.
type AuthMode string

const (
	// AuthModeBackend delegates authentication to the external auth service
	// (cookie-based status checks, set-role, logout).
	AuthModeBackend AuthMode = "backend"
	// AuthModeOIDC has this service complete the OIDC code flow itself.
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "backend", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: backend, oidc)", v)
	}
}

// OIDCConfig contains OIDC/OAuth configuration (used when Mode=oidc).
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// PayloadConfig configures JMESPath extraction of identity fields from the
// payload the auth backend embeds in the post-login return navigation.
// Defaults match the shape the external auth service emits.
type PayloadConfig struct {
	IDExpr       string `env:"ID_EXPR"        envDefault:"id || _id"`
	EmailExpr    string `env:"EMAIL_EXPR"     envDefault:"email || emails[0].value"`
	GivenExpr    string `env:"GIVEN_EXPR"     envDefault:"name.givenName"`
	FamilyExpr   string `env:"FAMILY_EXPR"    envDefault:"name.familyName"`
	FullNameExpr string `env:"FULLNAME_EXPR"  envDefault:"fullName || displayName"`
	RoleExpr     string `env:"ROLE_EXPR"      envDefault:"role"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines how users are authenticated.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"backend"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// Payload extraction expressions for the return-URL identity payload.
	Payload PayloadConfig `envPrefix:"AUTH_PAYLOAD_"`
}

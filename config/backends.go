package config

import (
	"strings"
	"time"
)

// BackendsConfig holds the endpoints of the collaborator services this
// gateway consumes. Both are cookie-authenticated HTTP services.
type BackendsConfig struct {
	// AuthBaseURL is the base URL of the external auth service
	// (GET /auth/status, POST /auth/set-role, POST /auth/logout,
	// GET /auth/google).
	AuthBaseURL string `env:"AUTH_BACKEND_URL" envDefault:"http://localhost:4000"`

	// PurchaseBaseURL is the base URL of the purchase-request service.
	PurchaseBaseURL string `env:"PURCHASE_BACKEND_URL" envDefault:"http://localhost:5000"`

	// Timeout applies to every outbound call to either backend.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendsConfig) Sanitize() {
	b.AuthBaseURL = strings.TrimRight(strings.TrimSpace(b.AuthBaseURL), "/")
	b.PurchaseBaseURL = strings.TrimRight(strings.TrimSpace(b.PurchaseBaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}

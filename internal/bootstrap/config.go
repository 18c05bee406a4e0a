package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/reqflow/approvals-ui-api/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig checks mode-dependent requirements that env parsing alone
// cannot express.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	if cfg.Auth.Mode == config.AuthModeOIDC {
		switch {
		case cfg.Auth.OIDC.ClientID == "":
			return errors.New("OIDC_CLIENT_ID is required in oidc mode")
		case cfg.Auth.OIDC.ClientSecret == "":
			return errors.New("OIDC_CLIENT_SECRET is required in oidc mode")
		case cfg.Auth.OIDC.DiscoveryURL == "":
			return errors.New("OIDC_DISCOVERY_URL is required in oidc mode")
		}
	}

	if cfg.Backends.PurchaseBaseURL == "" {
		return errors.New("PURCHASE_BACKEND_URL is required")
	}
	if cfg.Auth.Mode == config.AuthModeBackend && cfg.Backends.AuthBaseURL == "" {
		return errors.New("AUTH_BACKEND_URL is required in backend mode")
	}

	return nil
}

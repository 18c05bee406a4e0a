package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reqflow/approvals-ui-api/config"
	"github.com/reqflow/approvals-ui-api/internal/adapters/authapi"
	"github.com/reqflow/approvals-ui-api/internal/adapters/localauth"
	oidcadapter "github.com/reqflow/approvals-ui-api/internal/adapters/oidc"
	"github.com/reqflow/approvals-ui-api/internal/adapters/purchaseapi"
	redisadapter "github.com/reqflow/approvals-ui-api/internal/adapters/redis"
	httpx "github.com/reqflow/approvals-ui-api/internal/http"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// RedisOptions contains configuration for the Redis connection.
type RedisOptions struct {
	Config config.RedisConfig
	Logger *slog.Logger
}

// ConnectRedis establishes a connection to Redis.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func ConnectRedis(opts RedisOptions) (redis.UniversalClient, error) {
	var (
		client   redis.UniversalClient
		addrDesc string
		err      error
	)

	if opts.Config.UseSentinel {
		client, addrDesc, err = newSentinelClient(opts.Config)
	} else {
		client, addrDesc, err = newDirectClient(opts.Config)
	}
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if opts.Logger != nil {
		// Log connection without credentials
		if u, parseErr := url.Parse(addrDesc); parseErr == nil && u.User != nil {
			u.User = url.User("*")
			addrDesc = u.Redacted()
		} else if i := strings.LastIndex(addrDesc, "@"); i > -1 {
			addrDesc = addrDesc[i+1:]
		}
		opts.Logger.Info("redis connected", "addr", addrDesc)
	}

	return client, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	if len(cfg.SentinelNodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}

	opts := &redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    cfg.SentinelNodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
		DB:               cfg.DB,
	}
	client := redis.NewFailoverClient(opts)
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newDirectClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, "", errors.New("redis direct configuration requires a URI")
	}

	if isRedisURL(uri) {
		opt, err := redis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), opt.Addr, nil
	}

	opts := &redis.Options{
		Addr:     uri,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return redis.NewClient(opts), uri, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// AuthComponents bundles the mode-dependent auth collaborators.
type AuthComponents struct {
	Backend ports.AuthBackend
	// Provider and Establisher are non-nil only in oidc mode.
	Provider    ports.AuthProvider
	Establisher httpx.LoginEstablisher
	// LoginURL builds the sign-in destination for the active mode.
	LoginURL func(redirectURI string) string
}

// AuthDeps groups dependencies for BuildAuthComponents.
type AuthDeps struct {
	Config *config.AppConfig
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// BuildAuthComponents wires the auth stack for the configured mode:
// backend mode delegates everything to the external auth service; oidc mode
// runs the code flow here and keeps login records in Redis.
func BuildAuthComponents(deps AuthDeps) (AuthComponents, error) {
	cfg := deps.Config

	if cfg.Auth.Mode == config.AuthModeOIDC {
		provider, err := oidcadapter.NewProvider(oidcadapter.ProviderConfig{
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
			Scope:        cfg.Auth.OIDC.Scope,
			DiscoveryURL: cfg.Auth.OIDC.DiscoveryURL,
		})
		if err != nil {
			return AuthComponents{}, fmt.Errorf("build oidc provider: %w", err)
		}

		backend := localauth.NewBackend(localauth.BackendOptions{Client: deps.Redis})
		return AuthComponents{
			Backend:     backend,
			Provider:    provider,
			Establisher: backend,
			LoginURL:    backend.LoginURL,
		}, nil
	}

	client := authapi.NewClient(authapi.ClientOptions{
		BaseURL: cfg.Backends.AuthBaseURL,
		Timeout: cfg.Backends.Timeout,
	})
	return AuthComponents{
		Backend:  client,
		LoginURL: client.LoginURL,
	}, nil
}

// BuildPurchaseBackend wires the purchase-request service client.
func BuildPurchaseBackend(cfg *config.AppConfig) *purchaseapi.Client {
	return purchaseapi.NewClient(purchaseapi.ClientOptions{
		BaseURL: cfg.Backends.PurchaseBaseURL,
		Timeout: cfg.Backends.Timeout,
	})
}

// BuildIdentityMirror wires the Redis-backed identity mirror.
func BuildIdentityMirror(cfg *config.AppConfig, client redis.UniversalClient) *redisadapter.IdentityMirror {
	return redisadapter.NewIdentityMirror(redisadapter.IdentityMirrorOptions{
		Client: client,
		TTL:    cfg.Mirror.TTL,
	})
}

package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/reqflow/approvals-ui-api/config"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// ServiceContainer holds the constructed service layer plus the auth
// components the HTTP layer needs.
type ServiceContainer struct {
	Sessions  *service.SessionRegistry
	Purchases *service.PurchaseService
	Extractor *service.IdentityExtractor
	Auth      AuthComponents
}

// ServiceDeps contains dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices initializes all services with their dependencies.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	auth, err := BuildAuthComponents(AuthDeps{
		Config: deps.Config,
		Redis:  deps.RedisClient,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	extractor, err := service.NewIdentityExtractor(service.IdentityExtractorOptions{
		IDExpr:       deps.Config.Auth.Payload.IDExpr,
		EmailExpr:    deps.Config.Auth.Payload.EmailExpr,
		GivenExpr:    deps.Config.Auth.Payload.GivenExpr,
		FamilyExpr:   deps.Config.Auth.Payload.FamilyExpr,
		FullNameExpr: deps.Config.Auth.Payload.FullNameExpr,
		RoleExpr:     deps.Config.Auth.Payload.RoleExpr,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build identity extractor: %w", err)
	}

	mirror := BuildIdentityMirror(deps.Config, deps.RedisClient)

	sessions := service.NewSessionRegistry(service.SessionRegistryOptions{
		Store: service.SessionStoreOptions{
			Backend: auth.Backend,
			Mirror:  mirror,
		},
		Logger: logger,
	})

	purchases := service.NewPurchaseService(service.PurchaseServiceOptions{
		Backend: BuildPurchaseBackend(deps.Config),
		Logger:  logger,
	})

	return ServiceContainer{
		Sessions:  sessions,
		Purchases: purchases,
		Extractor: extractor,
		Auth:      auth,
	}, nil
}

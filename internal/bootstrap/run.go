package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/reqflow/approvals-ui-api/config"
	"github.com/reqflow/approvals-ui-api/internal/metrics"
)

// RunConfig contains everything needed to run the gateway until shutdown.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// Run serves HTTP until SIGINT/SIGTERM or a server failure, then shuts down
// gracefully.
func Run(cfg *RunConfig) error {
	if cfg == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	sink, err := metrics.NewClient(metrics.Config{
		Enabled: appCfg.Metrics.Enabled,
		Address: appCfg.Metrics.Address,
		Prefix:  appCfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			logger.Warn("close metrics sink failed", "error", cerr)
		}
	}()
	if sink.Enabled() {
		logger.Info("metrics enabled", "address", appCfg.Metrics.Address, "prefix", appCfg.Metrics.Prefix)
	}

	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Metrics:  sink,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		// Use a fresh context: gctx is already canceled.
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Logger:  logger,
		})
	})

	return g.Wait()
}

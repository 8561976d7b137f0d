package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/palclaw/engine/internal/api"
	"github.com/palclaw/engine/internal/platform"
	"github.com/palclaw/engine/internal/provisioner"
	"github.com/palclaw/engine/internal/repository"
	"github.com/palclaw/engine/internal/services"
	"github.com/palclaw/engine/pkg/config"
	"github.com/palclaw/engine/pkg/database"
	"github.com/palclaw/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("open database", zap.Error(err))
	}

	platformClient, err := platform.NewClient(platform.ClientConfig{
		APIURL: cfg.PlatformAPIURL,
		Token:  cfg.PlatformAPIToken,
	})
	if err != nil {
		logger.L().Fatal("platform client", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	deployRepo := repository.NewDeploymentRepository(db)
	agentRepo := repository.NewAgentRepository(db)

	prov := provisioner.NewPlatformProvisioner(platformClient, provisioner.Config{
		RuntimeImage: cfg.RuntimeImage,
		Credentials:  cfg,
	})

	router := api.NewRouter(api.RouterDeps{
		JWTSecret:   []byte(cfg.JWTSecret),
		Auth:        services.NewAuthService(userRepo, []byte(cfg.JWTSecret)),
		Deployments: services.NewDeploymentService(prov, deployRepo, agentRepo),
		Agents:      services.NewAgentService(agentRepo, deployRepo),
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.L().Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("http server", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("graceful shutdown", zap.Error(err))
	}
	logger.L().Info("server stopped")
}

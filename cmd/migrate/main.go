package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/palclaw/engine/internal/models"
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

	db, err := database.OpenPostgres(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("open database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Deployment{},
		&models.Agent{},
	); err != nil {
		logger.L().Fatal("migrate", zap.Error(err))
	}

	logger.L().Info("migrations applied")
}

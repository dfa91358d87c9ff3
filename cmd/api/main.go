package main

import (
	"context"

	"github.com/avelinsk/txmon/internal/app"
	"github.com/avelinsk/txmon/internal/config"
	"github.com/avelinsk/txmon/internal/di"
	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/infrastructure/api/routers"
	"github.com/avelinsk/txmon/internal/infrastructure/database/db_client"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/joho/godotenv"
)

const (
	appName = "txmon"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	godotenv.Load()
	cfg := config.Load()

	log.Init(appName, log.WithConsoleLogger())
	logger := log.GetLogger()

	pgClient := db_client.NewPGClient(cfg.PostgreSQL)
	db, err := pgClient.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg(errors.ErrorFailedToConnectToTheDatabase)
	}

	container, err := di.NewContainer(db, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build the container")
	}

	router := routers.NewRouter(container, cfg.Auth.JWTSecret)
	service := app.NewService(cfg)
	service.Run(ctx, router)

	container.Generator.Stop()
}

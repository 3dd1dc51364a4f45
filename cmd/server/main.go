package main

import (
	"context"
	"fmt"

	"github.com/baseytransit/transit-server/internal/adapter"
	"github.com/baseytransit/transit-server/internal/config"
	handlerhttp "github.com/baseytransit/transit-server/internal/handler/http"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/server"
	"github.com/baseytransit/transit-server/internal/service"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/workers"
	"github.com/baseytransit/transit-server/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("transit-server")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)
	mailer := adapter.NewMailer(cfg.Adapter.Mail, log)
	services := service.NewServices(storages, mailer, *cfg, log)
	handler := handlerhttp.NewHandler(services, cfg.App, log)

	sweeper := workers.NewRecoverySweeper(storages.UserRepository, 0, log)
	workers.NewWorkers(sweeper).Run()
	defer sweeper.Stop()

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/acidburn0zzz/treesync/internal/config"
	"github.com/acidburn0zzz/treesync/internal/crypto"
	httphandler "github.com/acidburn0zzz/treesync/internal/handler/http"
	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/internal/processor"
	"github.com/acidburn0zzz/treesync/internal/server"
	"github.com/acidburn0zzz/treesync/internal/service"
	"github.com/acidburn0zzz/treesync/internal/signin"
	"github.com/acidburn0zzz/treesync/internal/startup"
	"github.com/acidburn0zzz/treesync/internal/store"
	"github.com/acidburn0zzz/treesync/internal/token"
	"github.com/acidburn0zzz/treesync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("syncd").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger(cfg.App.Role)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	var db *store.DB
	switch cfg.Storage.DB.Driver {
	case "pgx":
		db, err = store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	default:
		db, err = store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to tree store database")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating tree store schema")
	}

	cryptographer := crypto.NewCryptographer()
	share, err := store.NewShare(db, cryptographer, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating tree store share")
	}
	if err := share.EnsureTypeRoots(models.AllModelTypes()...); err != nil {
		log.Fatal().Err(err).Msg("error creating type root nodes")
	}
	if err := share.LoadEncryptedTypes(); err != nil {
		log.Fatal().Err(err).Msg("error loading encrypted types")
	}

	signinManager := signin.NewManager()
	tokenService := token.NewService(cfg.App.TokenSignKey, cfg.App.TokenIssuer, log)
	prefs := startup.NewPrefs()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	failedTypes := processor.NewFailedTypesRegistry()
	processors := make(map[models.ModelType]*processor.GenericChangeProcessor)

	prefService := service.NewPreferenceService(log)
	prefHandle := service.NewHandle(prefService)
	prefErrors := processor.NewDataTypeErrorHandler(models.Preferences, failedTypes, log)
	processors[models.Preferences] = processor.NewGenericChangeProcessor(prefErrors, prefHandle, share, log)

	controller := startup.NewController(startup.Deps{
		Prefs:        prefs,
		Signin:       signinManager,
		TokenService: tokenService,
		StartBackend: func() {
			for dataType, proc := range processors {
				proc.StartProcessing()
				log.Info().Str("type", dataType.String()).Msg("change pipeline started")
			}
		},
		Telemetry:             startup.NewTelemetry(registry),
		Logger:                log,
		EnableDeferredStartup: cfg.Sync.EnableDeferredStartup,
		AutoStart:             cfg.Sync.AutoStart,
		FallbackTimeout:       cfg.Sync.FallbackTimeout,
	})

	handlers := httphandler.NewHandler(controller, failedTypes, processors, registry, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
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

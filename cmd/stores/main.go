package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openmicroshop/commerce-backend/internal/clients"
	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/db"
	"github.com/openmicroshop/commerce-backend/internal/handlers"
	"github.com/openmicroshop/commerce-backend/internal/observability"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/refcheck"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/server"
	"github.com/openmicroshop/commerce-backend/internal/services"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load("stores")
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: "stores"})
	if shutdownOTel != nil {
		defer shutdownOTel(ctx)
	}

	gdb, err := db.NewPostgres(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := db.AutoMigrate(gdb, db.StoresModels); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}

	storeRepo := repos.NewStoreRepo(gdb, log)
	storeProductRepo := repos.NewStoreProductRepo(gdb, log)

	validator := refcheck.New(log, cfg.Validate,
		clients.NewUserResolver(cfg.Peers.Users, cfg.Validate.ResolveTimeout, log),
		clients.NewProductResolver(cfg.Peers.Products, cfg.Validate.ResolveTimeout, log),
	)

	storeService := services.NewStoreService(gdb, log, storeRepo, storeProductRepo, validator)
	storeHandler := handlers.NewStoreHandler(storeService)

	router := server.NewStoresRouter(server.StoresRouterConfig{
		Log:          log,
		StoreHandler: storeHandler,
	})

	log.Info("stores service listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

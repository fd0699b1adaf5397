package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/db"
	"github.com/openmicroshop/commerce-backend/internal/handlers"
	"github.com/openmicroshop/commerce-backend/internal/observability"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
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

	cfg, err := config.Load("products")
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: "products"})
	if shutdownOTel != nil {
		defer shutdownOTel(ctx)
	}

	gdb, err := db.NewPostgres(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := db.AutoMigrate(gdb, db.ProductsModels); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}

	productRepo := repos.NewProductRepo(gdb, log)
	productService := services.NewProductService(gdb, log, productRepo)
	productHandler := handlers.NewProductHandler(productService)

	router := server.NewProductsRouter(server.ProductsRouterConfig{
		Log:            log,
		ProductHandler: productHandler,
	})

	log.Info("products service listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

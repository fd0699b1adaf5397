package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/gateway"
	"github.com/openmicroshop/commerce-backend/internal/observability"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
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

	cfg, err := config.Load("gateway")
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: "gateway"})
	if shutdownOTel != nil {
		defer shutdownOTel(ctx)
	}

	gw, err := gateway.New(log, cfg)
	if err != nil {
		log.Fatal("Gateway init failed", "error", err)
	}

	log.Info("gateway listening", "port", cfg.Port)
	if err := gw.Router().Run(":" + cfg.Port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

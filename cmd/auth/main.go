package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/db"
	"github.com/openmicroshop/commerce-backend/internal/handlers"
	"github.com/openmicroshop/commerce-backend/internal/middleware"
	"github.com/openmicroshop/commerce-backend/internal/observability"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/server"
	"github.com/openmicroshop/commerce-backend/internal/services"
	"github.com/openmicroshop/commerce-backend/internal/tokencache"
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

	cfg, err := config.Load("auth")
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: "auth"})
	if shutdownOTel != nil {
		defer shutdownOTel(ctx)
	}

	gdb, err := db.NewPostgres(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := db.AutoMigrate(gdb, db.AuthModels); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}

	cache := tokencache.NewNoop()
	if cfg.Redis.Addr != "" {
		redisCache, err := tokencache.NewRedis(cfg.Redis.Addr, log)
		if err != nil {
			log.Warn("Redis init failed, token revocation disabled", "error", err)
		} else {
			cache = redisCache
			defer cache.Close()
		}
	}

	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	authService := services.NewAuthService(gdb, log, userRepo, userTokenRepo, cache,
		cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewAuthRouter(server.AuthRouterConfig{
		Log:            log,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
	})

	log.Info("auth service listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/motorhaus/storefront-auth/internal/api"
	"github.com/motorhaus/storefront-auth/internal/core/domain"
	"github.com/motorhaus/storefront-auth/internal/core/service"
	"github.com/motorhaus/storefront-auth/internal/infrastructure/config"
	mongodb "github.com/motorhaus/storefront-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/motorhaus/storefront-auth/internal/infrastructure/db/redis"
	"github.com/motorhaus/storefront-auth/internal/infrastructure/mail"
	"github.com/motorhaus/storefront-auth/internal/pkg/token"
	"github.com/motorhaus/storefront-auth/pkg/logger"
)

// @title        Storefront Auth API
// @version      1.0
// @description  Authentication and authorization service for the storefront.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	secrets, err := config.ResolveSecrets(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve signing secrets")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect mongodb")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}()

	codec, err := token.NewCodec(token.Config{
		AccessSecret:  secrets.Access,
		RefreshSecret: secrets.Refresh,
		AccessTTL:     config.MustTTL(cfg.Auth.AccessTTL),
		RefreshTTL:    config.MustTTL(cfg.Auth.RefreshTTL),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build token codec")
	}

	authService := service.NewAuthService(service.Options{
		Users:         mongodb.NewUserRepository(db),
		Sessions:      mongodb.NewSessionStore(db),
		Mailer:        mail.NewLogMailer(logger.Component("mailer")),
		Throttle:      redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, config.MustTTL(cfg.Auth.LoginWindow)),
		Codec:         codec,
		Perms:         domain.DefaultPermissions(),
		ResetTTL:      config.MustTTL(cfg.Auth.ResetTTL),
		VerifyTTL:     config.MustTTL(cfg.Auth.VerifyTTL),
		RotateRefresh: cfg.Auth.RotateRefresh,
		Logger:        logger.Component("auth"),
	})

	e := api.NewRouter(authService, codec, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

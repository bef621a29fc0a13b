package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "storefront/docs" // swagger docs

	"storefront/internal/app"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Storefront API
// @version 1.0
// @description Storefront JSON API for the catalog, cart and order history.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session token set by the login form.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, logins will fail until it recovers")
	}
	cancelPing()

	a, err := app.New(cfg, log, gormDB, cacheClient)
	if err != nil {
		log.Fatal().Err(err).Msg("app init")
	}

	if cfg.AdminPassword != "" {
		_, created, err := a.AuthService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("ensure admin")
		}
		if created {
			log.Info().Str("username", cfg.AdminUsername).Msg("admin account created")
		}
	}

	log.Info().Str("url", swaggerURL(cfg)).Msg("swagger documentation available")

	addr := ":" + cfg.ServerPort
	go func() {
		if err := a.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()
	log.Info().Str("addr", addr).Msg("storefront listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}

// swaggerURL resolves the docs URL. SwaggerHost may already include a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	switch {
	case host == "":
		return cfg.PublicBaseURL + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return strings.TrimRight(host, "/") + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}

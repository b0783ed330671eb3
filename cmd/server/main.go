package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"tracker/docs"
	"tracker/internal/auth"
	"tracker/internal/cache"
	"tracker/internal/config"
	"tracker/internal/db"
	"tracker/internal/handler"
	"tracker/internal/logging"
	"tracker/internal/repository"
	"tracker/internal/router"
	"tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Project Tracker API
// @version 1.0
// @description Projects, sprints and stories with role-based permissions and per-project ticket numbers.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, logger, cfg.LogLevel)
	if err != nil {
		logger.Error("database init", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Error("reset database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "tracker")
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unavailable, caching and token revocation disabled until it recovers",
			slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(store, cacheClient)
	authService := service.NewAuthService(store, jwtService, tokenStore)
	projectService := service.NewProjectService(store, cacheClient)
	sprintService := service.NewSprintService(store)
	storyService := service.NewStoryService(store, service.NewTicketNumberer())

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, logger, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService),
		Projects: handler.NewProjectHandler(projectService),
		Sprints:  handler.NewSprintHandler(sprintService),
		Stories:  handler.NewStoryHandler(storyService),
	}, auth.Middleware(jwtService, tokenStore, userService, logger), map[string]router.Pinger{
		"database": store,
		"cache":    cacheClient,
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info("swagger documentation available", slog.String("path", "/swagger/index.html"))

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info("starting server", slog.String("addr", addr), slog.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server stopped")
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mcoot/musicbingo/internal/api"
	"github.com/mcoot/musicbingo/internal/config"
	"github.com/mcoot/musicbingo/internal/factory"
	redisstorage "github.com/mcoot/musicbingo/internal/storage/redis"
	"github.com/mcoot/musicbingo/internal/web"
)

const hubSweepInterval = time.Minute

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:                logger,
		StorageType:           cfg.StorageType,
		BoltPath:              cfg.BoltPath,
		PostgresDSN:           cfg.PostgresDSN,
		TemplatePath:          cfg.TemplatePath,
		RenderCacheSize:       cfg.RenderCacheSize,
		ArchiveConcurrency:    cfg.ArchiveConcurrency,
		MaxGenerationAttempts: cfg.MaxGenerationAttempts,
		WSOriginPatterns:      cfg.CORSOrigins,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SessionTTL = cfg.SessionTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		PlayController: app.PlayController,
		Renderer:       app.Renderer,
		Packager:       app.Packager,
		ProgressHub:    app.ProgressHub,
		StorageType:    cfg.StorageType,
		CORSOrigins:    cfg.CORSOrigins,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		Storage:        app.Storage,
		GameController: app.GameController,
		PlayController: app.PlayController,
		HubManager:     app.HubManager,
		StaticDir:      findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Hubs for sessions nobody is watching are recreated on demand
	go func() {
		ticker := time.NewTicker(hubSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.HubManager.CleanupEmptyHubs()
			}
		}
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Event streams only return once their hub closes, and Shutdown waits on them
		app.HubManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}

// findStaticDir looks for the stylesheet directory relative to the working directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return ""
}

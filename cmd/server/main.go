package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/donateshop/internal/api"
	"github.com/mcoot/donateshop/internal/factory"
	"github.com/mcoot/donateshop/internal/web"
)

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	cfg.Factory.Logger = logger

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, cfg.Factory)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		PlayerService:      app.PlayerService,
		Metrics:            app.Metrics,
		EnableLegacyRoutes: cfg.EnableLegacyRoutes,
		CORSOrigins:        cfg.CORSOrigins,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:        logger,
		PlayerService: app.PlayerService,
		Metrics:       app.Metrics,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/shop", webRouter)
	mux.Handle("/shop/", webRouter)
	mux.Handle("/", apiRouter)

	server := api.NewServer(mux, cfg.Server, logger)

	runErr := server.Run(ctx)
	if runErr != nil {
		logger.Error("server error", slog.String("error", runErr.Error()))
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close storage", slog.String("error", err.Error()))
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("server stopped")
}

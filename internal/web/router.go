// Package web serves the HTML shop admin page.
package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/middleware"
	"github.com/mcoot/donateshop/internal/services/player"
	"github.com/mcoot/donateshop/internal/web/handler"
	webmiddleware "github.com/mcoot/donateshop/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *player.Service
	// Metrics is optional; when set, shop requests are counted
	Metrics *metrics.Metrics
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(webmiddleware.Recovery(logger))
	r.Use(webmiddleware.Logging(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(webmiddleware.Flash())

	shopHandler := handler.NewShopHandler(cfg.PlayerService, logger)

	r.HandleFunc("/shop", shopHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/shop/donate", shopHandler.SetDonate).Methods(http.MethodPost)

	return middleware.RequestID()(r)
}

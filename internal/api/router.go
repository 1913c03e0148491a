package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/donateshop/internal/api/apierr"
	"github.com/mcoot/donateshop/internal/api/handler"
	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/middleware"
	"github.com/mcoot/donateshop/internal/services/player"
)

// DefaultStatusMessage is shown by GET / when no message is configured
const DefaultStatusMessage = "Donate shop server is working!"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *player.Service
	// Metrics is optional; when set, /metrics is served and requests are counted
	Metrics *metrics.Metrics
	// EnableLegacyRoutes serves GET /player/{steam_id}/setdonate/{coins}
	EnableLegacyRoutes bool
	// CORSOrigins lists allowed browser origins; empty allows all
	CORSOrigins []string
	// StatusMessage overrides DefaultStatusMessage
	StatusMessage string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	r := mux.NewRouter()

	statusMessage := cfg.StatusMessage
	if statusMessage == "" {
		statusMessage = DefaultStatusMessage
	}

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	healthHandler := handler.NewHealthHandler(cfg.PlayerService, statusMessage)

	// Common middleware
	r.Use(middleware.Recovery(logger, apiPanicHandler))
	r.Use(middleware.Logging(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Status routes
	r.HandleFunc("/", healthHandler.Status).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler.Live).Methods(http.MethodGet)

	// Player routes
	players := r.PathPrefix("/player").Subrouter()
	players.HandleFunc("/{steam_id}", playerHandler.Get).Methods(http.MethodGet)
	players.HandleFunc("/{steam_id}/donate", playerHandler.SetDonate).Methods(http.MethodPatch, http.MethodPost)
	if cfg.EnableLegacyRoutes {
		players.HandleFunc("/{steam_id}/setdonate/{coins}", playerHandler.SetDonateLegacy).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// RequestID wraps the router itself; mux skips r.Use middleware on 404/405
	return middleware.CORS(cfg.CORSOrigins)(middleware.RequestID()(r))
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewError(http.StatusNotFound, "Not found"))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewError(http.StatusMethodNotAllowed, "Method not allowed"))
}

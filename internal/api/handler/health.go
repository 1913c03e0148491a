package handler

import (
	"net/http"

	"github.com/mcoot/donateshop/internal/api/apierr"
	"github.com/mcoot/donateshop/internal/api/response"
	"github.com/mcoot/donateshop/internal/services/player"
)

// HealthHandler reports service and database status
type HealthHandler struct {
	playerService *player.Service
	message       string
}

// NewHealthHandler creates a new health handler. message is shown on the status page.
func NewHealthHandler(playerService *player.Service, message string) *HealthHandler {
	return &HealthHandler{
		playerService: playerService,
		message:       message,
	}
}

// Status handles GET / with a database round trip
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	dbTime, err := h.playerService.Health(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatusResponse{
		Message:      h.message,
		DatabaseTime: dbTime,
		Status:       "Database connected successfully",
	})
}

// Live handles GET /health without touching the database
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

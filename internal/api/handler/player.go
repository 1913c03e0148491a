package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/donateshop/internal/api/apierr"
	"github.com/mcoot/donateshop/internal/api/request"
	"github.com/mcoot/donateshop/internal/api/response"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/services/player"
)

// maxBodyBytes caps request bodies; a balance update is a few bytes
const maxBodyBytes = 4 << 10

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	playerService *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// Get handles GET /player/{steam_id}, creating the player on first sight
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	steamID := model.SteamID(mux.Vars(r)["steam_id"])

	p, err := h.playerService.GetOrCreate(r.Context(), steamID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// SetDonate handles PATCH (and POST) /player/{steam_id}/donate
func (h *PlayerHandler) SetDonate(w http.ResponseWriter, r *http.Request) {
	steamID := model.SteamID(mux.Vars(r)["steam_id"])

	var req request.SetDonateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(apierr.MessageInvalidRequest))
		return
	}

	coins, err := req.CoinsValue()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.setBalance(w, r, steamID, coins)
}

// SetDonateLegacy handles GET /player/{steam_id}/setdonate/{coins}.
// Kept for older game clients; it mutates state on a GET.
func (h *PlayerHandler) SetDonateLegacy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	steamID := model.SteamID(vars["steam_id"])

	coins, err := request.ParseCoins(vars["coins"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.setBalance(w, r, steamID, coins)
}

func (h *PlayerHandler) setBalance(w http.ResponseWriter, r *http.Request, steamID model.SteamID, coins int64) {
	p, err := h.playerService.SetBalance(r.Context(), steamID, coins)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/donateshop/internal/api/request"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/services/player"
	"github.com/mcoot/donateshop/internal/web/middleware"
	"github.com/mcoot/donateshop/internal/web/templates/layout"
	"github.com/mcoot/donateshop/internal/web/templates/pages"
)

// ShopHandler serves the shop admin page
type ShopHandler struct {
	playerService *player.Service
	logger        *slog.Logger
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(playerService *player.Service, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{
		playerService: playerService,
		logger:        logger,
	}
}

// View renders the shop page. With ?steam_id= it shows that player.
// Looking a player up here never creates one.
func (h *ShopHandler) View(w http.ResponseWriter, r *http.Request) {
	steamID := strings.TrimSpace(r.URL.Query().Get("steam_id"))

	data := pages.ShopData{
		PageData: layout.PageData{
			Title: "Shop",
			Flash: middleware.GetFlash(r.Context()),
		},
		SteamID: steamID,
	}

	status := http.StatusOK
	if steamID != "" {
		p, err := h.playerService.Get(r.Context(), model.SteamID(steamID))
		switch {
		case errors.Is(err, model.ErrPlayerNotFound):
			data.NotFound = true
			status = http.StatusNotFound
		case err != nil:
			h.renderError(w, r, err)
			return
		default:
			data.Player = p
		}
	}

	render(w, r, status, pages.Shop(data))
}

// SetDonate handles the balance form and redirects back to the player
func (h *ShopHandler) SetDonate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	steamID := model.SteamID(strings.TrimSpace(r.PostFormValue("steam_id")))
	if err := steamID.Validate(); err != nil {
		middleware.SetFlash(w, "error", "Enter a Steam ID first")
		http.Redirect(w, r, "/shop", http.StatusSeeOther)
		return
	}

	rawCoins := r.PostFormValue("coins")
	coins, err := request.ParseCoins(rawCoins)
	if err != nil {
		h.rerenderInvalidCoins(w, r, steamID, rawCoins)
		return
	}

	back := "/shop?steam_id=" + url.QueryEscape(string(steamID))

	p, err := h.playerService.SetBalance(r.Context(), steamID, coins)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		middleware.SetFlash(w, "error", "Player not found")
	case err != nil:
		h.renderError(w, r, err)
		return
	default:
		middleware.SetFlash(w, "success", fmt.Sprintf("Set %s to %d donate coins", p.PlayerName, p.DonateCoins))
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *ShopHandler) rerenderInvalidCoins(w http.ResponseWriter, r *http.Request, steamID model.SteamID, rawCoins string) {
	data := pages.ShopData{
		PageData:   layout.PageData{Title: "Shop"},
		SteamID:    string(steamID),
		Coins:      rawCoins,
		CoinsError: "Coins must be a whole number",
	}

	p, err := h.playerService.Get(r.Context(), steamID)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		data.NotFound = true
	case err != nil:
		h.renderError(w, r, err)
		return
	default:
		data.Player = p
	}

	render(w, r, http.StatusBadRequest, pages.Shop(data))
}

func (h *ShopHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("shop request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))

	render(w, r, http.StatusInternalServerError, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Error"},
		Message:  "The player database is unavailable. Please try again later.",
	}))
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}

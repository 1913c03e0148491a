// Package pages holds the full-page components of the shop.
package pages

import (
	"strconv"
	"time"

	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/web/templates/layout"
)

// ShopData is the view model for the shop admin page
type ShopData struct {
	layout.PageData

	// SteamID is the looked-up id, empty before the first search
	SteamID string
	// Player is nil when nothing was found
	Player *model.Player
	// NotFound is set when SteamID was searched but has no record
	NotFound bool
	// Coins echoes a rejected form value
	Coins string
	// CoinsError describes why Coins was rejected
	CoinsError string
}

// coinsValue prefills the balance input, keeping a rejected entry visible
func (d ShopData) coinsValue() string {
	if d.Coins != "" {
		return d.Coins
	}
	return strconv.FormatInt(d.Player.DonateCoins, 10)
}

// ErrorData is the view model for error pages
type ErrorData struct {
	layout.PageData
	Message string
}

func lastSeenISO(p *model.Player) string {
	return p.LastSeen.UTC().Format(time.RFC3339)
}

func lastSeenText(p *model.Player) string {
	return p.LastSeen.UTC().Format("2006-01-02 15:04:05 MST")
}

package response

import (
	"time"

	"github.com/mcoot/donateshop/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          int64     `json:"id"`
	SteamID     string    `json:"steam_id"`
	PlayerName  string    `json:"player_name"`
	DonateCoins int64     `json:"donate_coins"`
	LastSeen    time.Time `json:"last_seen"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          p.ID,
		SteamID:     string(p.SteamID),
		PlayerName:  p.PlayerName,
		DonateCoins: p.DonateCoins,
		LastSeen:    p.LastSeen,
	}
}

// StatusResponse is returned by the root status endpoint
type StatusResponse struct {
	Message      string    `json:"message"`
	DatabaseTime time.Time `json:"database_time"`
	Status       string    `json:"status"`
}

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

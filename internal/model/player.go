package model

import "time"

// SteamID is the client-supplied identifier of a player.
// It is opaque: no format is enforced beyond being non-empty.
type SteamID string

// defaultNamePrefix is prepended to the steam id for newly created players
const defaultNamePrefix = "Player_"

// Player is a donate shop account keyed by steam id
type Player struct {
	ID          int64     `json:"id"`
	SteamID     SteamID   `json:"steam_id"`
	PlayerName  string    `json:"player_name"`
	DonateCoins int64     `json:"donate_coins"`
	LastSeen    time.Time `json:"last_seen"`
}

// DefaultPlayerName returns the placeholder name given to a player on creation
func DefaultPlayerName(id SteamID) string {
	return defaultNamePrefix + string(id)
}

// Validate checks that the steam id can be used as a key
func (id SteamID) Validate() error {
	if id == "" {
		return ErrInvalidSteamID
	}
	return nil
}

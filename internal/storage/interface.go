package storage

import (
	"context"
	"time"

	"github.com/mcoot/donateshop/internal/model"
)

// Storage defines the interface for player persistence
type Storage interface {
	// GetOrCreatePlayer returns the player for steamID, inserting a new record
	// with the given name, zero balance and lastSeen when none exists.
	// Concurrent calls for the same id must never produce two records.
	GetOrCreatePlayer(ctx context.Context, steamID model.SteamID, name string, lastSeen time.Time) (*model.Player, error)

	// GetPlayer looks up a player without creating it
	GetPlayer(ctx context.Context, steamID model.SteamID) (*model.Player, error)

	// SetDonateCoins overwrites the balance and last_seen of an existing player.
	// Returns model.ErrPlayerNotFound when the player does not exist.
	SetDonateCoins(ctx context.Context, steamID model.SteamID, coins int64, lastSeen time.Time) (*model.Player, error)

	// Now performs a round trip to the backend and returns its current time
	Now(ctx context.Context) (time.Time, error)

	// Close releases the connection pool
	Close() error
}

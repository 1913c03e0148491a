package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/donateshop/internal/dependencies/clock"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.SteamID]*model.Player
	nextID  int64
	clock   clock.Clock
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates an in-memory store whose Now reads clk, so the
// reported database time matches the clock stamping last_seen
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		players: make(map[model.SteamID]*model.Player),
		clock:   clk,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetOrCreatePlayer(ctx context.Context, steamID model.SteamID, name string, lastSeen time.Time) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, ok := s.players[steamID]; ok {
		return clonePlayer(player), nil
	}

	s.nextID++
	player := &model.Player{
		ID:         s.nextID,
		SteamID:    steamID,
		PlayerName: name,
		LastSeen:   lastSeen,
	}
	s.players[steamID] = player
	return clonePlayer(player), nil
}

func (s *Storage) GetPlayer(ctx context.Context, steamID model.SteamID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[steamID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clonePlayer(player), nil
}

func (s *Storage) SetDonateCoins(ctx context.Context, steamID model.SteamID, coins int64, lastSeen time.Time) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[steamID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player.DonateCoins = coins
	player.LastSeen = lastSeen
	return clonePlayer(player), nil
}

func (s *Storage) Now(ctx context.Context) (time.Time, error) {
	return s.clock.Now(), nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// Count returns the number of stored players
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// Callers get a copy so they cannot mutate stored state
func clonePlayer(p *model.Player) *model.Player {
	cp := *p
	return &cp
}

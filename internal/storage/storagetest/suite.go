// Package storagetest holds a behavioural test suite that every
// storage.Storage backend must pass.
package storagetest

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
)

// Suite runs the shared storage contract against the backend built by NewStorage
type Suite struct {
	suite.Suite

	// NewStorage returns an empty store for each test
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
	now     time.Time
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Storage returns the store under test
func (s *Suite) Storage() storage.Storage {
	return s.storage
}

// GetOrCreatePlayer tests

func (s *Suite) TestGetOrCreatePlayerCreatesDefaults() {
	player, err := s.storage.GetOrCreatePlayer(s.ctx, "76561198000000001", "Player_76561198000000001", s.now)
	s.Require().NoError(err)

	s.Positive(player.ID)
	s.Equal(model.SteamID("76561198000000001"), player.SteamID)
	s.Equal("Player_76561198000000001", player.PlayerName)
	s.Equal(int64(0), player.DonateCoins)
	s.WithinDuration(s.now, player.LastSeen, time.Millisecond)
}

func (s *Suite) TestGetOrCreatePlayerIsIdempotent() {
	first, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Player_steam-1", s.now)
	s.Require().NoError(err)

	second, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Someone else", s.now.Add(time.Hour))
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal("Player_steam-1", second.PlayerName)
	s.WithinDuration(s.now, second.LastSeen, time.Millisecond)
}

func (s *Suite) TestGetOrCreatePlayerAssignsDistinctIDs() {
	a, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-a", "Player_steam-a", s.now)
	s.Require().NoError(err)
	b, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-b", "Player_steam-b", s.now)
	s.Require().NoError(err)

	s.NotEqual(a.ID, b.ID)
}

func (s *Suite) TestGetOrCreatePlayerKeepsBalance() {
	_, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Player_steam-1", s.now)
	s.Require().NoError(err)
	_, err = s.storage.SetDonateCoins(s.ctx, "steam-1", 75, s.now)
	s.Require().NoError(err)

	player, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Player_steam-1", s.now)
	s.Require().NoError(err)
	s.Equal(int64(75), player.DonateCoins)
}

func (s *Suite) TestGetOrCreatePlayerConcurrentCreatesOneRecord() {
	const workers = 16

	var wg sync.WaitGroup
	ids := make([]int64, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			player, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-race", "Player_steam-race", s.now)
			errs[i] = err
			if err == nil {
				ids[i] = player.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range workers {
		s.Require().NoError(errs[i])
		s.Equal(ids[0], ids[i])
	}
}

// GetPlayer tests

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerReturnsCreated() {
	created, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Player_steam-1", s.now)
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, "steam-1")
	s.Require().NoError(err)
	s.Equal(created.ID, player.ID)
	s.Equal(created.PlayerName, player.PlayerName)
}

// SetDonateCoins tests

func (s *Suite) TestSetDonateCoinsOverwritesBalance() {
	_, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Player_steam-1", s.now)
	s.Require().NoError(err)

	later := s.now.Add(5 * time.Minute)
	player, err := s.storage.SetDonateCoins(s.ctx, "steam-1", 50, later)
	s.Require().NoError(err)
	s.Equal(int64(50), player.DonateCoins)
	s.WithinDuration(later, player.LastSeen, time.Millisecond)

	player, err = s.storage.SetDonateCoins(s.ctx, "steam-1", 10, later)
	s.Require().NoError(err)
	s.Equal(int64(10), player.DonateCoins)

	stored, err := s.storage.GetPlayer(s.ctx, "steam-1")
	s.Require().NoError(err)
	s.Equal(int64(10), stored.DonateCoins)
	s.Equal("Player_steam-1", stored.PlayerName)
}

func (s *Suite) TestSetDonateCoinsAcceptsAnyValue() {
	_, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-1", "Player_steam-1", s.now)
	s.Require().NoError(err)

	for _, coins := range []int64{-250, 0, math.MaxInt64, math.MinInt64} {
		player, err := s.storage.SetDonateCoins(s.ctx, "steam-1", coins, s.now)
		s.Require().NoError(err)
		s.Equal(coins, player.DonateCoins)
	}
}

func (s *Suite) TestSetDonateCoinsNotFoundDoesNotInsert() {
	_, err := s.storage.SetDonateCoins(s.ctx, "ghost", 50, s.now)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.storage.GetPlayer(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestSetDonateCoinsConcurrentLastWriteWins() {
	const workers = 32

	_, err := s.storage.GetOrCreatePlayer(s.ctx, "steam-race", "Player_steam-race", s.now)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.storage.SetDonateCoins(s.ctx, "steam-race", int64(i), s.now)
		}(i)
	}
	wg.Wait()

	for i := range workers {
		s.Require().NoError(errs[i], "set %d", i)
	}

	stored, err := s.storage.GetPlayer(s.ctx, "steam-race")
	s.Require().NoError(err)
	s.GreaterOrEqual(stored.DonateCoins, int64(0))
	s.Less(stored.DonateCoins, int64(workers))
	s.Equal("Player_steam-race", stored.PlayerName)
}

// Now tests

func (s *Suite) TestNow() {
	now, err := s.storage.Now(s.ctx)
	s.Require().NoError(err)
	s.False(now.IsZero())
}

// Package player implements the donate shop's player account operations.
package player

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/donateshop/internal/dependencies/clock"
	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
)

// Service resolves players by steam id and overwrites their balances
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new player service. metrics and logger may be nil.
func New(storage storage.Storage, clock clock.Clock, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		storage: storage,
		clock:   clock,
		metrics: m,
		logger:  logger.With(slog.String("component", "player-service")),
	}
}

// GetOrCreate returns the player for steamID, creating it with the default
// name and a zero balance on first sight
func (s *Service) GetOrCreate(ctx context.Context, steamID model.SteamID) (*model.Player, error) {
	if err := steamID.Validate(); err != nil {
		return nil, err
	}

	player, err := s.storage.GetOrCreatePlayer(ctx, steamID, model.DefaultPlayerName(steamID), s.clock.Now())
	if err != nil {
		return nil, s.storageFault(metrics.OpGetOrCreate, steamID, err)
	}

	s.metrics.PlayerOp(metrics.OpGetOrCreate)
	s.logger.Debug("player resolved",
		slog.String("steam_id", string(steamID)),
		slog.Int64("player_id", player.ID),
	)
	return player, nil
}

// Get returns an existing player without creating one
func (s *Service) Get(ctx context.Context, steamID model.SteamID) (*model.Player, error) {
	if err := steamID.Validate(); err != nil {
		return nil, err
	}

	player, err := s.storage.GetPlayer(ctx, steamID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, s.storageFault(metrics.OpGet, steamID, err)
	}

	s.metrics.PlayerOp(metrics.OpGet)
	return player, nil
}

// SetBalance overwrites the player's donate coins with an absolute value.
// It never creates a player.
func (s *Service) SetBalance(ctx context.Context, steamID model.SteamID, coins int64) (*model.Player, error) {
	if err := steamID.Validate(); err != nil {
		return nil, err
	}

	player, err := s.storage.SetDonateCoins(ctx, steamID, coins, s.clock.Now())
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, s.storageFault(metrics.OpSetBalance, steamID, err)
	}

	s.metrics.PlayerOp(metrics.OpSetBalance)
	s.logger.Info("donate coins set",
		slog.String("steam_id", string(steamID)),
		slog.Int64("donate_coins", coins),
	)
	return player, nil
}

// Health checks the store is reachable and returns its clock
func (s *Service) Health(ctx context.Context) (time.Time, error) {
	now, err := s.storage.Now(ctx)
	if err != nil {
		s.metrics.StorageError(metrics.OpHealth)
		s.logger.Error("database health check failed", slog.String("error", err.Error()))
		return time.Time{}, model.NewStorageError(metrics.OpHealth, err)
	}
	return now, nil
}

func (s *Service) storageFault(op string, steamID model.SteamID, err error) error {
	s.metrics.StorageError(op)
	s.logger.Error("storage operation failed",
		slog.String("op", op),
		slog.String("steam_id", string(steamID)),
		slog.String("error", err.Error()),
	)
	return model.NewStorageError(op, err)
}

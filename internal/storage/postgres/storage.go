package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and ensures the players table exists
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Storage{pool: pool}, nil
}

// Close closes every pooled connection
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetOrCreatePlayer(ctx context.Context, steamID model.SteamID, name string, lastSeen time.Time) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, getOrCreatePlayerSQL, string(steamID), name, lastSeen)
	return scanPlayer(row)
}

func (s *Storage) GetPlayer(ctx context.Context, steamID model.SteamID) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, getPlayerSQL, string(steamID))
	return scanPlayer(row)
}

func (s *Storage) SetDonateCoins(ctx context.Context, steamID model.SteamID, coins int64, lastSeen time.Time) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, setDonateCoinsSQL, coins, lastSeen, string(steamID))
	return scanPlayer(row)
}

func (s *Storage) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := s.pool.QueryRow(ctx, nowSQL).Scan(&now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var (
		player  model.Player
		steamID string
	)
	err := row.Scan(&player.ID, &steamID, &player.PlayerName, &player.DonateCoins, &player.LastSeen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	player.SteamID = model.SteamID(steamID)
	return &player, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// GetOrCreatePlayer relies on SETNX so only one writer wins the key;
// a loser reads back the winner's record.
func (s *Storage) GetOrCreatePlayer(ctx context.Context, steamID model.SteamID, name string, lastSeen time.Time) (*model.Player, error) {
	key := playerKey(steamID)

	player, err := s.getPlayer(ctx, key)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	id, err := s.client.Incr(ctx, playerSeqKey()).Result()
	if err != nil {
		return nil, err
	}

	player = &model.Player{
		ID:         id,
		SteamID:    steamID,
		PlayerName: name,
		LastSeen:   lastSeen,
	}
	data, err := json.Marshal(player)
	if err != nil {
		return nil, err
	}

	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, err
	}
	if created {
		return player, nil
	}

	return s.getPlayer(ctx, key)
}

func (s *Storage) GetPlayer(ctx context.Context, steamID model.SteamID) (*model.Player, error) {
	return s.getPlayer(ctx, playerKey(steamID))
}

// setIfExists writes the record only when the key is still present, so an
// update never resurrects a player it did not read.
var setIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
return redis.call('SET', KEYS[1], ARGV[1])
`)

// SetDonateCoins rewrites the record in one script call. Only the balance
// and last_seen change after creation, so overlapping updates resolve as
// last-committed-wins.
func (s *Storage) SetDonateCoins(ctx context.Context, steamID model.SteamID, coins int64, lastSeen time.Time) (*model.Player, error) {
	key := playerKey(steamID)

	player, err := s.getPlayer(ctx, key)
	if err != nil {
		return nil, err
	}
	player.DonateCoins = coins
	player.LastSeen = lastSeen

	data, err := json.Marshal(player)
	if err != nil {
		return nil, err
	}

	if err := setIfExists.Run(ctx, s.client, []string{key}, data).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *Storage) Now(ctx context.Context) (time.Time, error) {
	return s.client.Time(ctx).Result()
}

func (s *Storage) getPlayer(ctx context.Context, key string) (*model.Player, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

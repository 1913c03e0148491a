package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
)

// timeLayout is how last_seen is stored; always UTC
const timeLayout = time.RFC3339Nano

const schemaSQL = `
CREATE TABLE IF NOT EXISTS players (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	steam_id     TEXT NOT NULL UNIQUE,
	player_name  TEXT NOT NULL,
	donate_coins INTEGER NOT NULL DEFAULT 0,
	last_seen    TEXT NOT NULL
)`

const getOrCreatePlayerSQL = `
INSERT INTO players (steam_id, player_name, last_seen)
VALUES (?, ?, ?)
ON CONFLICT (steam_id) DO UPDATE SET steam_id = excluded.steam_id
RETURNING id, steam_id, player_name, donate_coins, last_seen`

const getPlayerSQL = `
SELECT id, steam_id, player_name, donate_coins, last_seen
FROM players
WHERE steam_id = ?`

const setDonateCoinsSQL = `
UPDATE players
SET donate_coins = ?, last_seen = ?
WHERE steam_id = ?
RETURNING id, steam_id, player_name, donate_coins, last_seen`

const nowSQL = `SELECT strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (creating if needed) the database file at path
func New(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer; serialise through one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetOrCreatePlayer(ctx context.Context, steamID model.SteamID, name string, lastSeen time.Time) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, getOrCreatePlayerSQL, string(steamID), name, formatTime(lastSeen))
	return scanPlayer(row)
}

func (s *Storage) GetPlayer(ctx context.Context, steamID model.SteamID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, getPlayerSQL, string(steamID))
	return scanPlayer(row)
}

func (s *Storage) SetDonateCoins(ctx context.Context, steamID model.SteamID, coins int64, lastSeen time.Time) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, setDonateCoinsSQL, coins, formatTime(lastSeen), string(steamID))
	return scanPlayer(row)
}

func (s *Storage) Now(ctx context.Context) (time.Time, error) {
	var raw string
	if err := s.db.QueryRowContext(ctx, nowSQL).Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return time.Parse("2006-01-02T15:04:05.000Z", raw)
}

func scanPlayer(row *sql.Row) (*model.Player, error) {
	var (
		player   model.Player
		steamID  string
		lastSeen string
	)
	err := row.Scan(&player.ID, &steamID, &player.PlayerName, &player.DonateCoins, &lastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	seen, err := time.Parse(timeLayout, lastSeen)
	if err != nil {
		return nil, fmt.Errorf("parse last_seen %q: %w", lastSeen, err)
	}

	player.SteamID = model.SteamID(steamID)
	player.LastSeen = seen
	return &player, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS players (
	id           BIGSERIAL PRIMARY KEY,
	steam_id     TEXT NOT NULL UNIQUE,
	player_name  TEXT NOT NULL,
	donate_coins BIGINT NOT NULL DEFAULT 0,
	last_seen    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// The no-op DO UPDATE makes RETURNING yield the existing row on conflict,
// so insert-or-fetch is a single atomic statement.
const getOrCreatePlayerSQL = `
INSERT INTO players (steam_id, player_name, last_seen)
VALUES ($1, $2, $3)
ON CONFLICT (steam_id) DO UPDATE SET steam_id = EXCLUDED.steam_id
RETURNING id, steam_id, player_name, donate_coins, last_seen`

const getPlayerSQL = `
SELECT id, steam_id, player_name, donate_coins, last_seen
FROM players
WHERE steam_id = $1`

const setDonateCoinsSQL = `
UPDATE players
SET donate_coins = $1, last_seen = $2
WHERE steam_id = $3
RETURNING id, steam_id, player_name, donate_coins, last_seen`

const nowSQL = `SELECT now()`

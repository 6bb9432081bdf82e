package postgres

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	artists    JSONB NOT NULL,
	card_count INTEGER NOT NULL,
	has_marker BOOLEAN NOT NULL DEFAULT FALSE,
	status     TEXT NOT NULL DEFAULT 'created',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	game_id TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	number  INTEGER NOT NULL,
	grid    JSONB NOT NULL,
	PRIMARY KEY (game_id, number)
);

CREATE TABLE IF NOT EXISTS play_sessions (
	id         TEXT PRIMARY KEY,
	game_id    TEXT NOT NULL,
	called     JSONB NOT NULL,
	excluded   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS play_sessions_game_id_idx ON play_sessions (game_id);
`

const (
	tableGames    = "games"
	tableCards    = "cards"
	tableSessions = "play_sessions"

	colID        = "id"
	colName      = "name"
	colArtists   = "artists"
	colCardCount = "card_count"
	colHasMarker = "has_marker"
	colStatus    = "status"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
	colGameID    = "game_id"
	colNumber    = "number"
	colGrid      = "grid"
	colCalled    = "called"
	colExcluded  = "excluded"
)

package redis

import (
	"fmt"

	"github.com/mcoot/musicbingo/internal/model"
)

// Key prefix for all bingo data
const keyPrefix = "bingo"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the ZSET of games scored by creation time
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// cardsKey returns the Redis key for the HASH of card number -> grid
func cardsKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:cards:%s", keyPrefix, gameID)
}

// sessionKey returns the Redis key for a PlaySession
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsForGameIndexKey returns the Redis key for the SET of sessions for a game
func sessionsForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:sessions_for_game:%s", keyPrefix, gameID)
}

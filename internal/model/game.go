package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus tracks where a game is in its lifecycle
type GameStatus string

const (
	GameStatusCreated  GameStatus = "created"  // Cards generated, not yet downloaded
	GameStatusArchived GameStatus = "archived" // Card archive has been produced at least once
)

// Game is an operator-defined bingo game. It exclusively owns its cards.
type Game struct {
	ID        GameID
	Name      string
	Artists   ArtistPool
	CardCount int
	HasMarker bool
	Status    GameStatus
	CreatedAt time.Time
}

// Card is one generated bingo card. Its grid never changes after creation.
type Card struct {
	GameID GameID
	Number int // 1-based, assigned in generation order
	Grid   Grid
}

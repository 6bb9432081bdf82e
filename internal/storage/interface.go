package storage

import (
	"context"

	"github.com/mcoot/musicbingo/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Card operations. Cards are written once per game and come back sorted
	// by number.
	SaveCards(ctx context.Context, gameID model.GameID, cards []model.Card) error
	GetCards(ctx context.Context, gameID model.GameID) ([]model.Card, error)
	DeleteCardsForGame(ctx context.Context, gameID model.GameID) error

	// Play session operations
	SaveSession(ctx context.Context, session *model.PlaySession) error
	GetSession(ctx context.Context, id model.SessionID) (*model.PlaySession, error)
	GetSessionsForGame(ctx context.Context, gameID model.GameID) ([]*model.PlaySession, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	DeleteSessionsForGame(ctx context.Context, gameID model.GameID) error

	Close() error
}

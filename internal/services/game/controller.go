package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/musicbingo/internal/dependencies/clock"
	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/generator"
	"github.com/mcoot/musicbingo/internal/services/stats"
	"github.com/mcoot/musicbingo/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CreateGameParams is the operator's definition of a new game
type CreateGameParams struct {
	Name      string
	Artists   model.ArtistPool
	CardCount int
	HasMarker bool
}

// Controller manages game definitions and their generated cards
type Controller struct {
	storage   storage.Storage
	generator *generator.Generator
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	generator *generator.Generator,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		generator: generator,
		clock:     clock,
		random:    random,
		logger:    logger,
	}
}

// CreateGame validates the definition, generates every card and stores the
// game with its cards. Nothing is stored if generation fails.
func (c *Controller) CreateGame(ctx context.Context, params CreateGameParams) (*model.Game, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, model.ErrInvalidGameName
	}
	if params.CardCount < 1 {
		return nil, model.ErrInvalidCardCount
	}
	pool := model.NormalizeArtistPool(params.Artists)
	if err := pool.Validate(); err != nil {
		return nil, err
	}

	grids, err := c.generator.GenerateGame(pool, params.CardCount, params.HasMarker)
	if err != nil {
		c.logger.Warn("card generation failed",
			slog.Int("pool_size", len(pool)),
			slog.Int("card_count", params.CardCount),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	game := &model.Game{
		ID:        model.GameID(c.random.String(12, gameIDAlphabet)),
		Name:      name,
		Artists:   pool,
		CardCount: params.CardCount,
		HasMarker: params.HasMarker,
		Status:    model.GameStatusCreated,
		CreatedAt: c.clock.Now(),
	}

	cards := make([]model.Card, len(grids))
	for i, grid := range grids {
		cards[i] = model.Card{GameID: game.ID, Number: i + 1, Grid: grid}
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if err := c.storage.SaveCards(ctx, game.ID, cards); err != nil {
		c.logger.Error("failed to save cards",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		_ = c.storage.DeleteGame(ctx, game.ID)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("name", game.Name),
		slog.Int("pool_size", len(pool)),
		slog.Int("card_count", game.CardCount),
		slog.Bool("has_marker", game.HasMarker),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames returns every game, newest first
func (c *Controller) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGames(ctx)
}

// GetCards returns the game's cards sorted by number
func (c *Controller) GetCards(ctx context.Context, gameID model.GameID) ([]model.Card, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.GetCards(ctx, gameID)
}

// GetCard returns a single card by its 1-based number
func (c *Controller) GetCard(ctx context.Context, gameID model.GameID, number int) (*model.Card, error) {
	if number < 1 {
		return nil, model.ErrInvalidCardNumber
	}
	cards, err := c.GetCards(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].Number == number {
			return &cards[i], nil
		}
	}
	return nil, model.ErrCardNotFound
}

// DeleteGame removes the game together with its cards and play sessions
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return err
	}

	if err := c.storage.DeleteSessionsForGame(ctx, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteCardsForGame(ctx, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	return nil
}

// MarkArchived records that the card archive has been produced
func (c *Controller) MarkArchived(ctx context.Context, gameID model.GameID) error {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Status == model.GameStatusArchived {
		return nil
	}
	game.Status = model.GameStatusArchived
	return c.storage.SaveGame(ctx, game)
}

// ComputeStats ranks the game's cards against the given selection. Unknown
// excluded card numbers are ignored.
func (c *Controller) ComputeStats(ctx context.Context, gameID model.GameID, called []string, excluded []int) (model.StatsSnapshot, error) {
	cards, err := c.GetCards(ctx, gameID)
	if errors.Is(err, model.ErrCardsNotFound) {
		cards = nil
	} else if err != nil {
		return model.StatsSnapshot{}, err
	}
	return stats.Compute(cards, called, excluded), nil
}

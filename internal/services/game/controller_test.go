package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/dependencies/mocks"
	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/generator"
	"github.com/mcoot/musicbingo/internal/storage/memory"
	"github.com/mcoot/musicbingo/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	gen := generator.New(random.NewSeeded(42))
	s.controller = NewController(s.storage, gen, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func pool(n int) model.ArtistPool {
	p := make(model.ArtistPool, n)
	for i := range p {
		p[i] = fmt.Sprintf("Artist %02d", i)
	}
	return p
}

func (s *ControllerSuite) createGame(id string, cards int) *model.Game {
	s.random.QueueString(id)
	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{
		Name:      "Friday Night",
		Artists:   pool(40),
		CardCount: cards,
		HasMarker: true,
	})
	s.Require().NoError(err)
	return game
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	game := s.createGame("GAME12345678", 3)

	s.Equal(model.GameID("GAME12345678"), game.ID)
	s.Equal("Friday Night", game.Name)
	s.Equal(3, game.CardCount)
	s.True(game.HasMarker)
	s.Equal(model.GameStatusCreated, game.Status)
	s.Equal(s.clock.Now(), game.CreatedAt)
	s.Len(game.Artists, 40)
}

func (s *ControllerSuite) TestCreateGameStoresNumberedUniqueCards() {
	game := s.createGame("GAME1", 5)

	cards, err := s.controller.GetCards(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Len(cards, 5)

	seen := make(map[string]bool)
	for i, card := range cards {
		s.Equal(i+1, card.Number)
		s.Equal(game.ID, card.GameID)
		s.Len(card.Grid, model.GridCells)
		s.NotEqual(-1, card.Grid.MarkerPosition())
		key := card.Grid.IdentityKey()
		s.False(seen[key], "duplicate grid on card %d", card.Number)
		seen[key] = true
	}
}

func (s *ControllerSuite) TestCreateGameTrimsNameAndPool() {
	s.random.QueueString("GAME1")
	artists := append(model.ArtistPool{"  ", ""}, pool(36)...)
	artists[2] = "  " + artists[2] + "  "

	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{Name: "  Quiz  ", Artists: artists, CardCount: 1})
	s.Require().NoError(err)
	s.Equal("Quiz", game.Name)
	s.Len(game.Artists, 36)
	s.Equal("Artist 00", game.Artists[0])
}

func (s *ControllerSuite) TestCreateGameRejectsEmptyName() {
	_, err := s.controller.CreateGame(s.ctx, CreateGameParams{Name: " ", Artists: pool(40), CardCount: 1})
	s.ErrorIs(err, model.ErrInvalidGameName)
}

func (s *ControllerSuite) TestCreateGameRejectsZeroCards() {
	_, err := s.controller.CreateGame(s.ctx, CreateGameParams{Name: "Quiz", Artists: pool(40), CardCount: 0})
	s.ErrorIs(err, model.ErrInvalidCardCount)
}

func (s *ControllerSuite) TestCreateGameRejectsSmallPool() {
	_, err := s.controller.CreateGame(s.ctx, CreateGameParams{Name: "Quiz", Artists: pool(35), CardCount: 1})
	s.ErrorIs(err, model.ErrInsufficientArtists)

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ControllerSuite) TestCreateGameExhaustedStoresNothing() {
	_, err := s.controller.CreateGame(s.ctx, CreateGameParams{Name: "Quiz", Artists: pool(36), CardCount: 2})
	s.ErrorIs(err, model.ErrExhaustedUniqueGrids)

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

// Lookup tests

func (s *ControllerSuite) TestGetGameNotFound() {
	_, err := s.controller.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestListGamesNewestFirst() {
	first := s.createGame("FIRST", 1)
	s.clock.Advance(time.Minute)
	second := s.createGame("SECOND", 1)

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(second.ID, games[0].ID)
	s.Equal(first.ID, games[1].ID)
}

func (s *ControllerSuite) TestGetCardsMissingGame() {
	_, err := s.controller.GetCards(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestGetCard() {
	game := s.createGame("GAME1", 3)

	card, err := s.controller.GetCard(s.ctx, game.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, card.Number)

	_, err = s.controller.GetCard(s.ctx, game.ID, 4)
	s.ErrorIs(err, model.ErrCardNotFound)

	_, err = s.controller.GetCard(s.ctx, game.ID, 0)
	s.ErrorIs(err, model.ErrInvalidCardNumber)
}

// DeleteGame tests

func (s *ControllerSuite) TestDeleteGameRemovesCardsAndSessions() {
	game := s.createGame("GAME1", 2)
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.PlaySession{ID: "s1", GameID: game.ID}))

	s.Require().NoError(s.controller.DeleteGame(s.ctx, game.ID))

	_, err := s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetCards(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrCardsNotFound)
	_, err = s.storage.GetSession(s.ctx, "s1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestDeleteMissingGame() {
	s.ErrorIs(s.controller.DeleteGame(s.ctx, "missing"), model.ErrGameNotFound)
}

func (s *ControllerSuite) TestMarkArchived() {
	game := s.createGame("GAME1", 1)

	s.Require().NoError(s.controller.MarkArchived(s.ctx, game.ID))
	s.Require().NoError(s.controller.MarkArchived(s.ctx, game.ID))

	got, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusArchived, got.Status)
}

// ComputeStats tests

func (s *ControllerSuite) TestComputeStatsNothingCalled() {
	game := s.createGame("GAME1", 3)

	snap, err := s.controller.ComputeStats(s.ctx, game.ID, nil, nil)
	s.Require().NoError(err)
	s.Equal(3, snap.TotalCards)
	s.Empty(snap.Winners)
	for _, cs := range snap.Cards {
		s.Equal(model.GridCells, cs.Remaining)
	}
}

func (s *ControllerSuite) TestComputeStatsFindsWinner() {
	game := s.createGame("GAME1", 3)
	card, err := s.controller.GetCard(s.ctx, game.ID, 2)
	s.Require().NoError(err)

	snap, err := s.controller.ComputeStats(s.ctx, game.ID, card.Grid.Names(), []int{42})
	s.Require().NoError(err)
	s.Equal([]int{2}, snap.Winners)
	s.Equal(2, snap.Cards[0].CardNumber)
	s.Equal(3, snap.TotalCards)
}

func (s *ControllerSuite) TestComputeStatsWithExclusion() {
	game := s.createGame("GAME1", 3)
	card, err := s.controller.GetCard(s.ctx, game.ID, 1)
	s.Require().NoError(err)

	snap, err := s.controller.ComputeStats(s.ctx, game.ID, card.Grid.Names(), []int{1})
	s.Require().NoError(err)
	s.Empty(snap.Winners)
	s.Equal(2, snap.TotalCards)
}

func (s *ControllerSuite) TestComputeStatsMissingGame() {
	_, err := s.controller.ComputeStats(s.ctx, "missing", nil, nil)
	s.ErrorIs(err, model.ErrGameNotFound)
}

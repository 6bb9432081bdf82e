// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
)

// Suite runs the storage contract against the backend returned by NewStorage.
// Each test gets a fresh backend.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	storage storage.Storage
	ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage()
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Storage exposes the backend under test to embedding suites
func (s *Suite) Storage() storage.Storage {
	return s.storage
}

// Context returns the suite's context
func (s *Suite) Context() context.Context {
	return s.ctx
}

// Fixtures

func Artists(n int) model.ArtistPool {
	pool := make(model.ArtistPool, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("Artist %02d", i)
	}
	return pool
}

func Game(id model.GameID, createdAt time.Time) *model.Game {
	return &model.Game{
		ID:        id,
		Name:      "Game " + string(id),
		Artists:   Artists(40),
		CardCount: 2,
		HasMarker: true,
		Status:    model.GameStatusCreated,
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}
}

func Cards(gameID model.GameID, n int) []model.Card {
	cards := make([]model.Card, n)
	pool := Artists(40)
	for i := range cards {
		grid := model.NewGrid(pool[i : i+model.GridCells])
		grid[i%model.GridCells].Marked = true
		cards[i] = model.Card{GameID: gameID, Number: i + 1, Grid: grid}
	}
	return cards
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	game := Game("ABC", time.Now())
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
	s.Equal(game.Name, got.Name)
	s.Equal(game.Artists, got.Artists)
	s.Equal(game.CardCount, got.CardCount)
	s.True(got.HasMarker)
	s.Equal(model.GameStatusCreated, got.Status)
	s.True(game.CreatedAt.Equal(got.CreatedAt))
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestSaveGameOverwrites() {
	game := Game("ABC", time.Now())
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	game.Status = model.GameStatusArchived
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Equal(model.GameStatusArchived, got.Status)
}

func (s *Suite) TestListGamesNewestFirst() {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("OLD", base)))
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("NEW", base.Add(2*time.Hour))))
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("MID", base.Add(time.Hour))))

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("NEW"), games[0].ID)
	s.Equal(model.GameID("MID"), games[1].ID)
	s.Equal(model.GameID("OLD"), games[2].ID)
}

func (s *Suite) TestListGamesEmpty() {
	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestDeleteGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "ABC"))

	_, err := s.storage.GetGame(s.ctx, "ABC")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Card tests

func (s *Suite) TestSaveAndGetCards() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	cards := Cards("ABC", 3)
	s.Require().NoError(s.storage.SaveCards(s.ctx, "ABC", cards))

	got, err := s.storage.GetCards(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	for i, c := range got {
		s.Equal(i+1, c.Number)
		s.Equal(model.GameID("ABC"), c.GameID)
		s.Equal(cards[i].Grid, c.Grid)
		s.Equal(i%model.GridCells, c.Grid.MarkerPosition())
	}
}

func (s *Suite) TestGetCardsSortedByNumber() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	cards := Cards("ABC", 3)
	shuffled := []model.Card{cards[2], cards[0], cards[1]}
	s.Require().NoError(s.storage.SaveCards(s.ctx, "ABC", shuffled))

	got, err := s.storage.GetCards(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal([]int{1, 2, 3}, []int{got[0].Number, got[1].Number, got[2].Number})
}

func (s *Suite) TestGetCardsNotFound() {
	_, err := s.storage.GetCards(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrCardsNotFound)
}

func (s *Suite) TestDeleteCardsForGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("XYZ", time.Now())))
	s.Require().NoError(s.storage.SaveCards(s.ctx, "ABC", Cards("ABC", 2)))
	s.Require().NoError(s.storage.SaveCards(s.ctx, "XYZ", Cards("XYZ", 2)))

	s.Require().NoError(s.storage.DeleteCardsForGame(s.ctx, "ABC"))

	_, err := s.storage.GetCards(s.ctx, "ABC")
	s.ErrorIs(err, model.ErrCardsNotFound)
	other, err := s.storage.GetCards(s.ctx, "XYZ")
	s.Require().NoError(err)
	s.Len(other, 2)
}

// Session tests

func (s *Suite) TestSaveAndGetSession() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	now := time.Now().UTC().Truncate(time.Millisecond)
	session := &model.PlaySession{
		ID:        "sess-1",
		GameID:    "ABC",
		Called:    []string{"Artist 03", "Artist 01"},
		Excluded:  []int{2},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	got, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(model.GameID("ABC"), got.GameID)
	s.Equal([]string{"Artist 03", "Artist 01"}, got.Called)
	s.Equal([]int{2}, got.Excluded)
	s.True(now.Equal(got.UpdatedAt))
}

func (s *Suite) TestSessionUpdateReplacesSelection() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	session := &model.PlaySession{ID: "sess-1", GameID: "ABC", Called: []string{"Artist 01"}, Excluded: []int{1}}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	session.Called = nil
	session.Excluded = nil
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	got, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Empty(got.Called)
	s.Empty(got.Excluded)
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestSessionsForGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("XYZ", time.Now())))
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.PlaySession{ID: "s1", GameID: "ABC"}))
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.PlaySession{ID: "s2", GameID: "ABC"}))
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.PlaySession{ID: "s3", GameID: "XYZ"}))

	sessions, err := s.storage.GetSessionsForGame(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Len(sessions, 2)

	s.Require().NoError(s.storage.DeleteSessionsForGame(s.ctx, "ABC"))

	sessions, err = s.storage.GetSessionsForGame(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Empty(sessions)
	_, err = s.storage.GetSession(s.ctx, "s3")
	s.NoError(err)
}

func (s *Suite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, Game("ABC", time.Now())))
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.PlaySession{ID: "s1", GameID: "ABC"}))

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "s1"))

	_, err := s.storage.GetSession(s.ctx, "s1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

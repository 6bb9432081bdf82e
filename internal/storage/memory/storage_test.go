package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage { return New() },
	})
}

func TestReturnedCardsAreDetached(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SaveCards(ctx, "ABC", storagetest.Cards("ABC", 1)))

	cards, err := s.GetCards(ctx, "ABC")
	require.NoError(t, err)
	cards[0].Grid[0].Name = "changed"

	again, err := s.GetCards(ctx, "ABC")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Grid[0].Name)
}

func TestReturnedSessionIsDetached(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SaveSession(ctx, &model.PlaySession{ID: "s1", GameID: "ABC", Called: []string{"A"}}))

	session, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	session.Called[0] = "B"
	session.Called = append(session.Called, "C")

	again, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, again.Called)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				_ = s.SaveGame(ctx, storagetest.Game("ABC", time.Now()))
				_, _ = s.ListGames(ctx)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	games, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			s, err := New(filepath.Join(t.TempDir(), "bingo.db"))
			require.NoError(t, err)
			return s
		},
	})
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bingo.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveGame(ctx, storagetest.Game("ABC", time.Now())))
	require.NoError(t, s.SaveCards(ctx, "ABC", storagetest.Cards("ABC", 3)))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	game, err := s.GetGame(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "Game ABC", game.Name)

	cards, err := s.GetCards(ctx, "ABC")
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestCardNumbersAboveOneByteStaySorted(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "bingo.db"))
	require.NoError(t, err)
	defer s.Close()

	cards := storagetest.Cards("ABC", 3)
	cards[0].Number = 300
	cards[1].Number = 2
	cards[2].Number = 256
	require.NoError(t, s.SaveCards(ctx, "ABC", cards))

	got, err := s.GetCards(ctx, "ABC")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 256, 300}, []int{got[0].Number, got[1].Number, got[2].Number})
}

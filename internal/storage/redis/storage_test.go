package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			mini := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
			return NewWithClient(client, DefaultConfig())
		},
	})
}

type RedisSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}

func (s *RedisSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = 48 * time.Hour
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *RedisSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *RedisSuite) TestKeysUsePrefix() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, storagetest.Game("ABC", time.Now())))
	s.Require().NoError(s.storage.SaveCards(s.ctx, "ABC", storagetest.Cards("ABC", 2)))

	s.True(s.mini.Exists("bingo:game:ABC"))
	s.True(s.mini.Exists("bingo:cards:ABC"))
	s.True(s.mini.Exists("bingo:idx:games"))
}

func (s *RedisSuite) TestGameTTLApplied() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, storagetest.Game("ABC", time.Now())))
	s.Require().NoError(s.storage.SaveCards(s.ctx, "ABC", storagetest.Cards("ABC", 1)))

	s.Equal(48*time.Hour, s.mini.TTL("bingo:game:ABC"))
	s.Equal(48*time.Hour, s.mini.TTL("bingo:cards:ABC"))
}

func (s *RedisSuite) TestSessionExpires() {
	session := &model.PlaySession{ID: "s1", GameID: "ABC"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "s1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RedisSuite) TestExpiredGameDroppedFromListing() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, storagetest.Game("ABC", time.Now())))
	s.mini.FastForward(49 * time.Hour)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)

	members, err := s.mini.ZMembers("bingo:idx:games")
	if err == nil {
		s.Empty(members)
	}
}

func (s *RedisSuite) TestDeleteSessionRemovesIndexEntry() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.PlaySession{ID: "s1", GameID: "ABC"}))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "s1"))

	sessions, err := s.storage.GetSessionsForGame(s.ctx, "ABC")
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *RedisSuite) TestDeleteMissingSessionIsNoop() {
	s.NoError(s.storage.DeleteSession(s.ctx, "missing"))
}

func (s *RedisSuite) TestCorruptRecordsReportTheirKey() {
	s.Require().NoError(s.mini.Set("bingo:game:BAD", "{oops"))
	s.mini.HSet("bingo:cards:BAD", "3", "not json")
	s.Require().NoError(s.mini.Set("bingo:session:s9", "[]"))

	var syntaxErr *json.SyntaxError
	_, err := s.storage.GetGame(s.ctx, "BAD")
	s.Require().Error(err)
	s.ErrorAs(err, &syntaxErr)
	s.Contains(err.Error(), "bingo:game:BAD")

	_, err = s.storage.GetCards(s.ctx, "BAD")
	s.Require().Error(err)
	s.ErrorAs(err, &syntaxErr)
	s.Contains(err.Error(), "card 3 in bingo:cards:BAD")

	var typeErr *json.UnmarshalTypeError
	_, err = s.storage.GetSession(s.ctx, "s9")
	s.Require().Error(err)
	s.ErrorAs(err, &typeErr)
	s.Contains(err.Error(), "bingo:session:s9")
}

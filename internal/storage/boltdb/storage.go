// Package boltdb stores games, cards and sessions in a single bbolt file.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
)

var (
	gamesBucket    = []byte("games")
	cardsBucket    = []byte("cards") // One nested bucket per game
	sessionsBucket = []byte("sessions")
)

// Storage is a bbolt-backed implementation of the storage interface
type Storage struct {
	db *bolt.DB
}

// New opens (or creates) the database file at path
func New(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{gamesBucket, cardsBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database file
func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing bolt db: %w", err)
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(gamesBucket).Put([]byte(game.ID), data)
	})
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(gamesBucket).Get([]byte(id))
		if data == nil {
			return model.ErrGameNotFound
		}
		return json.Unmarshal(data, &game)
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	var games []*model.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(gamesBucket).ForEach(func(k, v []byte) error {
			var game model.Game
			if err := json.Unmarshal(v, &game); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			games = append(games, &game)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	storage.SortGamesNewestFirst(games)
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(gamesBucket).Delete([]byte(id))
	})
}

// Card operations

func (s *Storage) SaveCards(ctx context.Context, gameID model.GameID, cards []model.Card) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		parent := tx.Bucket(cardsBucket)
		if err := parent.DeleteBucket([]byte(gameID)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("delete bucket: %w", err)
		}
		b, err := parent.CreateBucket([]byte(gameID))
		if err != nil {
			return fmt.Errorf("can not create bucket: %w", err)
		}
		for _, card := range cards {
			data, err := json.Marshal(card.Grid)
			if err != nil {
				return fmt.Errorf("marshal: %w", err)
			}
			if err := b.Put(cardKey(card.Number), data); err != nil {
				return fmt.Errorf("put to bucket error: %w", err)
			}
		}
		return nil
	})
}

func (s *Storage) GetCards(ctx context.Context, gameID model.GameID) ([]model.Card, error) {
	var cards []model.Card
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(cardsBucket).Bucket([]byte(gameID))
		if b == nil {
			return model.ErrCardsNotFound
		}
		// Big-endian keys iterate in card number order
		return b.ForEach(func(k, v []byte) error {
			var grid model.Grid
			if err := json.Unmarshal(v, &grid); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			cards = append(cards, model.Card{
				GameID: gameID,
				Number: int(binary.BigEndian.Uint32(k)),
				Grid:   grid,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, model.ErrCardsNotFound
	}
	return cards, nil
}

func (s *Storage) DeleteCardsForGame(ctx context.Context, gameID model.GameID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket(cardsBucket).DeleteBucket([]byte(gameID))
		if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("delete bucket: %w", err)
		}
		return nil
	})
}

// Play session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlaySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), data)
	})
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.PlaySession, error) {
	var session model.PlaySession
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(id))
		if data == nil {
			return model.ErrSessionNotFound
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) GetSessionsForGame(ctx context.Context, gameID model.GameID) ([]*model.PlaySession, error) {
	var sessions []*model.PlaySession
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, v []byte) error {
			var session model.PlaySession
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if session.GameID == gameID {
				sessions = append(sessions, &session)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	return sessions, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

func (s *Storage) DeleteSessionsForGame(ctx context.Context, gameID model.GameID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		var doomed [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var session model.PlaySession
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if session.GameID == gameID {
				doomed = append(doomed, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func cardKey(number int) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(number))
	return k
}

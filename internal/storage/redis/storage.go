package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", game.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	pipe.ZAdd(ctx, gamesIndexKey(), redis.Z{
		Score:  float64(game.CreatedAt.UnixMilli()),
		Member: string(game.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("decode %s: %w", gameKey(id), err)
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.ZRevRange(ctx, gamesIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.GetGame(ctx, model.GameID(id))
		if errors.Is(err, model.ErrGameNotFound) {
			// Expired; drop the stale index entry
			s.client.ZRem(ctx, gamesIndexKey(), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	storage.SortGamesNewestFirst(games)
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.ZRem(ctx, gamesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Card operations

func (s *Storage) SaveCards(ctx context.Context, gameID model.GameID, cards []model.Card) error {
	fields := make(map[string]any, len(cards))
	for _, card := range cards {
		data, err := json.Marshal(card.Grid)
		if err != nil {
			return fmt.Errorf("encode card %d of game %s: %w", card.Number, gameID, err)
		}
		fields[strconv.Itoa(card.Number)] = data
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, cardsKey(gameID))
	if len(fields) > 0 {
		pipe.HSet(ctx, cardsKey(gameID), fields)
	}
	if s.cfg.GameTTL > 0 {
		pipe.Expire(ctx, cardsKey(gameID), s.cfg.GameTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCards(ctx context.Context, gameID model.GameID) ([]model.Card, error) {
	fields, err := s.client.HGetAll(ctx, cardsKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrCardsNotFound
	}

	cards := make([]model.Card, 0, len(fields))
	for field, data := range fields {
		number, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("card field %q: %w", field, err)
		}
		var grid model.Grid
		if err := json.Unmarshal([]byte(data), &grid); err != nil {
			return nil, fmt.Errorf("decode card %d in %s: %w", number, cardsKey(gameID), err)
		}
		cards = append(cards, model.Card{GameID: gameID, Number: number, Grid: grid})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Number < cards[j].Number })
	return cards, nil
}

func (s *Storage) DeleteCardsForGame(ctx context.Context, gameID model.GameID) error {
	return s.client.Del(ctx, cardsKey(gameID)).Err()
}

// Play session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlaySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
	pipe.SAdd(ctx, sessionsForGameIndexKey(session.GameID), string(session.ID))
	if s.cfg.SessionTTL > 0 {
		pipe.Expire(ctx, sessionsForGameIndexKey(session.GameID), s.cfg.SessionTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.PlaySession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.PlaySession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode %s: %w", sessionKey(id), err)
	}
	return &session, nil
}

func (s *Storage) GetSessionsForGame(ctx context.Context, gameID model.GameID) ([]*model.PlaySession, error) {
	ids, err := s.client.SMembers(ctx, sessionsForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*model.PlaySession, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if errors.Is(err, model.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	session, err := s.GetSession(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, sessionsForGameIndexKey(session.GameID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteSessionsForGame(ctx context.Context, gameID model.GameID) error {
	ids, err := s.client.SMembers(ctx, sessionsForGameIndexKey(gameID)).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(model.SessionID(id)))
	}
	keys = append(keys, sessionsForGameIndexKey(gameID))
	return s.client.Del(ctx, keys...).Err()
}

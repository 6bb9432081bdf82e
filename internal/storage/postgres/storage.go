// Package postgres persists games, cards and sessions in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Storage is a PostgreSQL implementation of the storage interface
type Storage struct {
	pool      *pgxpool.Pool
	txManager *manager.Manager
	getter    *trmpgx.CtxGetter
}

// New connects to dsn and creates the schema if it does not exist
func New(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	txManager, err := manager.New(trmpgx.NewDefaultFactory(pool))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create tx manager: %w", err)
	}

	s := &Storage{
		pool:      pool,
		txManager: txManager,
		getter:    trmpgx.DefaultCtxGetter,
	}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// conn returns the transaction bound to ctx, or the pool outside one
func (s *Storage) conn(ctx context.Context) trmpgx.Tr {
	return s.getter.DefaultTrOrDB(ctx, s.pool)
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	artists, err := json.Marshal(game.Artists)
	if err != nil {
		return err
	}

	query := psql.Insert(tableGames).
		Columns(colID, colName, colArtists, colCardCount, colHasMarker, colStatus, colCreatedAt).
		Values(string(game.ID), game.Name, string(artists), game.CardCount, game.HasMarker, string(game.Status), game.CreatedAt).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " +
			colName + " = EXCLUDED." + colName + ", " +
			colArtists + " = EXCLUDED." + colArtists + ", " +
			colCardCount + " = EXCLUDED." + colCardCount + ", " +
			colHasMarker + " = EXCLUDED." + colHasMarker + ", " +
			colStatus + " = EXCLUDED." + colStatus)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	query := selectGames().Where(sq.Eq{colID: string(id)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	game, err := scanGame(s.conn(ctx).QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	return game, err
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	query := selectGames().OrderBy(colCreatedAt+" DESC", colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	query := psql.Delete(tableGames).Where(sq.Eq{colID: string(id)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

// Card operations

func (s *Storage) SaveCards(ctx context.Context, gameID model.GameID, cards []model.Card) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.DeleteCardsForGame(ctx, gameID); err != nil {
			return err
		}
		if len(cards) == 0 {
			return nil
		}

		query := psql.Insert(tableCards).Columns(colGameID, colNumber, colGrid)
		for _, card := range cards {
			grid, err := json.Marshal(card.Grid)
			if err != nil {
				return err
			}
			query = query.Values(string(gameID), card.Number, string(grid))
		}

		sqlStr, args, err := query.ToSql()
		if err != nil {
			return err
		}
		_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
		return err
	})
}

func (s *Storage) GetCards(ctx context.Context, gameID model.GameID) ([]model.Card, error) {
	query := psql.Select(colNumber, colGrid).
		From(tableCards).
		Where(sq.Eq{colGameID: string(gameID)}).
		OrderBy(colNumber)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var (
			number int
			raw    []byte
		)
		if err := rows.Scan(&number, &raw); err != nil {
			return nil, err
		}
		var grid model.Grid
		if err := json.Unmarshal(raw, &grid); err != nil {
			return nil, err
		}
		cards = append(cards, model.Card{GameID: gameID, Number: number, Grid: grid})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, model.ErrCardsNotFound
	}
	return cards, nil
}

func (s *Storage) DeleteCardsForGame(ctx context.Context, gameID model.GameID) error {
	query := psql.Delete(tableCards).Where(sq.Eq{colGameID: string(gameID)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

// Play session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlaySession) error {
	called, err := json.Marshal(nonNil(session.Called))
	if err != nil {
		return err
	}
	excluded, err := json.Marshal(nonNil(session.Excluded))
	if err != nil {
		return err
	}

	query := psql.Insert(tableSessions).
		Columns(colID, colGameID, colCalled, colExcluded, colCreatedAt, colUpdatedAt).
		Values(string(session.ID), string(session.GameID), string(called), string(excluded), session.CreatedAt, session.UpdatedAt).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " +
			colCalled + " = EXCLUDED." + colCalled + ", " +
			colExcluded + " = EXCLUDED." + colExcluded + ", " +
			colUpdatedAt + " = EXCLUDED." + colUpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.PlaySession, error) {
	query := selectSessions().Where(sq.Eq{colID: string(id)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	session, err := scanSession(s.conn(ctx).QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	return session, err
}

func (s *Storage) GetSessionsForGame(ctx context.Context, gameID model.GameID) ([]*model.PlaySession, error) {
	query := selectSessions().Where(sq.Eq{colGameID: string(gameID)}).OrderBy(colCreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.PlaySession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	query := psql.Delete(tableSessions).Where(sq.Eq{colID: string(id)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

func (s *Storage) DeleteSessionsForGame(ctx context.Context, gameID model.GameID) error {
	query := psql.Delete(tableSessions).Where(sq.Eq{colGameID: string(gameID)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

func selectGames() sq.SelectBuilder {
	return psql.Select(colID, colName, colArtists, colCardCount, colHasMarker, colStatus, colCreatedAt).
		From(tableGames)
}

func selectSessions() sq.SelectBuilder {
	return psql.Select(colID, colGameID, colCalled, colExcluded, colCreatedAt, colUpdatedAt).
		From(tableSessions)
}

func scanGame(row pgx.Row) (*model.Game, error) {
	var (
		game    model.Game
		id      string
		status  string
		artists []byte
	)
	if err := row.Scan(&id, &game.Name, &artists, &game.CardCount, &game.HasMarker, &status, &game.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(artists, &game.Artists); err != nil {
		return nil, fmt.Errorf("decode artists: %w", err)
	}
	game.ID = model.GameID(id)
	game.Status = model.GameStatus(status)
	game.CreatedAt = game.CreatedAt.UTC()
	return &game, nil
}

func scanSession(row pgx.Row) (*model.PlaySession, error) {
	var (
		session         model.PlaySession
		id, gameID      string
		called, exclude []byte
	)
	if err := row.Scan(&id, &gameID, &called, &exclude, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(called, &session.Called); err != nil {
		return nil, fmt.Errorf("decode called artists: %w", err)
	}
	if err := json.Unmarshal(exclude, &session.Excluded); err != nil {
		return nil, fmt.Errorf("decode excluded cards: %w", err)
	}
	session.ID = model.SessionID(id)
	session.GameID = model.GameID(gameID)
	session.CreatedAt = session.CreatedAt.UTC()
	session.UpdatedAt = session.UpdatedAt.UTC()
	return &session, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

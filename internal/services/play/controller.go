// Package play runs live play sessions: the called artists and excluded
// cards of one game night, kept on the server so several screens can follow
// the same state.
package play

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/mcoot/musicbingo/internal/dependencies/clock"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/stats"
	"github.com/mcoot/musicbingo/internal/storage"
)

// Notifier is told about every session change along with the fresh stats
type Notifier interface {
	SessionUpdated(session *model.PlaySession, snapshot model.StatsSnapshot)
	SessionEnded(sessionID model.SessionID)
}

// Controller manages play sessions. Sessions never modify their game.
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	notifier Notifier
	newID    func() string
	locks    *sessionLocks
}

// NewController creates a new play session Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger,
		newID:   uuid.NewString,
		locks:   newSessionLocks(),
	}
}

// SetNotifier registers the receiver of session updates
func (c *Controller) SetNotifier(n Notifier) {
	c.notifier = n
}

// StartSession opens an empty session for a game
func (c *Controller) StartSession(ctx context.Context, gameID model.GameID) (*model.PlaySession, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	session := &model.PlaySession{
		ID:        model.SessionID(c.newID()),
		GameID:    gameID,
		Called:    []string{},
		Excluded:  []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("play session started",
		slog.String("session_id", string(session.ID)),
		slog.String("game_id", string(gameID)),
	)
	return session, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, sessionID model.SessionID) (*model.PlaySession, error) {
	return c.storage.GetSession(ctx, sessionID)
}

// ToggleArtist calls the artist, or uncalls it if already called. The artist
// must belong to the game's pool.
func (c *Controller) ToggleArtist(ctx context.Context, sessionID model.SessionID, artist string) (*model.PlaySession, model.StatsSnapshot, error) {
	defer c.locks.lock(sessionID)()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, model.StatsSnapshot{}, err
	}
	game, err := c.storage.GetGame(ctx, session.GameID)
	if err != nil {
		return nil, model.StatsSnapshot{}, err
	}
	if !game.Artists.Contains(artist) {
		return nil, model.StatsSnapshot{}, model.ErrArtistNotInGame
	}

	if session.IsCalled(artist) {
		called := make([]string, 0, len(session.Called))
		for _, a := range session.Called {
			if a != artist {
				called = append(called, a)
			}
		}
		session.Called = called
	} else {
		session.Called = append(session.Called, artist)
	}

	return c.save(ctx, session)
}

// SetExcluded replaces the excluded card numbers. Numbers with no matching
// card are kept and ignored by stats.
func (c *Controller) SetExcluded(ctx context.Context, sessionID model.SessionID, cards []int) (*model.PlaySession, model.StatsSnapshot, error) {
	for _, n := range cards {
		if n < 1 {
			return nil, model.StatsSnapshot{}, model.ErrInvalidCardNumber
		}
	}
	defer c.locks.lock(sessionID)()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, model.StatsSnapshot{}, err
	}

	session.Excluded = dedupe(cards)
	return c.save(ctx, session)
}

// ToggleExcluded excludes a card, or brings it back if already excluded
func (c *Controller) ToggleExcluded(ctx context.Context, sessionID model.SessionID, number int) (*model.PlaySession, model.StatsSnapshot, error) {
	if number < 1 {
		return nil, model.StatsSnapshot{}, model.ErrInvalidCardNumber
	}
	defer c.locks.lock(sessionID)()

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, model.StatsSnapshot{}, err
	}

	excluded := make([]int, 0, len(session.Excluded)+1)
	found := false
	for _, n := range session.Excluded {
		if n == number {
			found = true
			continue
		}
		excluded = append(excluded, n)
	}
	if !found {
		excluded = append(excluded, number)
	}
	session.Excluded = dedupe(excluded)
	return c.save(ctx, session)
}

// Snapshot computes the stats for the session's current selection
func (c *Controller) Snapshot(ctx context.Context, sessionID model.SessionID) (model.StatsSnapshot, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return model.StatsSnapshot{}, err
	}
	return c.snapshot(ctx, session)
}

// EndSession discards the session. It waits for in-flight updates, which
// then cannot write the session back.
func (c *Controller) EndSession(ctx context.Context, sessionID model.SessionID) error {
	defer c.locks.lock(sessionID)()

	if _, err := c.storage.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := c.storage.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	c.logger.Info("play session ended", slog.String("session_id", string(sessionID)))
	if c.notifier != nil {
		c.notifier.SessionEnded(sessionID)
	}
	return nil
}

func (c *Controller) save(ctx context.Context, session *model.PlaySession) (*model.PlaySession, model.StatsSnapshot, error) {
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, model.StatsSnapshot{}, err
	}

	snap, err := c.snapshot(ctx, session)
	if err != nil {
		return nil, model.StatsSnapshot{}, err
	}

	c.logger.Debug("play session updated",
		slog.String("session_id", string(session.ID)),
		slog.Int("called", len(session.Called)),
		slog.Int("excluded", len(session.Excluded)),
		slog.Int("winners", len(snap.Winners)),
	)
	if c.notifier != nil {
		c.notifier.SessionUpdated(session, snap)
	}
	return session, snap, nil
}

func (c *Controller) snapshot(ctx context.Context, session *model.PlaySession) (model.StatsSnapshot, error) {
	cards, err := c.storage.GetCards(ctx, session.GameID)
	if err != nil && !errors.Is(err, model.ErrCardsNotFound) {
		return model.StatsSnapshot{}, err
	}
	return stats.ComputeSelection(cards, session.Selection()), nil
}

func dedupe(numbers []int) []int {
	seen := make(map[int]struct{}, len(numbers))
	out := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

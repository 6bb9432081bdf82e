package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games    map[model.GameID]*model.Game
	cards    map[model.GameID][]model.Card
	sessions map[model.SessionID]*model.PlaySession
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:    make(map[model.GameID]*model.Game),
		cards:    make(map[model.GameID][]model.Card),
		sessions: make(map[model.SessionID]*model.PlaySession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Close() error {
	return nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *game
	g.Artists = append(model.ArtistPool(nil), game.Artists...)
	s.games[game.ID] = &g
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *game
	return &g, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, game := range s.games {
		g := *game
		games = append(games, &g)
	}
	storage.SortGamesNewestFirst(games)
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Card operations

func (s *Storage) SaveCards(ctx context.Context, gameID model.GameID, cards []model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]model.Card, len(cards))
	for i, c := range cards {
		stored[i] = model.Card{GameID: gameID, Number: c.Number, Grid: c.Grid.Clone()}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Number < stored[j].Number })
	s.cards[gameID] = stored
	return nil
}

func (s *Storage) GetCards(ctx context.Context, gameID model.GameID) ([]model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.cards[gameID]
	if !ok {
		return nil, model.ErrCardsNotFound
	}
	cards := make([]model.Card, len(stored))
	for i, c := range stored {
		cards[i] = model.Card{GameID: c.GameID, Number: c.Number, Grid: c.Grid.Clone()}
	}
	return cards, nil
}

func (s *Storage) DeleteCardsForGame(ctx context.Context, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, gameID)
	return nil
}

// Play session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlaySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = copySession(session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.PlaySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (s *Storage) GetSessionsForGame(ctx context.Context, gameID model.GameID) ([]*model.PlaySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sessions []*model.PlaySession
	for _, session := range s.sessions {
		if session.GameID == gameID {
			sessions = append(sessions, copySession(session))
		}
	}
	return sessions, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) DeleteSessionsForGame(ctx context.Context, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.GameID == gameID {
			delete(s.sessions, id)
		}
	}
	return nil
}

// copySession detaches the slices so callers cannot mutate stored state
func copySession(session *model.PlaySession) *model.PlaySession {
	c := *session
	c.Called = append([]string(nil), session.Called...)
	c.Excluded = append([]int(nil), session.Excluded...)
	return &c
}

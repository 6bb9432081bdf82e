package model

import "time"

// SessionID identifies a live play session
type SessionID string

// PlaySession holds the called artists and excluded cards of one live game
// run. It belongs to the session, not to the Game, and is discarded when the
// session ends.
type PlaySession struct {
	ID        SessionID
	GameID    GameID
	Called    []string // In the order they were called
	Excluded  []int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Selection returns the set view of the session's state
func (s *PlaySession) Selection() Selection {
	return NewSelection(s.Called, s.Excluded)
}

// IsCalled reports whether artist has been called in this session
func (s *PlaySession) IsCalled(artist string) bool {
	for _, a := range s.Called {
		if a == artist {
			return true
		}
	}
	return false
}

// Selection is the set of called artists and excluded card numbers that
// stats are computed against
type Selection struct {
	Called   map[string]struct{}
	Excluded map[int]struct{}
}

// NewSelection builds a Selection from lists; duplicates collapse
func NewSelection(called []string, excluded []int) Selection {
	sel := Selection{
		Called:   make(map[string]struct{}, len(called)),
		Excluded: make(map[int]struct{}, len(excluded)),
	}
	for _, a := range called {
		sel.Called[a] = struct{}{}
	}
	for _, n := range excluded {
		sel.Excluded[n] = struct{}{}
	}
	return sel
}

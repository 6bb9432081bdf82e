package response

import (
	"time"

	"github.com/mcoot/musicbingo/internal/model"
)

// Game represents a bingo game in API responses
type Game struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Artists   []string  `json:"artists"`
	CardCount int       `json:"card_count"`
	HasMarker bool      `json:"has_marker"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	artists := make([]string, len(g.Artists))
	copy(artists, g.Artists)
	return Game{
		ID:        string(g.ID),
		Name:      g.Name,
		Artists:   artists,
		CardCount: g.CardCount,
		HasMarker: g.HasMarker,
		Status:    string(g.Status),
		CreatedAt: g.CreatedAt,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModel converts a slice of games, preserving order
func GameListFromModel(games []*model.Game) GameList {
	out := GameList{Games: make([]Game, 0, len(games))}
	for _, g := range games {
		out.Games = append(out.Games, GameFromModel(g))
	}
	return out
}

// Card is one card's grid. Rows holds the displayed names, heart included.
type Card struct {
	Number int          `json:"number"`
	Rows   [][]string   `json:"rows"`
	Cells  []model.Cell `json:"cells"`
}

// CardFromModel converts a model.Card
func CardFromModel(c model.Card) Card {
	rows := make([][]string, 0, model.GridSize)
	for r := 0; r < len(c.Grid)/model.GridSize; r++ {
		row := make([]string, 0, model.GridSize)
		for _, cell := range c.Grid.Row(r) {
			row = append(row, cell.Display())
		}
		rows = append(rows, row)
	}
	return Card{
		Number: c.Number,
		Rows:   rows,
		Cells:  c.Grid.Clone(),
	}
}

// CardList is the response for a game's cards
type CardList struct {
	GameID string `json:"game_id"`
	Cards  []Card `json:"cards"`
}

// CardListFromModel converts a game's cards
func CardListFromModel(gameID model.GameID, cards []model.Card) CardList {
	out := CardList{GameID: string(gameID), Cards: make([]Card, 0, len(cards))}
	for _, c := range cards {
		out.Cards = append(out.Cards, CardFromModel(c))
	}
	return out
}

// CardStat is one card's progress
type CardStat struct {
	CardNumber int  `json:"card_number"`
	Remaining  int  `json:"remaining"`
	IsComplete bool `json:"is_complete"`
}

// Stats is the ranked stats view
type Stats struct {
	Cards        []CardStat `json:"cards"`
	Winners      []int      `json:"winners"`
	NearComplete []int      `json:"near_complete"`
	TotalCards   int        `json:"total_cards"`
}

// StatsFromModel converts a model.StatsSnapshot. Slices are never null.
func StatsFromModel(s model.StatsSnapshot) Stats {
	out := Stats{
		Cards:        make([]CardStat, 0, len(s.Cards)),
		Winners:      append([]int{}, s.Winners...),
		NearComplete: append([]int{}, s.NearComplete...),
		TotalCards:   s.TotalCards,
	}
	for _, c := range s.Cards {
		out.Cards = append(out.Cards, CardStat{
			CardNumber: c.CardNumber,
			Remaining:  c.Remaining,
			IsComplete: c.IsComplete,
		})
	}
	return out
}

// Session represents a play session
type Session struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Called    []string  `json:"called"`
	Excluded  []int     `json:"excluded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionFromModel converts a model.PlaySession
func SessionFromModel(s *model.PlaySession) Session {
	return Session{
		ID:        string(s.ID),
		GameID:    string(s.GameID),
		Called:    append([]string{}, s.Called...),
		Excluded:  append([]int{}, s.Excluded...),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionState is a session together with its current stats
type SessionState struct {
	Session Session `json:"session"`
	Stats   Stats   `json:"stats"`
}

// SessionStateFromModel pairs a session with a snapshot
func SessionStateFromModel(s *model.PlaySession, snap model.StatsSnapshot) SessionState {
	return SessionState{
		Session: SessionFromModel(s),
		Stats:   StatsFromModel(snap),
	}
}

// Health is the health check response
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

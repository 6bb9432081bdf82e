package storage

import (
	"sort"

	"github.com/mcoot/musicbingo/internal/model"
)

// SortGamesNewestFirst orders games by creation time, newest first, breaking
// ties by ID so listings are stable across backends
func SortGamesNewestFirst(games []*model.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
}

// Package stats ranks bingo cards against the artists called so far.
// Everything here is a pure projection of its inputs and safe to call from
// any number of goroutines.
package stats

import (
	"sort"

	"github.com/mcoot/musicbingo/internal/model"
)

// Compute builds a snapshot for cards given the called artists and the card
// numbers to leave out. Excluded numbers that match no card are ignored.
func Compute(cards []model.Card, called []string, excluded []int) model.StatsSnapshot {
	return ComputeSelection(cards, model.NewSelection(called, excluded))
}

// ComputeSelection is Compute over an already built Selection
func ComputeSelection(cards []model.Card, sel model.Selection) model.StatsSnapshot {
	cardStats := make([]model.CardStat, 0, len(cards))
	for _, card := range cards {
		if _, ok := sel.Excluded[card.Number]; ok {
			continue
		}
		remaining := Remaining(card.Grid, sel.Called)
		cardStats = append(cardStats, model.CardStat{
			CardNumber: card.Number,
			Remaining:  remaining,
			IsComplete: remaining == 0,
		})
	}

	// Equal counts keep the callers' card order
	sort.SliceStable(cardStats, func(i, j int) bool {
		return cardStats[i].Remaining < cardStats[j].Remaining
	})

	snapshot := model.StatsSnapshot{
		Cards:        cardStats,
		Winners:      []int{},
		NearComplete: []int{},
		TotalCards:   len(cardStats),
	}
	for _, cs := range cardStats {
		switch {
		case cs.IsComplete:
			snapshot.Winners = append(snapshot.Winners, cs.CardNumber)
		case cs.Remaining <= model.NearCompleteThreshold:
			snapshot.NearComplete = append(snapshot.NearComplete, cs.CardNumber)
		}
	}
	return snapshot
}

// Remaining counts the cells of grid whose artist has not been called.
// Matching is exact on the cell name, which never carries the marker, so
// pool names containing a heart still match their calls.
func Remaining(grid model.Grid, called map[string]struct{}) int {
	remaining := 0
	for _, cell := range grid {
		if _, ok := called[cell.Name]; !ok {
			remaining++
		}
	}
	return remaining
}
